package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/config"
	"roblox-group-admin/internal/handler"
	"roblox-group-admin/internal/middleware"
	"roblox-group-admin/internal/session"
)

type Deps struct {
	Config   config.Config
	Client   handler.GroupClient
	Sessions *session.Manager
	Runner   *session.Runner
	Log      hclog.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))

	healthHandler := &handler.HealthHandler{
		Sessions: deps.Sessions,
		GroupID:  deps.Config.GroupID,
		Log:      log.Named("health"),
	}
	r.GET("/health", healthHandler.Check)
	r.GET("/", healthHandler.Check)

	protected := r.Group("/")
	protected.Use(middleware.RequireSecret(deps.Config.SecretKey))
	protected.Use(middleware.RateLimit(middleware.NewRateLimiter(60, time.Minute)))

	roleHandler := &handler.RoleHandler{
		Client:          deps.Client,
		Runner:          deps.Runner,
		FilterGuestRole: deps.Config.FilterGuestRole,
		Log:             log.Named("roles"),
	}
	protected.GET("/ranks", roleHandler.List)

	rankHandler := &handler.RankHandler{Client: deps.Client, Runner: deps.Runner, Log: log.Named("rank")}
	protected.POST("/set-rank", rankHandler.SetRank)
	protected.POST("/ensure-member-and-rank", rankHandler.EnsureMemberAndRank)

	memberHandler := &handler.MemberHandler{Client: deps.Client, Runner: deps.Runner, Log: log.Named("member")}
	protected.POST("/remove", memberHandler.Remove)
	protected.POST("/accept-join", memberHandler.AcceptJoin)

	return r
}
