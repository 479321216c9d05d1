package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"roblox-group-admin/internal/config"
	"roblox-group-admin/internal/roblox"
	"roblox-group-admin/internal/server"
	"roblox-group-admin/internal/session"
)

func main() {
	// optional; real deployments set env directly
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		hclog.Default().Error("configuration error", "error", err)
		os.Exit(1)
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:  "group-admin",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	gin.SetMode(cfg.GinMode)

	client := roblox.NewClient(cfg.GroupID, cfg.RobloxCookie)
	sessions := session.NewManager(client, log.Named("session"))
	runner := session.NewRunner(sessions, log.Named("retry"))

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Client:   client,
		Sessions: sessions,
		Runner:   runner,
		Log:      log,
	})

	log.Info("listening", "addr", fmt.Sprintf(":%d", cfg.Port), "groupId", cfg.GroupID)
	if err := server.Run(cfg, router); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
