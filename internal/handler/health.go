package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/session"
)

type HealthHandler struct {
	Sessions *session.Manager
	GroupID  int64
	Log      hclog.Logger
}

// Check is the one unauthenticated route. It opportunistically verifies the
// bot session so a dead cookie shows up in probes instead of first requests.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.Sessions.EnsureAuthenticated(c.Request.Context()); err != nil {
		h.Log.Error("health check authentication failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auth_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "groupId": h.GroupID})
}
