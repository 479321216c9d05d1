package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/session"
)

type RoleHandler struct {
	Client          GroupClient
	Runner          *session.Runner
	FilterGuestRole bool
	Log             hclog.Logger
}

// List returns the group's roles, fetched fresh from the platform. Rank 0
// is the non-member guest tier and is hidden unless filtering is disabled.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := session.Do(c.Request.Context(), h.Runner, h.Client.GroupRoles)
	if err != nil {
		h.Log.Error("role list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ranks_failed"})
		return
	}

	out := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		if h.FilterGuestRole && role.Rank == 0 {
			continue
		}
		out = append(out, gin.H{"id": role.ID, "name": role.Name, "rank": role.Rank})
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}
