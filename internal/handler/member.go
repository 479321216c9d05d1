package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/session"
)

type MemberHandler struct {
	Client GroupClient
	Runner *session.Runner
	Log    hclog.Logger
}

type removeBody struct {
	RobloxID *int64 `json:"robloxId"`
	Username string `json:"username"`
}

func (b removeBody) Validate() error {
	if b.RobloxID == nil && b.Username == "" {
		return errors.New("missing_robloxId")
	}
	if b.RobloxID != nil {
		return validation.Validate(b.RobloxID,
			validation.Required.Error("missing_robloxId"),
			validation.Min(int64(1)).Error("missing_robloxId"),
		)
	}
	return nil
}

// Remove exiles the target from the group. A username is resolved to its
// numeric id first, inside the same retried operation.
func (h *MemberHandler) Remove(c *gin.Context) {
	var body removeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := session.Do(c.Request.Context(), h.Runner, func(ctx context.Context) (int64, error) {
		userID := int64(0)
		if body.RobloxID != nil {
			userID = *body.RobloxID
		} else {
			resolved, err := h.Client.ResolveUsername(ctx, body.Username)
			if err != nil {
				return 0, err
			}
			userID = resolved
		}
		if err := h.Client.Exile(ctx, userID); err != nil {
			return 0, err
		}
		return userID, nil
	})
	if err != nil {
		h.Log.Error("member removal failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "robloxId": userID})
}

type acceptJoinBody struct {
	RobloxID *int64 `json:"robloxId"`
}

func (b acceptJoinBody) Validate() error {
	return validation.Validate(b.RobloxID,
		validation.Required.Error("missing_robloxId"),
		validation.Min(int64(1)).Error("missing_robloxId"),
	)
}

// AcceptJoin approves a pending join request. Unlike the combined
// ensure-member-and-rank flow, a failure here is surfaced to the caller.
func (h *MemberHandler) AcceptJoin(c *gin.Context) {
	var body acceptJoinBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := session.Run(c.Request.Context(), h.Runner, func(ctx context.Context) error {
		return h.Client.AcceptJoinRequest(ctx, *body.RobloxID)
	})
	if err != nil {
		h.Log.Error("accept join request failed", "robloxId", *body.RobloxID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "accept_join_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
