package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/roblox"
	"roblox-group-admin/internal/session"
)

var (
	errInvalidRoleID     = errors.New("invalid_roleId")
	errInvalidRankNumber = errors.New("invalid_rankNumber")
)

type RankHandler struct {
	Client GroupClient
	Runner *session.Runner
	Log    hclog.Logger
}

type rankBody struct {
	RobloxID   *int64 `json:"robloxId"`
	RoleID     *int64 `json:"roleId"`
	RankNumber *int   `json:"rankNumber"`
}

// Validate checks fields locally; error messages are the wire error codes.
func (b rankBody) Validate() error {
	if err := validation.Validate(b.RobloxID,
		validation.Required.Error("missing_robloxId"),
		validation.Min(int64(1)).Error("missing_robloxId"),
	); err != nil {
		return err
	}
	if b.RoleID == nil && b.RankNumber == nil {
		return errors.New("missing_roleId_or_rankNumber")
	}
	if b.RankNumber != nil {
		return validation.Validate(b.RankNumber,
			validation.Min(0).Error("invalid_rankNumber"),
			validation.Max(255).Error("invalid_rankNumber"),
		)
	}
	return nil
}

// SetRank applies a rank to an existing member. The target role comes from
// roleId when given, else from rankNumber, resolved against a fresh role
// list inside the same retried operation.
func (h *RankHandler) SetRank(c *gin.Context) {
	var body rankBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applied, err := h.resolveAndApply(c.Request.Context(), body)
	if err != nil {
		h.respondRankError(c, err, "set_rank_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "appliedRank": applied})
}

// EnsureMemberAndRank accepts a pending join request (best effort, outcome
// logged and discarded: an error here almost always means the user is
// already a member or has no pending request) and then applies the rank.
// Both steps are idempotent on the platform side, so re-invoking after a
// lost response is safe.
func (h *RankHandler) EnsureMemberAndRank(c *gin.Context) {
	var body rankBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := session.Run(ctx, h.Runner, func(ctx context.Context) error {
		return h.Client.AcceptJoinRequest(ctx, *body.RobloxID)
	}); err != nil {
		h.Log.Info("accept-join step skipped", "robloxId", *body.RobloxID, "error", err)
	}

	applied, err := h.resolveAndApply(ctx, body)
	if err != nil {
		h.respondRankError(c, err, "ensure_member_rank_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "appliedRank": applied})
}

func (h *RankHandler) resolveAndApply(ctx context.Context, body rankBody) (int, error) {
	return session.Do(ctx, h.Runner, func(ctx context.Context) (int, error) {
		roles, err := h.Client.GroupRoles(ctx)
		if err != nil {
			return 0, err
		}

		var target *roblox.Role
		for i := range roles {
			if body.RoleID != nil {
				if roles[i].ID == *body.RoleID {
					target = &roles[i]
					break
				}
			} else if roles[i].Rank == *body.RankNumber {
				target = &roles[i]
				break
			}
		}
		if target == nil {
			if body.RoleID != nil {
				return 0, errInvalidRoleID
			}
			return 0, errInvalidRankNumber
		}

		if err := h.Client.SetRank(ctx, *body.RobloxID, target.ID); err != nil {
			return 0, err
		}
		return target.Rank, nil
	})
}

func (h *RankHandler) respondRankError(c *gin.Context, err error, code string) {
	if errors.Is(err, errInvalidRoleID) || errors.Is(err, errInvalidRankNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Log.Error("rank operation failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": code})
}
