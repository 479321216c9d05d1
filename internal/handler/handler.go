package handler

import (
	"context"

	"roblox-group-admin/internal/roblox"
)

// GroupClient is the slice of the platform adapter the handlers call. All
// calls go through the session runner so token expiry is recovered before a
// failure ever reaches a caller.
type GroupClient interface {
	GroupRoles(ctx context.Context) ([]roblox.Role, error)
	SetRank(ctx context.Context, userID, roleID int64) error
	Exile(ctx context.Context, userID int64) error
	AcceptJoinRequest(ctx context.Context, userID int64) error
	ResolveUsername(ctx context.Context, username string) (int64, error)
}
