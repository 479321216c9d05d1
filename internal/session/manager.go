package session

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/roblox"
)

// Authenticator performs the login-and-verify step for the bot account.
type Authenticator interface {
	Login(ctx context.Context) (roblox.Identity, error)
}

// AuthError marks a failed login attempt. It is never retried.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "session: authentication failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// Manager owns the one authenticated flag for the process. The flag is a
// plain boolean flip: a racing duplicate login or a late invalidate costs at
// most one extra round trip, so logins are tolerated, not serialized.
type Manager struct {
	auth          Authenticator
	log           hclog.Logger
	authenticated atomic.Bool
}

func NewManager(auth Authenticator, log hclog.Logger) *Manager {
	return &Manager{auth: auth, log: log}
}

// EnsureAuthenticated is a no-op while the session is believed valid.
// Otherwise it logs in and verifies the bot identity before marking the
// session authenticated.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	if m.authenticated.Load() {
		return nil
	}

	id, err := m.auth.Login(ctx)
	if err != nil {
		return &AuthError{Err: err}
	}

	m.authenticated.Store(true)
	m.log.Info("bot session authenticated", "userId", id.ID, "username", id.Name)
	return nil
}

// Invalidate marks the session unauthenticated. Idempotent.
func (m *Manager) Invalidate() {
	m.authenticated.Store(false)
}
