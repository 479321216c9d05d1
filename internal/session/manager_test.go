package session

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roblox-group-admin/internal/roblox"
)

type fakeAuth struct {
	logins int
	err    error
	id     roblox.Identity
}

func (f *fakeAuth) Login(ctx context.Context) (roblox.Identity, error) {
	f.logins++
	if f.err != nil {
		return roblox.Identity{}, f.err
	}
	return f.id, nil
}

func TestEnsureAuthenticated_LogsInOnce(t *testing.T) {
	auth := &fakeAuth{id: roblox.Identity{ID: 1, Name: "bot"}}
	m := NewManager(auth, hclog.NewNullLogger())

	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	assert.Equal(t, 1, auth.logins)
}

func TestEnsureAuthenticated_FailureStaysUnauthenticated(t *testing.T) {
	auth := &fakeAuth{err: errors.New("bad cookie")}
	m := NewManager(auth, hclog.NewNullLogger())

	err := m.EnsureAuthenticated(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	// still unauthenticated, so the next call logs in again
	auth.err = nil
	auth.id = roblox.Identity{ID: 1, Name: "bot"}
	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	assert.Equal(t, 2, auth.logins)
}

func TestInvalidate_ForcesRelogin(t *testing.T) {
	auth := &fakeAuth{id: roblox.Identity{ID: 1, Name: "bot"}}
	m := NewManager(auth, hclog.NewNullLogger())

	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	m.Invalidate()
	m.Invalidate() // idempotent
	require.NoError(t, m.EnsureAuthenticated(context.Background()))
	assert.Equal(t, 2, auth.logins)
}
