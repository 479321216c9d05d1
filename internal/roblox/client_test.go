package roblox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(42, "test-cookie")
	c.authBase = srv.URL
	c.usersBase = srv.URL
	c.groupsBase = srv.URL
	return c
}

func TestLogin_RefreshesTokenAndVerifiesIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Csrf-Token", "fresh-token")
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("GET /v1/users/authenticated", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Cookie"), ".ROBLOSECURITY=test-cookie")
		json.NewEncoder(w).Encode(Identity{ID: 123, Name: "GroupBot"})
	})

	c := newTestClient(t, mux)
	id, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123), id.ID)
	assert.Equal(t, "GroupBot", id.Name)
	assert.Equal(t, "fresh-token", c.token())
}

func TestLogin_NoTokenIssued(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := newTestClient(t, mux)
	_, err := c.Login(context.Background())
	require.Error(t, err)
	assert.False(t, IsSessionInvalid(err))
}

func TestLogin_IdentityCheckFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Csrf-Token", "fresh-token")
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("GET /v1/users/authenticated", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Identity{})
	})

	c := newTestClient(t, mux)
	_, err := c.Login(context.Background())
	require.Error(t, err)
}

func TestSetRank_SendsTokenAndRole(t *testing.T) {
	var gotToken string
	var gotBody map[string]int64
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/groups/42/users/777", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Csrf-Token")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	})

	c := newTestClient(t, mux)
	c.setToken("tok")
	require.NoError(t, c.SetRank(context.Background(), 777, 99))
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, int64(99), gotBody["roleId"])
}

func TestDo_TagsTokenRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/groups/42/users/777", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":0,"message":"Token Validation Failed"}]}`))
	})

	c := newTestClient(t, mux)
	err := c.SetRank(context.Background(), 777, 99)
	require.Error(t, err)
	assert.True(t, IsSessionInvalid(err))
}

func TestDo_OtherFailuresAreNotSessionInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/groups/42/users/777", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":23,"message":"You have insufficient permissions."}]}`))
	})

	c := newTestClient(t, mux)
	err := c.SetRank(context.Background(), 777, 99)
	require.Error(t, err)
	assert.False(t, IsSessionInvalid(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 23, apiErr.Code)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestGroupRoles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/groups/42/roles", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"roles": []Role{
			{ID: 1, Name: "Guest", Rank: 0},
			{ID: 2, Name: "Member", Rank: 10},
		}})
	})

	c := newTestClient(t, mux)
	roles, err := c.GroupRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Member", roles[1].Name)
	assert.Equal(t, 10, roles[1].Rank)
}

func TestResolveUsername(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/usernames/users", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Usernames []string `json:"usernames"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		require.Equal(t, []string{"builderman"}, body.Usernames)
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{{"id": 156}}})
	})

	c := newTestClient(t, mux)
	id, err := c.ResolveUsername(context.Background(), "builderman")
	require.NoError(t, err)
	assert.Equal(t, int64(156), id)
}

func TestResolveUsername_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/usernames/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	})

	c := newTestClient(t, mux)
	_, err := c.ResolveUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
