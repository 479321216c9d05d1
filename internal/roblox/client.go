package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Identity is the bot account as reported by the authenticated-user endpoint.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role is a group role tier. Rank 0 is the non-member "Guest" tier.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// Client talks to the Roblox web APIs for a single group using the bot's
// long-lived .ROBLOSECURITY cookie plus a short-lived X-CSRF token that
// Login refreshes.
type Client struct {
	groupID int64
	cookie  string
	http    *http.Client

	authBase   string
	usersBase  string
	groupsBase string

	mu        sync.Mutex
	csrfToken string
}

func NewClient(groupID int64, cookie string) *Client {
	return &Client{
		groupID:    groupID,
		cookie:     cookie,
		http:       &http.Client{Timeout: 30 * time.Second},
		authBase:   "https://auth.roblox.com",
		usersBase:  "https://users.roblox.com",
		groupsBase: "https://groups.roblox.com",
	}
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.csrfToken = tok
	c.mu.Unlock()
}

// Login refreshes the CSRF token and verifies the cookie still maps to a
// real account. Roblox hands out a fresh token on the 403 challenge of any
// token-guarded endpoint; the logout endpoint is the conventional one.
func (c *Client) Login(ctx context.Context) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/v2/logout", nil)
	if err != nil {
		return Identity{}, err
	}
	c.decorate(req, "")
	resp, err := c.http.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("csrf challenge: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	tok := resp.Header.Get("X-Csrf-Token")
	if tok == "" {
		return Identity{}, &APIError{StatusCode: resp.StatusCode, Message: "no csrf token issued"}
	}
	c.setToken(tok)

	var id Identity
	if err := c.do(ctx, http.MethodGet, c.usersBase+"/v1/users/authenticated", nil, &id); err != nil {
		return Identity{}, err
	}
	if id.ID == 0 {
		return Identity{}, &APIError{StatusCode: http.StatusOK, Message: "authenticated user has no id"}
	}
	return id, nil
}

// GroupRoles fetches the group's role list, fresh on every call.
func (c *Client) GroupRoles(ctx context.Context) ([]Role, error) {
	var out struct {
		Roles []Role `json:"roles"`
	}
	url := fmt.Sprintf("%s/v1/groups/%d/roles", c.groupsBase, c.groupID)
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

// SetRank moves the member to the given role.
func (c *Client) SetRank(ctx context.Context, userID, roleID int64) error {
	url := fmt.Sprintf("%s/v1/groups/%d/users/%d", c.groupsBase, c.groupID, userID)
	return c.do(ctx, http.MethodPatch, url, map[string]int64{"roleId": roleID}, nil)
}

// Exile removes the member from the group.
func (c *Client) Exile(ctx context.Context, userID int64) error {
	url := fmt.Sprintf("%s/v1/groups/%d/users/%d", c.groupsBase, c.groupID, userID)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

// AcceptJoinRequest approves the user's pending join request. Roblox rejects
// the call if no request is pending; callers decide whether that matters.
func (c *Client) AcceptJoinRequest(ctx context.Context, userID int64) error {
	url := fmt.Sprintf("%s/v1/groups/%d/join-requests/users/%d", c.groupsBase, c.groupID, userID)
	return c.do(ctx, http.MethodPost, url, nil, nil)
}

// ResolveUsername maps a display name to its numeric user id.
func (c *Client) ResolveUsername(ctx context.Context, username string) (int64, error) {
	body := map[string]any{
		"usernames":          []string{username},
		"excludeBannedUsers": true,
	}
	var out struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.usersBase+"/v1/usernames/users", body, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 || out.Data[0].ID == 0 {
		return 0, ErrUserNotFound
	}
	return out.Data[0].ID, nil
}

func (c *Client) decorate(req *http.Request, csrf string) {
	req.Header.Set("Cookie", ".ROBLOSECURITY="+c.cookie)
	req.Header.Set("Content-Type", "application/json")
	if csrf != "" {
		req.Header.Set("X-Csrf-Token", csrf)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	c.decorate(req, c.token())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Errors) > 0 {
		apiErr.Code = payload.Errors[0].Code
		apiErr.Message = payload.Errors[0].Message
	}

	apiErr.SessionInvalid = isTokenRejection(resp.StatusCode, apiErr.Message)
	return apiErr
}
