package roblox

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a failure reported by the Roblox web API. SessionInvalid is
// decided here, at the adapter boundary, so callers never have to inspect
// message text themselves.
type APIError struct {
	StatusCode     int
	Code           int
	Message        string
	SessionInvalid bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("roblox: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("roblox: %s (status %d, code %d)", e.Message, e.StatusCode, e.Code)
}

// IsSessionInvalid reports whether err carries the X-CSRF rejection that
// means the held session token is no longer accepted.
func IsSessionInvalid(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.SessionInvalid
}

// ErrUserNotFound is returned when a username cannot be resolved to an id.
var ErrUserNotFound = errors.New("roblox: user not found")

func isTokenRejection(status int, message string) bool {
	return status == 403 && strings.Contains(strings.ToLower(message), "token validation failed")
}
