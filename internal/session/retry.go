package session

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"roblox-group-admin/internal/roblox"
)

const (
	// DefaultMaxAttempts bounds the total tries per operation, first
	// attempt included.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed wait before a re-login retry. Expiry
	// is fixed by one re-login, so there is nothing to back off from.
	DefaultRetryDelay = 1500 * time.Millisecond
)

// Runner executes platform operations under a valid session. The only
// failure class it retries is a session-invalid rejection: invalidate,
// wait, re-login, try again. Everything else propagates on first sight.
type Runner struct {
	Sessions    *Manager
	MaxAttempts int
	Delay       time.Duration
	Log         hclog.Logger
}

func NewRunner(sessions *Manager, log hclog.Logger) *Runner {
	return &Runner{
		Sessions:    sessions,
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
		Log:         log,
	}
}

// Do runs op with session recovery and returns its result.
func Do[T any](ctx context.Context, r *Runner, op func(ctx context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		var zero T
		if err := r.Sessions.EnsureAuthenticated(ctx); err != nil {
			return zero, backoff.Permanent(err)
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if roblox.IsSessionInvalid(err) {
			r.Sessions.Invalidate()
			r.Log.Warn("session rejected by platform, will re-login", "error", err)
			return zero, err
		}
		return zero, backoff.Permanent(err)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.Delay), uint64(r.MaxAttempts-1)),
		ctx,
	)
	return backoff.RetryWithData(attempt, bo)
}

// Run is Do for operations without a result.
func Run(ctx context.Context, r *Runner, op func(ctx context.Context) error) error {
	_, err := Do(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
