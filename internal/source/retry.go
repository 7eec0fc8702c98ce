package source

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
	backoffFactor    = 2
)

// Retrying retries a Source with exponential backoff. When every attempt
// fails it returns an *UnavailableError.
type Retrying struct {
	Source    Source
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Logger    *slog.Logger
}

// Backoff returns the wait before retry attempt n (1-based): base, 2·base,
// 4·base and so on, capped at maxDelay.
func Backoff(n int, base, maxDelay time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}

	d := base
	for range n - 1 {
		d *= backoffFactor
		if d >= maxDelay {
			return maxDelay
		}
	}

	return min(d, maxDelay)
}

// Fetch implements Source.
func (r *Retrying) Fetch(ctx context.Context, tab Tab) (string, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	base, maxDelay := r.BaseDelay, r.MaxDelay
	if base <= 0 {
		base = defaultBaseDelay
	}

	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	var lastErr error

	for attempt := range attempts {
		if attempt > 0 {
			wait := Backoff(attempt, base, maxDelay)
			r.log().DebugContext(ctx, "retrying fetch", "tab", string(tab), "attempt", attempt+1, "wait", wait)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()

				return "", &UnavailableError{Tab: tab, Attempts: attempt, Err: ctx.Err()}
			case <-timer.C:
			}
		}

		text, err := r.Source.Fetch(ctx, tab)
		if err == nil {
			return text, nil
		}

		lastErr = err
		r.log().WarnContext(ctx, "fetch failed", "tab", string(tab), "attempt", attempt+1, "error", err)

		if ctx.Err() != nil {
			return "", &UnavailableError{Tab: tab, Attempts: attempt + 1, Err: err}
		}
	}

	return "", &UnavailableError{Tab: tab, Attempts: attempts, Err: lastErr}
}

func (r *Retrying) log() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return r.Logger
}
