package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxRetryAfter caps a server-requested wait. A repository asking for
// longer gets its wait shortened to this.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure that [Retry] may repeat.
type RetryableError struct {
	Err error
	// After is the wait the server asked for (Retry-After), zero if none.
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times (at least once). Between attempts it
// waits for the server-requested delay of a [RetryableError] when one is
// set, otherwise for delay, which doubles after every retry. Other errors
// end the loop immediately. Cancellation during a wait returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error

	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		var retryErr *RetryableError
		if !errors.As(err, &retryErr) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if retryErr.After > 0 {
			wait = min(retryErr.After, MaxRetryAfter)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff calls [Retry] with 3 attempts and a 1 second initial
// delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// ParseRetryAfter reads a Retry-After header value, either delay seconds
// or an HTTP date. Unparseable and past values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	return max(t.Sub(now), 0)
}
