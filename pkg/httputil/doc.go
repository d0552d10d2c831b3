// Package httputil provides retry helpers for repository HTTP clients.
//
// Transient failures (connection errors, 5xx and 429 responses) are
// wrapped in [RetryableError] by the caller, with the server's Retry-After
// delay when it sent one; [Retry] re-runs the operation with exponential
// backoff and returns any other error at once:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(ctx, url)
//	})
//
// Defaults: 3 attempts, 1 second initial delay, doubling per attempt.
package httputil
