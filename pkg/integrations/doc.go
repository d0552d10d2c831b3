// Package integrations provides the HTTP plumbing for remote Maven
// repositories.
//
// [Client] wraps an http.Client with response caching through
// [cache.Cache], retry of transient failures via [httputil.Retry] and
// observability hooks. Repository-specific clients embed it:
//
//	client := maven.NewClient(c, time.Hour)
//	meta, err := client.Versions(ctx, integrations.CentralURL, coord, false)
//
// Status mapping: 200 succeeds, 404 is [ErrNotFound], 429 and 5xx are
// retryable [ErrNetwork] errors, anything else is a plain [ErrNetwork].
//
// [cache.Cache]: github.com/matzehuels/versionrange/pkg/cache.Cache
// [httputil.Retry]: github.com/matzehuels/versionrange/pkg/httputil.Retry
package integrations
