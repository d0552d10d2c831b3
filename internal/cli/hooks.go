package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionrange/pkg/observability"
)

// debugHooks logs resolver, cache and HTTP events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func registerDebugHooks(logger *log.Logger) {
	h := &debugHooks{logger: logger}
	observability.SetResolveHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *debugHooks) OnResolveStart(_ context.Context, artifact string) {
	h.logger.Debug("resolving", "artifact", artifact)
}

func (h *debugHooks) OnResolveComplete(_ context.Context, artifact, version string, candidates int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "artifact", artifact, "err", err, "duration", d)
		return
	}
	h.logger.Debug("resolved", "artifact", artifact, "version", version, "candidates", candidates, "duration", d)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
