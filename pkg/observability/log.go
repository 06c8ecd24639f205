package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogCacheHooks writes every cache event to a logger at debug level.
// It backs the --verbose-cache flag.
type LogCacheHooks struct {
	logger *log.Logger
}

// NewLogCacheHooks returns cache hooks that log to l.
func NewLogCacheHooks(l *log.Logger) *LogCacheHooks {
	return &LogCacheHooks{logger: l}
}

func (h *LogCacheHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *LogCacheHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *LogCacheHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

// LogHTTPHooks logs outgoing requests at debug level.
type LogHTTPHooks struct {
	logger *log.Logger
}

// NewLogHTTPHooks returns HTTP hooks that log to l.
func NewLogHTTPHooks(l *log.Logger) *LogHTTPHooks {
	return &LogHTTPHooks{logger: l}
}

func (h *LogHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ CacheHooks = (*LogCacheHooks)(nil)
	_ HTTPHooks  = (*LogHTTPHooks)(nil)
)
