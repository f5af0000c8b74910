package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level so they surface without --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses the
// charm default logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnDecodeStart(_ context.Context, format string, size int) {
	h.logger.Debug("decode start", "format", format, "bytes", size)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, format string, d time.Duration, err error) {
	h.done("decode", d, err, "format", format)
}

func (h *LogHooks) OnPlotStart(_ context.Context, columns, rows int) {
	h.logger.Debug("plot start", "columns", columns, "rows", rows)
}

func (h *LogHooks) OnPlotComplete(_ context.Context, d time.Duration, err error) {
	h.done("plot", d, err)
}

func (h *LogHooks) OnEncodeStart(_ context.Context, formats []string) {
	h.logger.Debug("encode start", "formats", formats)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("encode", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}

func (h *LogHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Warn(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
