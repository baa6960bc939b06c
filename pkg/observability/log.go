package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events as debug-level log lines.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h as the pipeline and cache hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnExtractStart(_ context.Context, inputs int) {
	h.Logger.Debug("extract started", "inputs", inputs)
}

func (h *LogHooks) OnExtractComplete(_ context.Context, inputs, fallbacks int, d time.Duration, err error) {
	h.complete("extract", d, err, "inputs", inputs, "fallbacks", fallbacks)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, descriptor string, inputs int) {
	h.Logger.Debug("layout started", "descriptor", descriptor, "inputs", inputs)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, rows int, d time.Duration, err error) {
	h.complete("layout", d, err, "rows", rows)
}

func (h *LogHooks) OnRenderStart(_ context.Context, kind string) {
	h.Logger.Debug("render started", "kind", kind)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, kind string, size int, d time.Duration, err error) {
	h.complete("render", d, err, "kind", kind, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) complete(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.Logger.Warn(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(stage+" complete", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
