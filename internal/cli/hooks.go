package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/observability"
)

// debugHooks logs pipeline, cache and store events at debug level. They
// are installed for --verbose runs only.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnLayout(_ context.Context, strategy string, nodes int, d time.Duration, err error) {
	h.logger.Debug("layout", "strategy", strategy, "nodes", nodes, "took", d.Round(time.Microsecond), "err", err)
}

func (h debugHooks) OnRender(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("render", "format", format, "bytes", size, "took", d.Round(time.Microsecond), "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, key string)  { h.logger.Debug("cache hit", "key", key) }
func (h debugHooks) OnCacheMiss(_ context.Context, key string) { h.logger.Debug("cache miss", "key", key) }

func (h debugHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h debugHooks) OnSave(_ context.Context, backend, id string, size int, d time.Duration, err error) {
	h.logger.Debug("save", "backend", backend, "id", id, "bytes", size, "took", d.Round(time.Microsecond), "err", err)
}

func (h debugHooks) OnLoad(_ context.Context, backend, id string, d time.Duration, err error) {
	h.logger.Debug("load", "backend", backend, "id", id, "took", d.Round(time.Microsecond), "err", err)
}

func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
	observability.SetStoreHooks(h)
}
