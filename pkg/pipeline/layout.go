package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/observability"
)

// LayoutWithCacheInfo lays t out and reports whether the result came from
// the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *mindmap.Tree, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)
	hash, err := SnapshotHash(t)
	if err != nil {
		return layout.Result{}, false, err
	}
	return r.layout(ctx, t, hash, opts)
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, t *mindmap.Tree, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return res, err
}

func (r *Runner) layout(ctx context.Context, t *mindmap.Tree, hash string, opts Options) (layout.Result, bool, error) {
	if err := r.checkContext(ctx); err != nil {
		return layout.Result{}, false, err
	}
	// Unknown strategies fail before touching the cache.
	if _, err := r.Registry.Lookup(opts.Strategy); err != nil {
		return layout.Result{}, false, err
	}

	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if !opts.Refresh {
		var res layout.Result
		switch err := cache.GetJSON(ctx, r.Cache, key, &res); {
		case err == nil:
			return res, true, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			opts.Logger.Warn("cache get", "key", key, "error", err)
		}
	}

	v, err, shared := r.flight.Do(key, func() (any, error) {
		start := time.Now()
		res, err := r.Registry.Run(opts.Strategy, t, opts.Layout)
		observability.Layout().OnLayout(ctx, opts.Strategy, len(res.Nodes), time.Since(start), err)
		if err != nil {
			return layout.Result{}, err
		}
		if err := cache.SetJSON(ctx, r.Cache, key, res, r.LayoutTTL); err != nil {
			opts.Logger.Warn("cache layout", "error", err)
		}
		return res, nil
	})
	if err != nil {
		return layout.Result{}, false, err
	}
	if shared {
		opts.Logger.Debug("shared in-flight layout", "strategy", opts.Strategy)
	}
	return v.(layout.Result), false, nil
}
