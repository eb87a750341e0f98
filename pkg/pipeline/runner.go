package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/render/dot"
)

// Runner executes the pipeline with caching. It keeps no per-run state, so
// one Runner may serve many goroutines.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *layout.Registry

	LayoutTTL   time.Duration
	ArtifactTTL time.Duration

	flight singleflight.Group
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default(). The
// registry holds the pure strategies plus Graphviz "dot".
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Registry:    dot.Registry(),
		LayoutTTL:   cache.TTLLayout,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute parses content and runs layout and render.
func (r *Runner) Execute(ctx context.Context, content []byte, opts Options) (*Result, error) {
	t, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return r.ExecuteTree(ctx, t, opts)
}

// ExecuteTree runs layout and render for an already decoded tree.
func (r *Runner) ExecuteTree(ctx context.Context, t *mindmap.Tree, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hash, err := SnapshotHash(t)
	if err != nil {
		return nil, err
	}
	result := &Result{Tree: t, SnapshotHash: hash}
	result.Stats.NodeCount = t.Len()

	layoutStart := time.Now()
	res, hit, err := r.layout(ctx, t, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.VisibleCount = len(res.Nodes)
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Debug("computed layout",
		"strategy", opts.Strategy,
		"nodes", len(res.Nodes),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, t, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Debug("rendered artifacts",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "pipeline cancelled")
	}
	return nil
}
