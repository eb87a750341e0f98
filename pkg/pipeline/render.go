package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/observability"
	"github.com/matzehuels/infinityflow/pkg/render"
	"github.com/matzehuels/infinityflow/pkg/render/dot"
	"github.com/matzehuels/infinityflow/pkg/render/sink"
)

// RenderWithCacheInfo renders every requested format of a layout and reports
// whether all of them came from the cache. The tree is needed only for the
// DOT format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *mindmap.Tree, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	if err := r.checkContext(ctx); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromLayout(ctx, t, res, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, t *mindmap.Tree, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, res, opts)
	return artifacts, err
}

// RenderFromLayout renders without caching.
func RenderFromLayout(ctx context.Context, t *mindmap.Tree, res layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	scene := render.Build(res, opts.sceneOptions()...)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		data, err := renderFormat(t, scene, format, opts)
		observability.Layout().OnRender(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(t *mindmap.Tree, scene render.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Background != "" {
			svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
		}
		if opts.Title != "" {
			svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
		}
		return sink.RenderSVG(scene, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(scene, sink.WithScale(opts.Scale))
	case FormatJSON:
		return sink.RenderJSON(scene)
	case FormatDOT:
		if t == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "dot output needs the tree")
		}
		lo := opts.Layout
		if lo.NodeHeight == 0 {
			lo = layout.DefaultOptions()
		}
		return []byte(dot.ToDOT(t, dot.Options{Layout: &lo})), nil
	}
	return nil, ValidateFormat(format)
}
