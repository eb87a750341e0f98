// Package pipeline runs the snapshot → layout → render pipeline used by the
// CLI and the HTTP API.
//
// Both stages are cached: layouts are keyed by the snapshot hash and the
// layout options, artifacts by the layout hash and the render options.
// Concurrent requests for the same layout share one computation.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, content, pipeline.Options{
//	    Strategy: "tree",
//	    Formats:  []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	t, err := pipeline.Parse(content)
//	res, err := runner.Layout(ctx, t, opts)
//	artifacts, err := runner.Render(ctx, t, res, opts)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = FormatSVG
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Strategy string         `json:"strategy,omitempty"`
	Layout   layout.Options `json:"-"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`
	Selected   string   `json:"selected,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = layout.DefaultStrategy
	}
	o.Strategy = strings.ToLower(o.Strategy)
	if o.Layout.NodeHeight == 0 {
		o.Layout = layout.DefaultOptions()
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRender checks only the render options.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if err := errors.ValidateColor(o.Background); err != nil {
		return err
	}
	if o.Selected != "" {
		if err := errors.ValidateID(o.Selected); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFormat checks a single output format. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (available: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// LayoutKeyOpts returns the options that key a cached layout.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:      o.Strategy,
		HorizontalGap: o.Layout.HorizontalGap,
		VerticalGap:   o.Layout.VerticalGap,
		FixedSize:     o.Layout.FixedSize,
		Centered:      o.Layout.Centered,
		Direction:     string(o.Layout.Direction),
		Palette:       append([]string{o.Layout.RootColor}, o.Layout.Palette...),
	}
}

// ArtifactKeyOpts returns the options that key a cached artifact.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Selected: o.Selected}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG:
		k.Background = o.Background
		k.Title = o.Title
	}
	return k
}

func (o Options) sceneOptions() []render.Option {
	return []render.Option{render.WithSelection(o.Selected)}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of a pipeline run.
type Result struct {
	Tree         *mindmap.Tree
	SnapshotHash string
	Layout       layout.Result
	Artifacts    map[string][]byte
	Stats        Stats
	CacheInfo    CacheInfo
}

// Formats returns the rendered formats in sorted order.
func (r *Result) Formats() []string {
	out := make([]string, 0, len(r.Artifacts))
	for f := range r.Artifacts {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Stats holds run statistics.
type Stats struct {
	NodeCount    int // stored nodes
	VisibleCount int // laid out nodes
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
