package layout

// Default geometry, in canvas units.
const (
	DefaultHorizontalGap = 50
	DefaultVerticalGap   = 12
	DefaultCharWidth     = 14
	DefaultPadding       = 24
	DefaultRootMinWidth  = 120
	DefaultRootHeight    = 50
	DefaultMinWidth      = 80
	DefaultNodeHeight    = 36
	DefaultAnchorX       = 50
	DefaultAnchorY       = 50
	DefaultMargin        = 50
	DefaultRingRadius    = 200
)

// Default colors: the root accent and the palette cycled over the root's
// children by sibling index.
const DefaultRootColor = "#3b82f6"

// DefaultPalette returns a fresh copy of the branch palette.
func DefaultPalette() []string {
	return []string{"#ef4444", "#f59e0b", "#10b981", "#8b5cf6", "#ec4899"}
}

// Direction is the rank axis of the layered strategy.
type Direction string

const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

// Options holds the geometry shared by every strategy.
type Options struct {
	HorizontalGap float64 // between a parent's right edge and its children
	VerticalGap   float64 // between consecutive sibling subtrees

	CharWidth    float64 // per-rune width used for label measurement
	Padding      float64 // added to the measured label width
	RootMinWidth float64
	RootHeight   float64
	MinWidth     float64
	NodeHeight   float64
	FixedSize    bool // ignore label length, use per-depth sizes only

	AnchorX, AnchorY float64 // top-left of the root's allocation
	Margin           float64 // padding renderers add around the bounding box

	Centered bool // center each children block on its parent's midpoint

	RootColor string
	Palette   []string

	RingRadius float64   // radial: distance between consecutive rings
	Direction  Direction // layered: rank axis
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the standard geometry.
func DefaultOptions() Options {
	return Options{
		HorizontalGap: DefaultHorizontalGap,
		VerticalGap:   DefaultVerticalGap,
		CharWidth:     DefaultCharWidth,
		Padding:       DefaultPadding,
		RootMinWidth:  DefaultRootMinWidth,
		RootHeight:    DefaultRootHeight,
		MinWidth:      DefaultMinWidth,
		NodeHeight:    DefaultNodeHeight,
		AnchorX:       DefaultAnchorX,
		AnchorY:       DefaultAnchorY,
		Margin:        DefaultMargin,
		Centered:      true,
		RootColor:     DefaultRootColor,
		Palette:       DefaultPalette(),
		RingRadius:    DefaultRingRadius,
		Direction:     LeftToRight,
	}
}

// NewOptions applies opts to DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithGaps(horizontal, vertical float64) Option {
	return func(o *Options) {
		o.HorizontalGap = max(horizontal, 0)
		o.VerticalGap = max(vertical, 0)
	}
}

func WithAnchor(x, y float64) Option {
	return func(o *Options) { o.AnchorX, o.AnchorY = x, y }
}

func WithMargin(m float64) Option { return func(o *Options) { o.Margin = max(m, 0) } }

// WithFixedSize sizes nodes by depth only: root RootMinWidth×RootHeight,
// every other node MinWidth×NodeHeight.
func WithFixedSize() Option { return func(o *Options) { o.FixedSize = true } }

// WithClassic disables children-block centering.
func WithClassic() Option { return func(o *Options) { o.Centered = false } }

// WithPalette replaces the root color and branch palette. Empty values keep
// the defaults.
func WithPalette(root string, palette ...string) Option {
	return func(o *Options) {
		if root != "" {
			o.RootColor = root
		}
		if len(palette) > 0 {
			o.Palette = append([]string(nil), palette...)
		}
	}
}

func WithRingRadius(r float64) Option {
	return func(o *Options) {
		if r > 0 {
			o.RingRadius = r
		}
	}
}

func WithDirection(d Direction) Option {
	return func(o *Options) {
		if d == LeftToRight || d == TopToBottom {
			o.Direction = d
		}
	}
}
