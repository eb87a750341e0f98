package render

import (
	"fmt"

	"github.com/matzehuels/infinityflow/pkg/layout"
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is one drawable node.
type Box struct {
	ID     string      `json:"id"`
	Text   string      `json:"text"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  string      `json:"color"`
	Kind   layout.Kind `json:"kind"`

	Selected       bool `json:"selected,omitempty"`
	Editing        bool `json:"editing,omitempty"`
	Collapsed      bool `json:"collapsed,omitempty"`
	HiddenChildren int  `json:"hiddenChildren,omitempty"`
}

// Badge returns the collapse marker drawn at the box's right edge: "+N"
// for a collapsed node hiding N children, "" otherwise.
func (b Box) Badge() string {
	if !b.Collapsed || b.HiddenChildren == 0 {
		return ""
	}
	return fmt.Sprintf("+%d", b.HiddenChildren)
}

func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// Link is a drawable parent→child connector, colored like the child.
type Link struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"color"`
	Curve Curve  `json:"curve"`
}

// Scene is everything a surface needs to draw one layout.
type Scene struct {
	Strategy string  `json:"strategy"`
	Width    float64 `json:"width"`  // canvas width, margin included
	Height   float64 `json:"height"` // canvas height, margin included
	Boxes    []Box   `json:"boxes"`
	Links    []Link  `json:"links"`
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	selected string
	editing  string
}

// WithSelection marks a box as selected.
func WithSelection(id string) Option { return func(b *builder) { b.selected = id } }

// WithEditing marks a box as being edited. Editing implies selected.
func WithEditing(id string) Option {
	return func(b *builder) {
		b.editing = id
		if id != "" {
			b.selected = id
		}
	}
}

// Build converts a layout result into a scene. Links whose endpoints are
// missing from the result are dropped.
func Build(res layout.Result, opts ...Option) Scene {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	w, h := res.CanvasSize()
	s := Scene{
		Strategy: res.Strategy,
		Width:    w,
		Height:   h,
		Boxes:    make([]Box, 0, len(res.Nodes)),
		Links:    make([]Link, 0, len(res.Edges)),
	}
	for _, n := range res.Nodes {
		s.Boxes = append(s.Boxes, Box{
			ID:             n.ID,
			Text:           n.Text,
			X:              n.X,
			Y:              n.Y,
			Width:          n.Width,
			Height:         n.Height,
			Color:          n.Color,
			Kind:           n.Kind,
			Selected:       n.ID == b.selected,
			Editing:        n.ID == b.editing,
			Collapsed:      n.Collapsed,
			HiddenChildren: n.HiddenChildren,
		})
	}

	idx := res.Index()
	for _, e := range res.Edges {
		pi, ok := idx[e.From]
		if !ok {
			continue
		}
		ci, ok := idx[e.To]
		if !ok {
			continue
		}
		parent, child := res.Nodes[pi], res.Nodes[ci]
		s.Links = append(s.Links, Link{
			From:  e.From,
			To:    e.To,
			Color: child.Color,
			Curve: Connector(parent, child),
		})
	}
	return s
}

// HitTest returns the id of the box under the point. Later boxes are drawn
// on top, so the last match wins.
func (s Scene) HitTest(x, y float64) (string, bool) {
	for i := len(s.Boxes) - 1; i >= 0; i-- {
		if s.Boxes[i].Contains(x, y) {
			return s.Boxes[i].ID, true
		}
	}
	return "", false
}

// Box returns the box with the given id.
func (s Scene) Box(id string) (Box, bool) {
	for _, b := range s.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}
