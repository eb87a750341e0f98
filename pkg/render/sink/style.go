package sink

import (
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/render"
)

// Shared drawing constants for the vector and raster sinks.
const (
	cornerRadius   = 8
	fontSize       = 14
	rootFontSize   = 16
	strokeWidth    = 2
	selectedStroke = 4
	linkWidth      = 2
	textColor      = "#1f2937"
	rootTextColor  = "#ffffff"
	background     = "#ffffff"
	editingFill    = "#fef9c3"
	badgeRadius    = 9
)

// boxStyle returns fill, stroke, text color and stroke width for a box.
// The root is filled with its color; branches are outlined with it.
func boxStyle(b render.Box) (fill, stroke, text string, width float64) {
	fill, stroke, text, width = background, b.Color, textColor, strokeWidth
	if b.Kind == layout.KindRoot {
		fill, text = b.Color, rootTextColor
	}
	if b.Editing {
		fill, text = editingFill, textColor
	}
	if b.Selected {
		width = selectedStroke
	}
	return fill, stroke, text, width
}

func labelSize(b render.Box) float64 {
	if b.Kind == layout.KindRoot {
		return rootFontSize
	}
	return fontSize
}
