package layout

import (
	"unicode/utf8"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Measure returns the box size of a node labeled text at the given depth.
// Width grows with the rune count of the label and never drops below the
// per-depth minimum; height is fixed per depth.
func Measure(text string, depth int, o Options) (width, height float64) {
	minW, h := o.MinWidth, o.NodeHeight
	if depth == 0 {
		minW, h = o.RootMinWidth, o.RootHeight
	}
	if o.FixedSize {
		return minW, h
	}
	w := float64(utf8.RuneCountInString(text))*o.CharWidth + o.Padding
	return max(minW, w), h
}

// Colors assigns a color to every visible node. The root gets RootColor;
// each child of the root takes the next palette entry by sibling index;
// deeper nodes inherit from their parent. An explicit node color overrides
// the computed one and is inherited the same way.
func Colors(t *mindmap.Tree, o Options) map[string]string {
	out := make(map[string]string, t.Len())
	root := t.RootID()
	t.Walk(root, true, func(id string, depth int) bool {
		n, _ := t.Node(id)
		switch {
		case n.Color != "":
			out[id] = n.Color
		case depth == 0:
			out[id] = o.RootColor
		case depth == 1:
			_, idx := t.Siblings(id)
			out[id] = paletteColor(o, idx)
		default:
			out[id] = out[n.ParentID]
		}
		return true
	})
	return out
}

func paletteColor(o Options, i int) string {
	if len(o.Palette) == 0 {
		return o.RootColor
	}
	if i < 0 {
		i = 0
	}
	return o.Palette[i%len(o.Palette)]
}
