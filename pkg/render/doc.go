// Package render maps a tree layout into drawable primitives.
//
// # Overview
//
// A [Scene] is the renderer-facing view of one layout pass: rounded boxes
// with labels and colors, and cubic bezier connectors from each parent to
// its visible children. The scene knows nothing about pixels, pan or zoom;
// surfaces scale it however they like.
//
//	res := layout.Compute(tree)
//	scene := render.Build(res, render.WithSelection(selectedID))
//
// # Connectors
//
// A connector leaves the parent's right-middle and enters the child's
// left-middle, with both control points at the horizontal midpoint:
//
//	c1 = (sx + (ex-sx)/2, sy)
//	c2 = (ex - (ex-sx)/2, ey)
//
// When a child is not to the right of its parent (radial and top-to-bottom
// layered layouts) the connector uses the facing sides instead.
//
// # Subpackages
//
//   - [sink]: SVG, PNG and JSON output for scenes
//   - [dot]: Graphviz DOT export, graphviz SVG rendering, and the "dot"
//     layout strategy
//
// [sink]: github.com/matzehuels/infinityflow/pkg/render/sink
// [dot]: github.com/matzehuels/infinityflow/pkg/render/dot
package render
