// Package layout computes deterministic 2D positions for the visible nodes
// of a mind-map tree.
//
// # Overview
//
// Layout is a pure function from a [mindmap.Tree] to a [Result]: a list of
// positioned boxes, the parent→child edge list and the overall bounding
// size. Nothing is cached between passes; every call recomputes the whole
// visible tree from the root, so positions never drift.
//
// The primary strategy is the two-pass subtree-height tree layout:
//
//  1. Measurement: every visible node gets a width and height (from its
//     label length, or from fixed per-depth sizes) and a branch color.
//  2. Subtree height (post-order): a leaf needs its own height; a parent
//     needs max(own height, sum of child subtree heights + gaps).
//  3. Position (pre-order): each node is vertically centered inside its
//     allocated band, children start one horizontal gap to the right, and
//     in the centered variant the children block is centered on the
//     parent's vertical midpoint.
//
// Collapsed nodes count as leaves in every pass, so a collapse hides the
// whole branch without touching the stored children.
//
// # Strategies
//
// Alternatives implement [Strategy] and are looked up by name in a
// [Registry]:
//
//   - "tree": centered subtree-height layout (default)
//   - "classic": subtree-height layout without children-block centering
//   - "radial": nodes on concentric rings, one ring per depth
//   - "layered": rank-per-depth layered layout, left-to-right or top-to-bottom
//
// The render/dot package contributes a graphviz-backed "dot" strategy.
//
// # Usage
//
//	res := layout.Compute(tree)
//	for _, n := range res.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y, n.Width, n.Height)
//	}
//
//	// Named strategy with options
//	s, err := layout.DefaultRegistry().Lookup("radial")
//	res, err := s.Layout(tree, layout.NewOptions(layout.WithRingRadius(240)))
//
// [mindmap.Tree]: github.com/matzehuels/infinityflow/pkg/mindmap.Tree
package layout
