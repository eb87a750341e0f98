// Package dot connects mind maps to Graphviz.
//
// # Overview
//
// [ToDOT] converts the visible part of a tree into Graphviz DOT source,
// carrying labels, branch colors and measured box sizes. [RenderSVG] turns
// DOT into SVG with the embedded (WebAssembly) Graphviz from
// goccy/go-graphviz, so no system installation is required.
//
//	src := dot.ToDOT(tree, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Layout Strategy
//
// [Strategy] is a [layout.Strategy] named "dot". It asks Graphviz to place
// the nodes (rank-based, left-to-right by default) and reads the positions
// back from the "plain" output format. Register it next to the built-in
// strategies:
//
//	reg := layout.DefaultRegistry()
//	reg.Register(dot.Strategy{})
//
// [layout.Strategy]: github.com/matzehuels/infinityflow/pkg/layout.Strategy
package dot
