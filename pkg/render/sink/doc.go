// Package sink writes a [render.Scene] to output formats.
//
// # Formats
//
//   - SVG: [RenderSVG] builds a standalone document by hand, one <path> per
//     connector and one rounded <rect> plus <text> per box
//   - PNG: [RenderPNG] rasterizes the scene with fogleman/gg using the
//     embedded Go Mono font, so no system fonts or external tools are needed
//   - JSON: [RenderJSON] exports the scene for external renderers
//
// Every sink draws connectors first and boxes on top, in scene order.
//
//	scene := render.Build(layout.Compute(tree))
//	svg := sink.RenderSVG(scene)
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// [render.Scene]: github.com/matzehuels/infinityflow/pkg/render.Scene
package sink
