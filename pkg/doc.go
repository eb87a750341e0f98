// Package pkg provides the core libraries of InfinityFlow, a mind-map engine
// for infinite-canvas boards.
//
// # Overview
//
// A mind map is a tree of labeled nodes. The pkg directory is organized
// around the path a single edit takes:
//
//	key press / drag / injected content
//	         ↓
//	    [interact] (selection, edit mode, drag-to-reparent)
//	         ↓
//	    [mindmap] (pure mutations, snapshot codec, undo history)
//	         ↓
//	    [layout] (measurement + strategy: tree, classic, radial, layered, dot)
//	         ↓
//	    [render] (boxes and curved connectors)
//	         ↓
//	    SVG/PNG/JSON/DOT output
//
// # Quick Start
//
// Lay out the starter document and render it:
//
//	t := mindmap.Default()
//	t, id, _ := t.AddChild(t.RootID(), "Launch plan")
//	t, _ = t.SetColor(id, "#10b981")
//
//	res, _ := layout.DefaultRegistry().Run("tree", t, layout.DefaultOptions())
//	svg := sink.RenderSVG(render.Build(res, render.WithSelection(id)))
//
// Every mutation returns a new tree; a rejected one returns the receiver
// together with a coded error from [errors].
//
// # Main Packages
//
// ## Core
//
// [mindmap] - Node and Tree, the mutation algebra (add child/sibling,
// delete subtree, collapse, reparent with cycle rejection, reorder, text and
// color updates), JSON snapshots and a bounded undo/redo history.
//
// [layout] - Deterministic placement of visible nodes. The default "tree"
// strategy centers each parent on its children block; "classic", "radial"
// and "layered" are alternatives selected through a [layout.Registry].
//
// [interact] - The keyboard and drag state machine a host embeds. Owns the
// transient session state that never reaches a snapshot.
//
// ## Rendering
//
// [render] - Scene of boxes and bezier connectors built from a layout.
//
// [render/sink] - SVG, PNG (fogleman/gg) and JSON scene output.
//
// [render/dot] - Graphviz DOT export, DOT to SVG through go-graphviz, and
// the "dot" layout strategy.
//
// ## Hosting
//
// [canvas] - Boards of canvas items. A mind-map item holds its snapshot as
// content and is edited through an [interact.Controller].
//
// [store] - Document persistence (memory, file, MongoDB) and a debounced
// AutoSaver that never blocks the editor.
//
// ## Infrastructure
//
// [pipeline] - Snapshot → layout → artifacts with caching and request
// coalescing. Used by both the CLI and the HTTP API.
//
// [cache] - Layout and artifact cache backends (null, memory, file, Redis).
//
// [config] - TOML configuration with defaults.
//
// [observability] - Hooks for mutations, layouts, cache and store events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/mindmap/...     # Specific package
//	go test -run Example ./pkg/...
//
// Redis and MongoDB backends are exercised only when INFINITYFLOW_TEST_REDIS
// or INFINITYFLOW_TEST_MONGO is set.
//
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/mindmap
// [layout]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/layout
// [layout.Registry]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/layout#Registry
// [interact]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/interact
// [interact.Controller]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/interact#Controller
// [render]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/render/sink
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/render/dot
// [canvas]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/canvas
// [store]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/store
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/infinityflow/pkg/buildinfo
package pkg
