// Package mindmap provides the authoritative in-memory representation of a
// mind map: a single-rooted tree of labeled nodes, plus the pure mutation
// algebra used to edit it interactively.
//
// # Overview
//
// A [Tree] owns a map of [Node] values keyed by id. Every node except the
// root has a parent, and every parent lists its children in a meaningful
// order (the order drives vertical stacking and branch colors in the layout
// engine). No coordinates live here; see the layout package for placement.
//
// # Pure Mutations
//
// All mutations are methods that return a new *Tree and leave the receiver
// untouched:
//
//	t := mindmap.New("Launch plan")
//	t, childID, err := t.AddChild(t.RootID(), "Channels")
//	t, _, err = t.AddSibling(childID, "Budget")
//	t, err = t.ToggleCollapse(childID)
//
// Rejected requests return the receiver itself (same pointer) together with
// a coded error from the errors package:
//
//   - NOT_FOUND: an id is absent from the tree
//   - INVALID_OPERATION: deleting or moving the root, adding a sibling to the
//     root, dropping a node onto itself
//   - CYCLE_REJECTED: moving a node under one of its own descendants
//
// Callers that want "silently ignored" semantics discard the error. Because
// versions share unchanged nodes and are never modified in place, keeping
// older versions around is cheap; [History] builds undo/redo on top of that.
//
// # Invariants
//
// A valid tree has exactly one node without a parent (the root), every other
// node's parent exists and lists it exactly once among its children, and the
// parent links are acyclic and connected. Mutations preserve this; [Tree.Validate]
// checks it explicitly and is run on every snapshot rehydration.
//
// Traversals never trust the invariant blindly: every walk keeps a visited
// set and stops at [MaxDepth], so a corrupted tree degrades to a partial walk
// instead of an infinite loop.
//
// # Snapshots
//
// [Snapshot] is the persisted JSON shape
//
//	{"rootId": "...", "nodes": {"<id>": {"id", "text", "parentId", "children", "isCollapsed"}}}
//
// and round-trips exactly through [Marshal] and [Unmarshal]. The host canvas
// stores it as an opaque content string ([Content], [ParseContent]).
//
// # Concurrency
//
// A *Tree is immutable once returned, so it can be read from any goroutine.
// The [IDGenerator] shared between versions must be safe for concurrent use;
// both generators in this package are.
package mindmap
