// Package interact turns user gestures into tree mutations.
//
// A [Controller] owns one mind map's editing session: the current immutable
// tree version, its undo history, the latest layout, and the transient UI
// state that must never leak into the persisted snapshot (selected node,
// node being edited, node being dragged and the highlighted drop target).
//
// Every gesture runs to completion synchronously:
//
//	gesture → tree mutation → selection update → full layout pass → onChange
//
// Rejected mutations (unknown ids, root restrictions, cycles) leave the tree
// untouched and are returned as coded errors from pkg/errors so a surface
// can show a brief cue. Nothing panics.
//
// # Keyboard
//
// [Controller.HandleKey] implements the keyboard contract. Key names follow
// the terminal key strings used by bubbletea ("tab", "alt+left", "ctrl+z").
// Outside edit mode:
//
//	tab              add child, select it, start editing
//	enter            add sibling after the selection (not on the root)
//	backspace/delete delete the selected subtree, select its parent
//	left/right       parent / first visible child
//	up/down          previous / next sibling
//	f2, space        start editing the selection
//	alt+arrows       spatial jump to the nearest box on that side
//	alt+shift+up/dn  reorder the selection among its siblings
//	ctrl+z/ctrl+y    undo / redo
//
// While editing only enter (commit) and esc (leave) are handled; labels are
// live-bound through [Controller.SetEditText], so leaving never reverts.
//
// # Drag and drop
//
// [Controller.Drop] reparents a dragged node under the nearest box whose
// right edge lies within a horizontal band to the left of the drop point and
// whose middle is within a vertical tolerance. Without a match the node
// snaps back through a fresh layout pass.
//
// A Controller is not safe for concurrent use; hosts serialize events.
package interact
