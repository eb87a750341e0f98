package mindmap

// DefaultHistoryLimit is the number of undo steps kept by NewHistory when
// no limit is given.
const DefaultHistoryLimit = 100

// History is a linear undo/redo stack of tree versions. Because trees are
// immutable, each entry is just a pointer to an earlier version.
//
// History is not safe for concurrent use.
type History struct {
	past    []*Tree
	present *Tree
	future  []*Tree
	limit   int
}

// NewHistory starts a history at t. A limit <= 0 uses DefaultHistoryLimit.
func NewHistory(t *Tree, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{present: t, limit: limit}
}

// Present returns the current version.
func (h *History) Present() *Tree { return h.present }

// Push records next as the current version and clears the redo stack.
// Pushing the current version again (a no-op mutation) is ignored.
func (h *History) Push(next *Tree) {
	if next == nil || next == h.present {
		return
	}
	h.past = append(h.past, h.present)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.present = next
	h.future = nil
}

// Undo steps back one version. It reports false when there is nothing to undo.
func (h *History) Undo() (*Tree, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return h.present, true
}

// Redo re-applies the most recently undone version. It reports false when
// there is nothing to redo.
func (h *History) Redo() (*Tree, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return h.present, true
}

// CanUndo reports whether Undo would change the present version.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the present version.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Reset drops all undo and redo steps and makes t the present version.
func (h *History) Reset(t *Tree) {
	h.past, h.future = nil, nil
	h.present = t
}
