package mindmap

import "testing"

func TestHistory(t *testing.T) {
	v0 := seqTree("R")
	h := NewHistory(v0, 2)
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history can undo/redo")
	}

	v1, _, _ := v0.AddChild(v0.RootID(), "a")
	v2, _, _ := v1.AddChild(v1.RootID(), "b")
	v3, _, _ := v2.AddChild(v2.RootID(), "c")
	h.Push(v1)
	h.Push(v1)
	h.Push(v2)
	h.Push(v3)

	if got, ok := h.Undo(); !ok || got != v2 {
		t.Errorf("Undo() = %p, %v, want v2", got, ok)
	}
	if got, ok := h.Undo(); !ok || got != v1 {
		t.Errorf("Undo() = %p, %v, want v1", got, ok)
	}
	// Limit of 2 dropped v0.
	if _, ok := h.Undo(); ok {
		t.Errorf("Undo() beyond limit succeeded")
	}
	if got, ok := h.Redo(); !ok || got != v2 {
		t.Errorf("Redo() = %p, %v, want v2", got, ok)
	}

	h.Push(v0)
	if h.CanRedo() {
		t.Errorf("Push did not clear redo stack")
	}
	if h.Present() != v0 {
		t.Errorf("Present() is not the pushed version")
	}

	h.Reset(v3)
	if h.CanUndo() || h.Present() != v3 {
		t.Errorf("Reset did not clear history")
	}
}
