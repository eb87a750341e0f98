package mindmap

import (
	"slices"
	"testing"

	"github.com/matzehuels/infinityflow/pkg/errors"
)

func seqTree(text string) *Tree {
	return New(text, WithIDGenerator(NewSequenceGenerator("n")))
}

func mustChild(t *testing.T, tr *Tree, parent, text string) (*Tree, string) {
	t.Helper()
	next, id, err := tr.AddChild(parent, text)
	if err != nil {
		t.Fatalf("AddChild(%q) error: %v", parent, err)
	}
	return next, id
}

func assertValid(t *testing.T, tr *Tree) {
	t.Helper()
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	roots := 0
	for _, id := range tr.IDs() {
		n, _ := tr.Node(id)
		if n.IsRoot() {
			roots++
		}
	}
	if roots != 1 {
		t.Fatalf("tree has %d roots, want 1", roots)
	}
}

func TestAddAndDelete(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()

	tr2, child := mustChild(t, tr, root, "a")
	if tr2.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr2.Len())
	}
	if got := tr2.Children(root); !slices.Equal(got, []string{child}) {
		t.Errorf("Children(root) = %v, want [%s]", got, child)
	}
	if tr.Len() != 1 {
		t.Errorf("original tree mutated: Len() = %d, want 1", tr.Len())
	}

	tr3, err := tr2.DeleteSubtree(child)
	if err != nil {
		t.Fatalf("DeleteSubtree: %v", err)
	}
	if tr3.Len() != 1 {
		t.Errorf("Len() after delete = %d, want 1", tr3.Len())
	}
	if got := tr3.Children(root); len(got) != 0 {
		t.Errorf("Children(root) after delete = %v, want []", got)
	}
	assertValid(t, tr3)
}

func TestAddSiblingOrder(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()
	tr, a := mustChild(t, tr, root, "A")
	tr, b := mustChild(t, tr, root, "B")

	tr, x, err := tr.AddSibling(a, "x")
	if err != nil {
		t.Fatalf("AddSibling: %v", err)
	}
	if got, want := tr.Children(root), []string{a, x, b}; !slices.Equal(got, want) {
		t.Errorf("Children(root) = %v, want %v", got, want)
	}
	if n, _ := tr.Node(x); n.ParentID != root || n.Text != "x" {
		t.Errorf("sibling = %+v, want parent %q text %q", n, root, "x")
	}
	assertValid(t, tr)
}

func TestAutoExpandOnAdd(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()
	tr, a := mustChild(t, tr, root, "A")
	tr, _ = mustChild(t, tr, a, "A1")
	tr, err := tr.ToggleCollapse(a)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := tr.Node(a); !n.IsCollapsed {
		t.Fatalf("node not collapsed after toggle")
	}

	tr, _ = mustChild(t, tr, a, "A2")
	if n, _ := tr.Node(a); n.IsCollapsed {
		t.Errorf("IsCollapsed = true after AddChild, want false")
	}
}

func TestToggleCollapseKeepsDescendantFlags(t *testing.T) {
	tr := seqTree("R")
	tr, a := mustChild(t, tr, tr.RootID(), "A")
	tr, b := mustChild(t, tr, a, "B")
	tr, _ = mustChild(t, tr, b, "C")

	tr, _ = tr.ToggleCollapse(b)
	tr, _ = tr.ToggleCollapse(a)
	tr, _ = tr.ToggleCollapse(a)

	if n, _ := tr.Node(a); n.IsCollapsed {
		t.Errorf("A collapsed after double toggle")
	}
	if n, _ := tr.Node(b); !n.IsCollapsed {
		t.Errorf("B lost its own collapse flag")
	}
}

func TestRejections(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()
	tr, a := mustChild(t, tr, root, "A")
	tr, a1 := mustChild(t, tr, a, "A1")
	tr, a11 := mustChild(t, tr, a1, "A11")

	tests := []struct {
		name string
		op   func(*Tree) (*Tree, error)
		code errors.Code
	}{
		{"delete root", func(t *Tree) (*Tree, error) { return t.DeleteSubtree(root) }, errors.ErrCodeInvalidOperation},
		{"delete missing", func(t *Tree) (*Tree, error) { return t.DeleteSubtree("ghost") }, errors.ErrCodeNotFound},
		{"sibling of root", func(t *Tree) (*Tree, error) { n, _, err := t.AddSibling(root, "x"); return n, err }, errors.ErrCodeInvalidOperation},
		{"child of missing", func(t *Tree) (*Tree, error) { n, _, err := t.AddChild("ghost", "x"); return n, err }, errors.ErrCodeNotFound},
		{"move root", func(t *Tree) (*Tree, error) { return t.MoveNode(root, a) }, errors.ErrCodeInvalidOperation},
		{"move onto self", func(t *Tree) (*Tree, error) { return t.MoveNode(a, a) }, errors.ErrCodeInvalidOperation},
		{"move under child", func(t *Tree) (*Tree, error) { return t.MoveNode(a, a1) }, errors.ErrCodeCycleRejected},
		{"move under grandchild", func(t *Tree) (*Tree, error) { return t.MoveNode(a, a11) }, errors.ErrCodeCycleRejected},
		{"move missing", func(t *Tree) (*Tree, error) { return t.MoveNode("ghost", a) }, errors.ErrCodeNotFound},
		{"move to missing", func(t *Tree) (*Tree, error) { return t.MoveNode(a1, "ghost") }, errors.ErrCodeNotFound},
		{"toggle missing", func(t *Tree) (*Tree, error) { return t.ToggleCollapse("ghost") }, errors.ErrCodeNotFound},
		{"text missing", func(t *Tree) (*Tree, error) { return t.SetText("ghost", "x") }, errors.ErrCodeNotFound},
		{"bad color", func(t *Tree) (*Tree, error) { return t.SetColor(a, "red") }, errors.ErrCodeInvalidInput},
		{"reorder root", func(t *Tree) (*Tree, error) { return t.MoveSibling(root, 1) }, errors.ErrCodeInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tr)
			if err == nil {
				t.Fatalf("expected error %s", tt.code)
			}
			if code := errors.GetCode(err); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
			if got != tr {
				t.Errorf("rejected operation returned a new tree")
			}
		})
	}
	assertValid(t, tr)
}

func TestMoveNode(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()
	tr, a := mustChild(t, tr, root, "A")
	tr, b := mustChild(t, tr, root, "B")
	tr, b1 := mustChild(t, tr, b, "B1")
	tr, _ = tr.SetColor(b, "#123456")
	tr, _ = tr.ToggleCollapse(a)

	moved, err := tr.MoveNode(b, a)
	if err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	assertValid(t, moved)

	if got := moved.Children(root); !slices.Equal(got, []string{a}) {
		t.Errorf("Children(root) = %v, want [%s]", got, a)
	}
	if got := moved.Children(a); !slices.Equal(got, []string{b}) {
		t.Errorf("Children(A) = %v, want [%s]", got, b)
	}
	nb, _ := moved.Node(b)
	if nb.ParentID != a {
		t.Errorf("B.ParentID = %q, want %q", nb.ParentID, a)
	}
	if nb.Color != "" {
		t.Errorf("B.Color = %q, want cleared", nb.Color)
	}
	if na, _ := moved.Node(a); na.IsCollapsed {
		t.Errorf("new parent still collapsed")
	}
	if d, _ := moved.Depth(b1); d != 3 {
		t.Errorf("Depth(B1) = %d, want 3", d)
	}
	// Original version is untouched.
	if got := tr.Children(root); !slices.Equal(got, []string{a, b}) {
		t.Errorf("original Children(root) = %v, want [%s %s]", got, a, b)
	}
}

func TestMoveSibling(t *testing.T) {
	tr := seqTree("R")
	root := tr.RootID()
	tr, a := mustChild(t, tr, root, "A")
	tr, b := mustChild(t, tr, root, "B")
	tr, c := mustChild(t, tr, root, "C")

	tests := []struct {
		id    string
		delta int
		want  []string
	}{
		{a, 1, []string{b, a, c}},
		{c, -1, []string{a, c, b}},
		{a, 10, []string{b, c, a}},
		{c, -10, []string{c, a, b}},
		{b, 0, []string{a, b, c}},
	}
	for _, tt := range tests {
		got, err := tr.MoveSibling(tt.id, tt.delta)
		if err != nil {
			t.Fatalf("MoveSibling(%s, %d): %v", tt.id, tt.delta, err)
		}
		if c := got.Children(root); !slices.Equal(c, tt.want) {
			t.Errorf("MoveSibling(%s, %d) = %v, want %v", tt.id, tt.delta, c, tt.want)
		}
	}
	if got, _ := tr.MoveSibling(a, -1); got != tr {
		t.Errorf("clamped no-op returned a new tree")
	}
}

func TestSetTextAndColor(t *testing.T) {
	tr := seqTree("R")
	tr, a := mustChild(t, tr, tr.RootID(), "A")

	next, err := tr.SetText(a, "")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := next.Node(a); n.Text != "" {
		t.Errorf("Text = %q, want empty", n.Text)
	}
	if same, _ := tr.SetText(a, "A"); same != tr {
		t.Errorf("unchanged text returned a new tree")
	}

	next, err = tr.SetColor(a, "#abc")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := next.Node(a); n.Color != "#abc" {
		t.Errorf("Color = %q, want #abc", n.Color)
	}
	cleared, _ := next.SetColor(a, "")
	if n, _ := cleared.Node(a); n.Color != "" {
		t.Errorf("Color = %q, want cleared", n.Color)
	}
}

func TestDeleteSubtreeRemovesDescendants(t *testing.T) {
	tr := Default()
	next, err := tr.DeleteSubtree("n2")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"n2", "n2-1"} {
		if next.Has(id) {
			t.Errorf("node %q still present", id)
		}
	}
	if got := next.Children("root"); !slices.Equal(got, []string{"n1"}) {
		t.Errorf("Children(root) = %v, want [n1]", got)
	}
	assertValid(t, next)
}

// TestRandomSequenceKeepsInvariants drives a deterministic pseudo-random
// sequence of mutations and validates the tree after each step.
func TestRandomSequenceKeepsInvariants(t *testing.T) {
	tr := seqTree("R")
	state := uint32(7)
	rnd := func(n int) int {
		state = state*1664525 + 1013904223
		return int(state>>8) % n
	}

	for step := 0; step < 500; step++ {
		ids := tr.IDs()
		pick := ids[rnd(len(ids))]
		other := ids[rnd(len(ids))]
		switch rnd(7) {
		case 0, 1:
			tr, _, _ = tr.AddChild(pick, "c")
		case 2:
			tr, _, _ = tr.AddSibling(pick, "s")
		case 3:
			if tr.Len() > 8 {
				tr, _ = tr.DeleteSubtree(pick)
			}
		case 4:
			tr, _ = tr.ToggleCollapse(pick)
		case 5:
			before := tr
			next, err := tr.MoveNode(pick, other)
			if err != nil && next != before {
				t.Fatalf("step %d: rejected move returned a new tree", step)
			}
			tr = next
		case 6:
			tr, _ = tr.MoveSibling(pick, rnd(3)-1)
		}
		if err := tr.Validate(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}
