package mindmap

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/infinityflow/pkg/errors"
)

// maxIDAttempts bounds retries when a generator returns an id already in use.
const maxIDAttempts = 16

// editor is a copy-on-write view over a tree version. Nodes are cloned the
// first time they are touched; untouched nodes stay shared with the base.
type editor struct {
	base    *Tree
	nodes   map[string]*Node
	touched map[string]bool
}

func (t *Tree) edit() *editor {
	return &editor{base: t, nodes: maps.Clone(t.nodes), touched: make(map[string]bool)}
}

func (e *editor) node(id string) *Node {
	n := e.nodes[id]
	if !e.touched[id] {
		n = n.clone()
		e.nodes[id] = n
		e.touched[id] = true
	}
	return n
}

func (e *editor) insert(n *Node) {
	e.nodes[n.ID] = n
	e.touched[n.ID] = true
}

func (e *editor) commit() *Tree {
	return &Tree{rootID: e.base.rootID, nodes: e.nodes, ids: e.base.ids}
}

func (t *Tree) freshID() string {
	var id string
	for range maxIDAttempts {
		id = t.ids.NewID()
		if _, taken := t.nodes[id]; !taken && id != "" {
			return id
		}
	}
	return id
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
}

// CreateNode allocates a detached node with a fresh id: no parent, no
// children, expanded. The node is not part of the tree; AddChild and
// AddSibling use it internally.
func (t *Tree) CreateNode(text string) (Node, error) {
	id := t.freshID()
	if id == "" || t.Has(id) {
		return Node{}, errors.New(errors.ErrCodeInternal, "id generator returned a used id %q", id)
	}
	return Node{ID: id, Text: cleanText(text)}, nil
}

// cleanText replaces invalid UTF-8, which JSON encoding would otherwise
// rewrite on save.
func cleanText(s string) string { return strings.ToValidUTF8(s, "\uFFFD") }

// AddChild appends a new node labeled text to the children of parentID and
// returns the new tree and the new node's id. The parent is expanded so the
// child is visible immediately.
func (t *Tree) AddChild(parentID, text string) (*Tree, string, error) {
	if !t.Has(parentID) {
		return t, "", notFound(parentID)
	}
	n, err := t.CreateNode(text)
	if err != nil {
		return t, "", err
	}
	n.ParentID = parentID

	e := t.edit()
	e.insert(&n)
	p := e.node(parentID)
	p.Children = append(p.Children, n.ID)
	p.IsCollapsed = false
	return e.commit(), n.ID, nil
}

// AddSibling inserts a new node labeled text immediately after referenceID
// in its parent's child order. The root has no siblings; asking for one is
// an INVALID_OPERATION and returns the receiver.
func (t *Tree) AddSibling(referenceID, text string) (*Tree, string, error) {
	ref, ok := t.nodes[referenceID]
	if !ok {
		return t, "", notFound(referenceID)
	}
	if referenceID == t.rootID || ref.ParentID == "" {
		return t, "", errors.New(errors.ErrCodeInvalidOperation, "the root node has no siblings")
	}
	if !t.Has(ref.ParentID) {
		return t, "", notFound(ref.ParentID)
	}
	n, err := t.CreateNode(text)
	if err != nil {
		return t, "", err
	}
	n.ParentID = ref.ParentID

	e := t.edit()
	e.insert(&n)
	p := e.node(ref.ParentID)
	idx := slices.Index(p.Children, referenceID)
	if idx < 0 {
		p.Children = append(p.Children, n.ID)
	} else {
		p.Children = slices.Insert(p.Children, idx+1, n.ID)
	}
	return e.commit(), n.ID, nil
}

// DeleteSubtree removes id and every descendant, and drops id from its
// parent's child list. The root is never deletable.
func (t *Tree) DeleteSubtree(id string) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return t, notFound(id)
	}
	if id == t.rootID {
		return t, errors.New(errors.ErrCodeInvalidOperation, "the root node cannot be deleted")
	}

	e := t.edit()
	if t.Has(n.ParentID) {
		p := e.node(n.ParentID)
		p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == id })
	}
	for _, d := range t.Descendants(id) {
		delete(e.nodes, d)
	}
	delete(e.nodes, id)
	return e.commit(), nil
}

// ToggleCollapse flips the collapse flag of id only. Descendants keep their
// own flags, so re-expanding reveals sub-branches exactly as they were.
func (t *Tree) ToggleCollapse(id string) (*Tree, error) {
	if !t.Has(id) {
		return t, notFound(id)
	}
	e := t.edit()
	n := e.node(id)
	n.IsCollapsed = !n.IsCollapsed
	return e.commit(), nil
}

// SetCollapsed sets the collapse flag of id. Setting the current value is a
// no-op that returns the receiver.
func (t *Tree) SetCollapsed(id string, collapsed bool) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return t, notFound(id)
	}
	if n.IsCollapsed == collapsed {
		return t, nil
	}
	return t.ToggleCollapse(id)
}

// MoveNode reparents dragID under newParentID, appending it to the new
// parent's children and expanding the new parent.
//
// The move is rejected, leaving the receiver untouched, when either id is
// unknown (NOT_FOUND), when dragID is the root or equals newParentID
// (INVALID_OPERATION), or when newParentID lies inside dragID's subtree
// (CYCLE_REJECTED). The dragged node's color override is cleared so it
// takes on the branch color of its new position.
func (t *Tree) MoveNode(dragID, newParentID string) (*Tree, error) {
	drag, ok := t.nodes[dragID]
	if !ok {
		return t, notFound(dragID)
	}
	if !t.Has(newParentID) {
		return t, notFound(newParentID)
	}
	if dragID == t.rootID {
		return t, errors.New(errors.ErrCodeInvalidOperation, "the root node cannot be moved")
	}
	if dragID == newParentID {
		return t, errors.New(errors.ErrCodeInvalidOperation, "node %q cannot become its own parent", dragID)
	}
	if t.wouldCycle(dragID, newParentID) {
		return t, errors.New(errors.ErrCodeCycleRejected, "node %q is inside the subtree of %q", newParentID, dragID)
	}

	e := t.edit()
	if t.Has(drag.ParentID) {
		old := e.node(drag.ParentID)
		old.Children = slices.DeleteFunc(old.Children, func(c string) bool { return c == dragID })
	}
	np := e.node(newParentID)
	np.Children = append(np.Children, dragID)
	np.IsCollapsed = false
	d := e.node(dragID)
	d.ParentID = newParentID
	d.Color = ""
	return e.commit(), nil
}

// wouldCycle walks up from newParentID through parent links looking for
// dragID. A broken chain (repeat or excessive depth) counts as a cycle.
func (t *Tree) wouldCycle(dragID, newParentID string) bool {
	seen := make(map[string]bool)
	for cur := newParentID; cur != ""; {
		if cur == dragID || seen[cur] || len(seen) > MaxDepth {
			return true
		}
		seen[cur] = true
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		cur = n.ParentID
	}
	return false
}

// MoveSibling shifts id by delta positions within its parent's child order,
// clamped to the ends. A zero effective shift returns the receiver.
func (t *Tree) MoveSibling(id string, delta int) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return t, notFound(id)
	}
	if n.ParentID == "" {
		return t, errors.New(errors.ErrCodeInvalidOperation, "the root node has no siblings")
	}
	p, ok := t.nodes[n.ParentID]
	if !ok {
		return t, notFound(n.ParentID)
	}
	from := slices.Index(p.Children, id)
	to := min(max(from+delta, 0), len(p.Children)-1)
	if from < 0 || from == to {
		return t, nil
	}

	e := t.edit()
	np := e.node(n.ParentID)
	np.Children = slices.Delete(np.Children, from, from+1)
	np.Children = slices.Insert(np.Children, to, id)
	return e.commit(), nil
}

// SetText replaces the label of id. The value is opaque: it is stored as
// given, empty strings included, except that invalid UTF-8 sequences become
// U+FFFD so the label survives a snapshot round trip. The last write wins.
func (t *Tree) SetText(id, text string) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return t, notFound(id)
	}
	text = cleanText(text)
	if n.Text == text {
		return t, nil
	}
	e := t.edit()
	e.node(id).Text = text
	return e.commit(), nil
}

// SetColor sets an explicit color override on id ("#rgb" or "#rrggbb").
// An empty color clears the override.
func (t *Tree) SetColor(id, color string) (*Tree, error) {
	n, ok := t.nodes[id]
	if !ok {
		return t, notFound(id)
	}
	if err := errors.ValidateColor(color); err != nil {
		return t, err
	}
	if n.Color == color {
		return t, nil
	}
	e := t.edit()
	e.node(id).Color = color
	return e.commit(), nil
}
