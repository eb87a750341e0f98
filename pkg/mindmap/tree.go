package mindmap

import (
	"maps"
	"slices"
)

// Default labels used when the editor creates nodes without user input.
const (
	DefaultRootText    = "Central Topic"
	DefaultChildText   = "Subtopic"
	DefaultSiblingText = "Branch Topic"
)

// MaxDepth caps every recursive walk over parent or child links. A valid tree
// never gets close; the cap only matters if the acyclic invariant is broken.
const MaxDepth = 4096

// Node is one mind-map element.
//
// Nodes obtained from a [Tree] are copies; modifying them has no effect on
// the tree. Use the Tree mutation methods instead.
type Node struct {
	ID          string   // Stable unique identifier
	Text        string   // User-editable label, may be empty
	ParentID    string   // Owning node id; empty only for the root
	Children    []string // Ordered child ids
	IsCollapsed bool     // Children are hidden from layout and rendering
	Color       string   // Explicit color override; empty inherits the branch color
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// HasChildren reports whether the node has at least one child, visible or not.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

func (n *Node) clone() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return &c
}

// Tree is one immutable mind-map version.
//
// The zero value is not usable; create trees with [New], [Default] or
// [FromSnapshot].
type Tree struct {
	rootID string
	nodes  map[string]*Node
	ids    IDGenerator
}

// Option configures a new Tree.
type Option func(*Tree)

// WithIDGenerator sets the generator used for new node ids.
// A nil generator is ignored.
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Tree) {
		if g != nil {
			t.ids = g
		}
	}
}

// New creates a tree holding a single root node labeled text.
func New(text string, opts ...Option) *Tree {
	t := &Tree{nodes: make(map[string]*Node), ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(t)
	}
	root := &Node{ID: t.freshID(), Text: text}
	t.rootID = root.ID
	t.nodes[root.ID] = root
	return t
}

// Default returns the starter document shown when a mind map is first added
// to a board: a central topic with two branches, the second holding one
// subtopic.
func Default(opts ...Option) *Tree {
	t := &Tree{
		rootID: "root",
		nodes: map[string]*Node{
			"root": {ID: "root", Text: DefaultRootText, Children: []string{"n1", "n2"}},
			"n1":   {ID: "n1", Text: DefaultSiblingText + " 1", ParentID: "root"},
			"n2":   {ID: "n2", Text: DefaultSiblingText + " 2", ParentID: "root", Children: []string{"n2-1"}},
			"n2-1": {ID: "n2-1", Text: DefaultChildText + " A", ParentID: "n2"},
		},
		ids: UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.observeIDs()
	return t
}

// observeIDs tells the generator about ids it did not allocate.
func (t *Tree) observeIDs() {
	o, ok := t.ids.(idObserver)
	if !ok {
		return
	}
	for id := range t.nodes {
		o.Observe(id)
	}
}

// RootID returns the id of the root node.
func (t *Tree) RootID() string { return t.rootID }

// Len returns the number of nodes, including collapsed ones.
func (t *Tree) Len() int { return len(t.nodes) }

// Has reports whether a node with the given id exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id string) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n.clone(), true
}

// Root returns a copy of the root node.
func (t *Tree) Root() Node {
	n, _ := t.Node(t.rootID)
	return n
}

// IDs returns all node ids in sorted order.
func (t *Tree) IDs() []string {
	return slices.Sorted(maps.Keys(t.nodes))
}

// Parent returns the parent id of a node, or "" for the root or an unknown id.
func (t *Tree) Parent(id string) string {
	if n, ok := t.nodes[id]; ok {
		return n.ParentID
	}
	return ""
}

// Children returns the ordered child ids of a node, including children
// hidden by a collapse. Returns nil for unknown ids.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.Children)
	}
	return nil
}

// VisibleChildren returns the children that take part in layout: none when
// the node is collapsed, otherwise every child that resolves to a node.
func (t *Tree) VisibleChildren(id string) []string {
	n, ok := t.nodes[id]
	if !ok || n.IsCollapsed {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if _, ok := t.nodes[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Siblings returns the ordered children of the node's parent (the node
// itself included) and the node's index among them. The root has no
// siblings: it returns nil, -1.
func (t *Tree) Siblings(id string) ([]string, int) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == "" {
		return nil, -1
	}
	p, ok := t.nodes[n.ParentID]
	if !ok {
		return nil, -1
	}
	return slices.Clone(p.Children), slices.Index(p.Children, id)
}

// IsVisible reports whether no ancestor of the node is collapsed.
func (t *Tree) IsVisible(id string) bool {
	if !t.Has(id) {
		return false
	}
	for _, a := range t.Ancestors(id) {
		if t.nodes[a].IsCollapsed {
			return false
		}
	}
	return true
}

// Equal reports whether two trees hold the same root and the same nodes,
// field by field. Nil and empty child lists compare equal.
func (t *Tree) Equal(other *Tree) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.rootID != other.rootID || len(t.nodes) != len(other.nodes) {
		return false
	}
	for id, a := range t.nodes {
		b, ok := other.nodes[id]
		if !ok {
			return false
		}
		if a.ID != b.ID || a.Text != b.Text || a.ParentID != b.ParentID ||
			a.IsCollapsed != b.IsCollapsed || a.Color != b.Color ||
			!slices.Equal(a.Children, b.Children) {
			return false
		}
	}
	return true
}
