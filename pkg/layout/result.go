package layout

import (
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Kind distinguishes root boxes from branch boxes for renderers.
type Kind string

const (
	KindRoot   Kind = "root"
	KindBranch Kind = "branch"
)

// Node is one positioned box. X and Y are the top-left corner in canvas
// coordinates. Nodes are regenerated on every pass and never mutated.
type Node struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  int     `json:"depth"`
	Color  string  `json:"color"`
	Kind   Kind    `json:"kind"`

	Collapsed      bool `json:"collapsed,omitempty"`
	HiddenChildren int  `json:"hiddenChildren,omitempty"` // stored children hidden by the collapse
}

func (n Node) Right() float64   { return n.X + n.Width }
func (n Node) Bottom() float64  { return n.Y + n.Height }
func (n Node) CenterX() float64 { return n.X + n.Width/2 }
func (n Node) CenterY() float64 { return n.Y + n.Height/2 }

// Contains reports whether the point lies inside the box.
func (n Node) Contains(x, y float64) bool {
	return x >= n.X && x <= n.Right() && y >= n.Y && y <= n.Bottom()
}

// Edge is a visible parent→child link.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Band is the vertical allocation of a subtree in the tree strategies.
// Children is the stacked block of the node's visible children, empty for
// leaves and collapsed nodes.
type Band struct {
	Top            float64 `json:"top"`
	Height         float64 `json:"height"`
	ChildrenTop    float64 `json:"childrenTop,omitempty"`
	ChildrenHeight float64 `json:"childrenHeight,omitempty"`
}

// Result is the output of one layout pass.
type Result struct {
	Strategy string          `json:"strategy"`
	Nodes    []Node          `json:"nodes"` // pre-order over visible nodes
	Edges    []Edge          `json:"edges"`
	Width    float64         `json:"width"`  // max over nodes of X+Width
	Height   float64         `json:"height"` // max over nodes of Y+Height
	Margin   float64         `json:"margin"`
	Bands    map[string]Band `json:"bands,omitempty"`
}

// Node returns the box with the given id.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Index maps node ids to their position in Nodes.
func (r Result) Index() map[string]int {
	idx := make(map[string]int, len(r.Nodes))
	for i, n := range r.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// CanvasSize returns the drawing surface size: the bounding extents plus
// the margin on the far sides.
func (r Result) CanvasSize() (width, height float64) {
	return r.Width + r.Margin, r.Height + r.Margin
}

// measured collects the visible nodes of t in pre-order with their sizes,
// colors and metadata filled in and positions left at zero.
func measured(t *mindmap.Tree, o Options) ([]Node, []Edge) {
	colors := Colors(t, o)
	var nodes []Node
	var edges []Edge
	t.Walk(t.RootID(), true, func(id string, depth int) bool {
		n, _ := t.Node(id)
		w, h := Measure(n.Text, depth, o)
		ln := Node{
			ID:     id,
			Text:   n.Text,
			Width:  w,
			Height: h,
			Depth:  depth,
			Color:  colors[id],
			Kind:   KindBranch,
		}
		if depth == 0 {
			ln.Kind = KindRoot
		}
		if n.IsCollapsed && n.HasChildren() {
			ln.Collapsed = true
			ln.HiddenChildren = len(n.Children)
		}
		nodes = append(nodes, ln)
		if depth > 0 {
			edges = append(edges, Edge{From: n.ParentID, To: id})
		}
		return true
	})
	return nodes, edges
}

// extents returns the max X+Width and Y+Height over nodes.
func extents(nodes []Node) (w, h float64) {
	for _, n := range nodes {
		w = max(w, n.Right())
		h = max(h, n.Bottom())
	}
	return w, h
}
