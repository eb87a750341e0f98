package layout

import "github.com/matzehuels/infinityflow/pkg/mindmap"

// Tree is the subtree-height tree layout. Options.Centered, on by default,
// centers every children block on its parent's vertical midpoint.
type Tree struct{}

func (Tree) Name() string { return "tree" }

func (Tree) Layout(t *mindmap.Tree, o Options) (Result, error) {
	return treeLayout(t, o, "tree"), nil
}

// Classic is the subtree-height layout with children stacked from the top
// of the parent's band regardless of Options.Centered.
type Classic struct{}

func (Classic) Name() string { return "classic" }

func (Classic) Layout(t *mindmap.Tree, o Options) (Result, error) {
	o.Centered = false
	return treeLayout(t, o, "classic"), nil
}

// Compute runs the default centered tree layout.
func Compute(t *mindmap.Tree, opts ...Option) Result {
	return treeLayout(t, NewOptions(opts...), "tree")
}

type treePass struct {
	t      *mindmap.Tree
	o      Options
	nodes  []Node
	index  map[string]int
	height map[string]float64
	bands  map[string]Band
}

func treeLayout(t *mindmap.Tree, o Options, name string) Result {
	nodes, edges := measured(t, o)
	p := &treePass{
		t:      t,
		o:      o,
		nodes:  nodes,
		index:  make(map[string]int, len(nodes)),
		height: make(map[string]float64, len(nodes)),
		bands:  make(map[string]Band, len(nodes)),
	}
	for i, n := range nodes {
		p.index[n.ID] = i
	}

	// Post-order heights, computed bottom-up over the reversed pre-order.
	for i := len(nodes) - 1; i >= 0; i-- {
		p.height[nodes[i].ID] = p.subtreeHeight(nodes[i])
	}
	if len(nodes) > 0 {
		p.place(nodes[0].ID, o.AnchorX, o.AnchorY)
	}

	w, h := extents(p.nodes)
	return Result{
		Strategy: name,
		Nodes:    p.nodes,
		Edges:    edges,
		Width:    w,
		Height:   h,
		Margin:   o.Margin,
		Bands:    p.bands,
	}
}

// children returns the visible children that were measured in this pass.
func (p *treePass) children(id string) []string {
	var out []string
	for _, c := range p.t.VisibleChildren(id) {
		if _, ok := p.index[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *treePass) block(id string) float64 {
	kids := p.children(id)
	if len(kids) == 0 {
		return 0
	}
	var sum float64
	for _, c := range kids {
		sum += p.height[c]
	}
	return sum + float64(len(kids)-1)*p.o.VerticalGap
}

func (p *treePass) subtreeHeight(n Node) float64 {
	return max(n.Height, p.block(n.ID))
}

// place positions id inside the band starting at top and recurses into its
// children. Recursion depth is bounded by the measured pre-order, which is
// itself walk-guarded.
func (p *treePass) place(id string, x, top float64) {
	i := p.index[id]
	n := &p.nodes[i]
	sh := p.height[id]
	n.X = x
	n.Y = top + (sh-n.Height)/2

	band := Band{Top: top, Height: sh}
	kids := p.children(id)
	if len(kids) > 0 {
		bh := p.block(id)
		y := top
		if p.o.Centered {
			y = n.CenterY() - bh/2
		}
		band.ChildrenTop, band.ChildrenHeight = y, bh
		cx := n.Right() + p.o.HorizontalGap
		for _, c := range kids {
			p.place(c, cx, y)
			y += p.height[c] + p.o.VerticalGap
		}
	}
	p.bands[id] = band
}
