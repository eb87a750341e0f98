package layout

import (
	"math"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Radial places the root at the center and every other visible node on the
// ring of its depth, at radius depth×RingRadius. Each node owns an angular
// sector, split evenly among its visible children, and sits at the middle
// of its sector, so a subtree stays within its parent's wedge. The whole
// drawing is then shifted so its top-left corner sits at the anchor.
type Radial struct{}

func (Radial) Name() string { return "radial" }

func (Radial) Layout(t *mindmap.Tree, o Options) (Result, error) {
	nodes, edges := measured(t, o)

	sectors := make(map[string]sector, len(nodes))
	splitSectors(t, t.RootID(), sector{0, 2 * math.Pi}, sectors)
	for i := range nodes {
		n := &nodes[i]
		s := sectors[n.ID]
		angle := (s.from + s.to) / 2
		r := float64(n.Depth) * o.RingRadius
		cx, cy := math.Cos(angle)*r, math.Sin(angle)*r
		n.X = cx - n.Width/2
		n.Y = cy - n.Height/2
	}
	shiftTo(nodes, o.AnchorX, o.AnchorY)

	w, h := extents(nodes)
	return Result{Strategy: "radial", Nodes: nodes, Edges: edges, Width: w, Height: h, Margin: o.Margin}, nil
}

// sector is an angular range in radians, from inclusive, to exclusive.
type sector struct{ from, to float64 }

func splitSectors(t *mindmap.Tree, id string, s sector, out map[string]sector) {
	out[id] = s
	kids := t.VisibleChildren(id)
	if len(kids) == 0 {
		return
	}
	step := (s.to - s.from) / float64(len(kids))
	for i, k := range kids {
		from := s.from + float64(i)*step
		splitSectors(t, k, sector{from, from + step}, out)
	}
}

// shiftTo translates nodes so the minimum X and Y equal x and y.
func shiftTo(nodes []Node, x, y float64) {
	if len(nodes) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range nodes {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
	}
	for i := range nodes {
		nodes[i].X += x - minX
		nodes[i].Y += y - minY
	}
}
