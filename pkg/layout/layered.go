package layout

import "github.com/matzehuels/infinityflow/pkg/mindmap"

// Layered ranks nodes by depth. With LeftToRight each rank is a column as
// wide as its widest node and nodes stack downward in pre-order; with
// TopToBottom each rank is a row and nodes line up left to right. Ranks are
// HorizontalGap apart, nodes within a rank VerticalGap apart, and every
// rank is centered on the longest one.
type Layered struct{}

func (Layered) Name() string { return "layered" }

func (Layered) Layout(t *mindmap.Tree, o Options) (Result, error) {
	nodes, edges := measured(t, o)
	tb := o.Direction == TopToBottom

	var ranks [][]int
	for i, n := range nodes {
		for len(ranks) <= n.Depth {
			ranks = append(ranks, nil)
		}
		ranks[n.Depth] = append(ranks[n.Depth], i)
	}

	// Cross size of each rank (column width or row height) and the length
	// of each rank along the stacking axis.
	cross := make([]float64, len(ranks))
	length := make([]float64, len(ranks))
	var longest float64
	for r, members := range ranks {
		for j, i := range members {
			n := nodes[i]
			along, across := n.Height, n.Width
			if tb {
				along, across = n.Width, n.Height
			}
			cross[r] = max(cross[r], across)
			length[r] += along
			if j > 0 {
				length[r] += o.VerticalGap
			}
		}
		longest = max(longest, length[r])
	}

	offset := 0.0
	for r, members := range ranks {
		pos := (longest - length[r]) / 2
		for _, i := range members {
			n := &nodes[i]
			if tb {
				n.X = o.AnchorX + pos
				n.Y = o.AnchorY + offset + (cross[r]-n.Height)/2
				pos += n.Width + o.VerticalGap
			} else {
				n.X = o.AnchorX + offset
				n.Y = o.AnchorY + pos
				pos += n.Height + o.VerticalGap
			}
		}
		offset += cross[r] + o.HorizontalGap
	}

	w, h := extents(nodes)
	return Result{Strategy: "layered", Nodes: nodes, Edges: edges, Width: w, Height: h, Margin: o.Margin}, nil
}
