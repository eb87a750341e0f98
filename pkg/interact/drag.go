package interact

import (
	"math"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Default drop band, in canvas units.
const (
	DefaultDropMinGap    = 0
	DefaultDropMaxGap    = 240
	DefaultDropTolerance = 60
)

// DropPolicy decides which box a dropped node attaches to. A candidate
// matches when the gap between its right edge and the dropped box's left
// edge lies in [MinGap, MaxGap] and the two vertical midpoints are at most
// Tolerance apart. Among matches the nearest wins, measured from the
// dropped box's left-middle to the candidate's right-middle.
type DropPolicy struct {
	MinGap    float64
	MaxGap    float64
	Tolerance float64
}

func DefaultDropPolicy() DropPolicy {
	return DropPolicy{MinGap: DefaultDropMinGap, MaxGap: DefaultDropMaxGap, Tolerance: DefaultDropTolerance}
}

// Candidate returns the drop target for dragID released with its box's
// top-left at (x, y). The dragged node and its descendants never qualify.
func (p DropPolicy) Candidate(t *mindmap.Tree, res layout.Result, dragID string, x, y float64) (string, bool) {
	drag, ok := res.Node(dragID)
	if !ok {
		return "", false
	}
	midY := y + drag.Height/2

	best, bestDist := "", math.Inf(1)
	for _, n := range res.Nodes {
		if n.ID == dragID || t.IsDescendant(dragID, n.ID) {
			continue
		}
		gap := x - n.Right()
		dy := midY - n.CenterY()
		if gap < p.MinGap || gap > p.MaxGap || math.Abs(dy) > p.Tolerance {
			continue
		}
		if d := math.Hypot(gap, dy); d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

// DropResult describes the outcome of a drop.
type DropResult struct {
	Moved     bool   // false means the node snapped back
	NewParent string // set when Moved
	OldParent string
}

// DragOver updates the highlighted drop target while dragID hovers with its
// box's top-left at (x, y). It returns the current target, if any.
func (c *Controller) DragOver(dragID string, x, y float64) (string, bool) {
	if c.readOnly || dragID == c.tree.RootID() {
		return "", false
	}
	c.dragging = dragID
	target, ok := c.drop.Candidate(c.tree, c.result, dragID, x, y)
	c.dragTarget = target
	return target, ok
}

// CancelDrag clears drag state without touching the tree.
func (c *Controller) CancelDrag() {
	c.dragging, c.dragTarget = "", ""
}

// Drop releases dragID with its box's top-left at (x, y). With a matching
// candidate the node is reparented under it and the layout is anchored at
// both the new and the old parent. Without one, the node snaps back through
// a fresh layout pass and the tree is unchanged.
func (c *Controller) Drop(dragID string, x, y float64) (DropResult, error) {
	defer c.CancelDrag()
	if c.readOnly {
		return DropResult{}, errReadOnly
	}
	if !c.tree.Has(dragID) {
		return DropResult{}, errors.New(errors.ErrCodeNotFound, "node %q not found", dragID)
	}
	if dragID == c.tree.RootID() {
		return DropResult{}, errors.New(errors.ErrCodeInvalidOperation, "the root node cannot be moved")
	}

	old := c.tree.Parent(dragID)
	target, ok := c.drop.Candidate(c.tree, c.result, dragID, x, y)
	if !ok {
		c.anchors = []string{dragID}
		c.relayout()
		c.logger.Debug("drop snapped back", "node", dragID)
		return DropResult{OldParent: old}, nil
	}
	if err := c.MoveNode(dragID, target); err != nil {
		c.relayout()
		return DropResult{OldParent: old}, err
	}
	c.selected = dragID
	return DropResult{Moved: true, NewParent: target, OldParent: old}, nil
}
