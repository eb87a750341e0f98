package interact

import (
	"math"

	"github.com/matzehuels/infinityflow/pkg/layout"
)

// HandleKey applies one key press. It reports whether the key was consumed;
// the error is a coded rejection for keys that attempted a disallowed
// mutation (for example enter on the root).
func (c *Controller) HandleKey(k Key) (bool, error) {
	if c.readOnly || c.selected == "" {
		return false, nil
	}
	k = normalize(k)

	if c.editing != "" {
		switch k {
		case KeyEnter:
			c.CommitEdit()
			return true, nil
		case KeyEscape:
			c.CancelEdit()
			return true, nil
		}
		return false, nil
	}

	switch k {
	case KeyTab:
		_, err := c.AddChild()
		return true, err
	case KeyEnter:
		_, err := c.AddSibling()
		return true, err
	case KeyBackspace, KeyDelete:
		return true, c.DeleteSelected()
	case KeyLeft:
		if p := c.tree.Parent(c.selected); p != "" {
			c.selected = p
		}
		return true, nil
	case KeyRight:
		if kids := c.tree.VisibleChildren(c.selected); len(kids) > 0 {
			c.selected = kids[0]
		}
		return true, nil
	case KeyUp, KeyDown:
		sibs, idx := c.tree.Siblings(c.selected)
		if k == KeyUp && idx > 0 {
			c.selected = sibs[idx-1]
		}
		if k == KeyDown && idx >= 0 && idx < len(sibs)-1 {
			c.selected = sibs[idx+1]
		}
		return true, nil
	case KeyF2, KeySpace:
		return true, c.BeginEdit()
	case KeyAltLeft:
		c.Navigate(Left)
		return true, nil
	case KeyAltRight:
		c.Navigate(Right)
		return true, nil
	case KeyAltUp:
		c.Navigate(Up)
		return true, nil
	case KeyAltDown:
		c.Navigate(Down)
		return true, nil
	case KeyAltShiftUp:
		return true, c.MoveSibling(-1)
	case KeyAltShiftDown:
		return true, c.MoveSibling(1)
	case KeyUndo:
		c.Undo()
		return true, nil
	case KeyRedo:
		c.Redo()
		return true, nil
	}
	return false, nil
}

// Navigate moves the selection to the visible box strictly on side d of the
// selected box's center with the smallest center-to-center distance,
// regardless of tree structure. Ties keep layout order. It reports whether
// the selection moved.
func (c *Controller) Navigate(d Direction) bool {
	if id, ok := Nearest(c.result, c.selected, d); ok {
		c.selected = id
		return true
	}
	return false
}

// Nearest returns the box nearest to from on side d of its center.
func Nearest(res layout.Result, from string, d Direction) (string, bool) {
	src, ok := res.Node(from)
	if !ok {
		return "", false
	}
	sx, sy := src.CenterX(), src.CenterY()

	best, bestDist := "", math.Inf(1)
	for _, n := range res.Nodes {
		if n.ID == from {
			continue
		}
		x, y := n.CenterX(), n.CenterY()
		var onSide bool
		switch d {
		case Left:
			onSide = x < sx
		case Right:
			onSide = x > sx
		case Up:
			onSide = y < sy
		case Down:
			onSide = y > sy
		}
		if !onSide {
			continue
		}
		if dist := math.Hypot(x-sx, y-sy); dist < bestDist {
			best, bestDist = n.ID, dist
		}
	}
	return best, best != ""
}
