package render

import (
	"fmt"

	"github.com/matzehuels/infinityflow/pkg/layout"
)

// Curve is a cubic bezier segment.
type Curve struct {
	Start Point `json:"start"`
	C1    Point `json:"c1"`
	C2    Point `json:"c2"`
	End   Point `json:"end"`
}

// Connector returns the curve joining parent to child. The sides used
// depend on where the child sits relative to the parent.
func Connector(parent, child layout.Node) Curve {
	switch {
	case child.X >= parent.Right():
		return horizontal(
			Point{parent.Right(), parent.CenterY()},
			Point{child.X, child.CenterY()},
		)
	case child.Right() <= parent.X:
		return horizontal(
			Point{parent.X, parent.CenterY()},
			Point{child.Right(), child.CenterY()},
		)
	case child.Y >= parent.Bottom():
		return vertical(
			Point{parent.CenterX(), parent.Bottom()},
			Point{child.CenterX(), child.Y},
		)
	case child.Bottom() <= parent.Y:
		return vertical(
			Point{parent.CenterX(), parent.Y},
			Point{child.CenterX(), child.Bottom()},
		)
	default:
		return horizontal(
			Point{parent.CenterX(), parent.CenterY()},
			Point{child.CenterX(), child.CenterY()},
		)
	}
}

func horizontal(s, e Point) Curve {
	dx := (e.X - s.X) / 2
	return Curve{Start: s, C1: Point{s.X + dx, s.Y}, C2: Point{e.X - dx, e.Y}, End: e}
}

func vertical(s, e Point) Curve {
	dy := (e.Y - s.Y) / 2
	return Curve{Start: s, C1: Point{s.X, s.Y + dy}, C2: Point{e.X, e.Y - dy}, End: e}
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*c.Start.X + b*c.C1.X + cc*c.C2.X + d*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + cc*c.C2.Y + d*c.End.Y,
	}
}

// Path returns the SVG path data for the curve.
func (c Curve) Path() string {
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		c.Start.X, c.Start.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.End.X, c.End.Y)
}
