package dot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// plainFormat is Graphviz's line-oriented text output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// Coordinates are node centers in inches with the origin bottom-left.
const plainFormat graphviz.Format = "plain"

// Strategy places nodes with Graphviz's dot engine.
type Strategy struct{}

func (Strategy) Name() string { return "dot" }

// Layout lays t out with Graphviz. Sizes, colors and metadata come from the
// layered strategy; only positions are taken from Graphviz.
func (Strategy) Layout(t *mindmap.Tree, o layout.Options) (layout.Result, error) {
	base, err := layout.Layered{}.Layout(t, o)
	if err != nil {
		return layout.Result{}, err
	}

	out, err := render(context.Background(), ToDOT(t, Options{Layout: &o}), plainFormat)
	if err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "graphviz layout")
	}
	centers, height, err := parsePlain(out)
	if err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "graphviz layout")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for i := range base.Nodes {
		n := &base.Nodes[i]
		c, ok := centers[n.ID]
		if !ok {
			return layout.Result{}, errors.New(errors.ErrCodeInternal, "graphviz dropped node %q", n.ID)
		}
		n.X = c[0]*pointsPerInch - n.Width/2
		n.Y = (height-c[1])*pointsPerInch - n.Height/2
		minX, minY = min(minX, n.X), min(minY, n.Y)
	}

	var w, h float64
	for i := range base.Nodes {
		n := &base.Nodes[i]
		n.X += o.AnchorX - minX
		n.Y += o.AnchorY - minY
		w, h = max(w, n.Right()), max(h, n.Bottom())
	}
	base.Strategy = "dot"
	base.Width, base.Height = w, h
	return base, nil
}

// parsePlain extracts node centers (inches) and the graph height.
func parsePlain(data []byte) (map[string][2]float64, float64, error) {
	centers := make(map[string][2]float64)
	var height float64
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := splitPlain(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, 0, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, 0, fmt.Errorf("graph height: %w", err)
			}
			height = h
		case "node":
			if len(fields) < 4 {
				return nil, 0, fmt.Errorf("malformed node line %q", sc.Text())
			}
			x, err1 := strconv.ParseFloat(fields[2], 64)
			y, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				return nil, 0, fmt.Errorf("node position in %q", sc.Text())
			}
			centers[fields[1]] = [2]float64{x, y}
		case "stop":
			return centers, height, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	if len(centers) == 0 {
		return nil, 0, fmt.Errorf("no nodes in plain output")
	}
	return centers, height, nil
}

// splitPlain splits a plain-format line on spaces, keeping double-quoted
// fields (which may contain spaces and \" escapes) together and unquoted.
func splitPlain(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote, escaped, started := false, false, false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}

// Registry returns layout.DefaultRegistry with the dot strategy added.
func Registry() *layout.Registry {
	r := layout.DefaultRegistry()
	r.Register(Strategy{})
	return r
}

var _ layout.Strategy = Strategy{}
