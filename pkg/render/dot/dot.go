package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// pointsPerInch converts canvas units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Layout supplies sizes, colors and the rank direction. The zero value
	// means layout.DefaultOptions().
	Layout *layout.Options

	// Detailed appends the node id to every label.
	Detailed bool
}

func (o Options) layoutOptions() layout.Options {
	if o.Layout != nil {
		return *o.Layout
	}
	return layout.DefaultOptions()
}

// ToDOT converts the visible nodes of t to Graphviz DOT source. Boxes are
// fixed to their measured size so Graphviz positions match the other
// strategies' geometry.
func ToDOT(t *mindmap.Tree, opts Options) string {
	lo := opts.layoutOptions()
	colors := layout.Colors(t, lo)
	rankdir := string(lo.Direction)
	if rankdir == "" {
		rankdir = string(layout.LeftToRight)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	fmt.Fprintf(&buf, "  ranksep=%.3f;\n", lo.HorizontalGap/pointsPerInch)
	fmt.Fprintf(&buf, "  nodesep=%.3f;\n", lo.VerticalGap/pointsPerInch)
	buf.WriteString("\n")

	var edges [][2]string
	t.Walk(t.RootID(), true, func(id string, depth int) bool {
		n, _ := t.Node(id)
		w, h := layout.Measure(n.Text, depth, lo)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("width=%.3f", w/pointsPerInch),
			fmt.Sprintf("height=%.3f", h/pointsPerInch),
			fmt.Sprintf("color=%q", colors[id]),
		}
		if depth == 0 {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors[id]), `fontcolor="white"`)
		}
		if n.IsCollapsed && n.HasChildren() {
			attrs = append(attrs, `peripheries=2`)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		if depth > 0 {
			edges = append(edges, [2]string{n.ParentID, id})
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e[0], e[1], colors[e[1]])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n mindmap.Node, detailed bool) string {
	if !detailed {
		return n.Text
	}
	return n.Text + "\n" + n.ID
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
