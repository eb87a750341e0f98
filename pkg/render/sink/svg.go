package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/infinityflow/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	font       string
	title      string
}

// WithBackground sets the canvas fill. An empty color leaves it transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithFont sets the CSS font-family of labels.
func WithFont(family string) SVGOption { return func(r *svgRenderer) { r.font = family } }

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: background, font: "system-ui, sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	buf.WriteString(`  <g class="links" fill="none">` + "\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, `    <path d="%s" stroke="%s" stroke-width="%d" data-from="%s" data-to="%s"/>`+"\n",
			l.Curve.Path(), l.Color, linkWidth, html.EscapeString(l.From), html.EscapeString(l.To))
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="nodes" font-family="%s">`+"\n", html.EscapeString(r.font))
	for _, b := range s.Boxes {
		renderSVGBox(&buf, b)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSVGBox(buf *bytes.Buffer, b render.Box) {
	fill, stroke, text, width := boxStyle(b)
	id := html.EscapeString(b.ID)
	fmt.Fprintf(buf, `    <g id="node-%s" class="node node-%s">`+"\n", id, b.Kind)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, cornerRadius, fill, stroke, width)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		b.X+b.Width/2, b.Y+b.Height/2, labelSize(b), text, html.EscapeString(b.Text))
	if badge := b.Badge(); badge != "" {
		cx, cy := b.X+b.Width, b.Y+b.Height/2
		fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="%d" fill="%s"/>`+"\n", cx, cy, badgeRadius, b.Color)
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="10" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			cx, cy, badge)
	}
	buf.WriteString("    </g>\n")
}
