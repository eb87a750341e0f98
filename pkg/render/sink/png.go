package sink

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/infinityflow/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func loadFont() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// RenderPNG rasterizes the scene.
func RenderPNG(s render.Scene, opts ...PNGOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, s, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG rasterizes the scene to w.
func WritePNG(w io.Writer, s render.Scene, opts ...PNGOption) error {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("nothing to export")
	}

	f, err := loadFont()
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	dc := gg.NewContext(int(s.Width*r.scale+0.5), int(s.Height*r.scale+0.5))
	dc.Scale(r.scale, r.scale)
	dc.SetHexColor(background)
	dc.Clear()

	for _, l := range s.Links {
		drawLinkPNG(dc, l)
	}
	for _, b := range s.Boxes {
		drawBoxPNG(dc, f, b)
	}
	return dc.EncodePNG(w)
}

func drawLinkPNG(dc *gg.Context, l render.Link) {
	c := l.Curve
	dc.SetHexColor(l.Color)
	dc.SetLineWidth(linkWidth)
	dc.MoveTo(c.Start.X, c.Start.Y)
	dc.CubicTo(c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.End.X, c.End.Y)
	dc.Stroke()
}

func drawBoxPNG(dc *gg.Context, f *truetype.Font, b render.Box) {
	fill, stroke, text, width := boxStyle(b)

	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, cornerRadius)
	dc.SetHexColor(fill)
	dc.FillPreserve()
	dc.SetHexColor(stroke)
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.SetFontFace(face(f, labelSize(b)))
	dc.SetHexColor(text)
	dc.DrawStringAnchored(b.Text, b.X+b.Width/2, b.Y+b.Height/2, 0.5, 0.35)

	if badge := b.Badge(); badge != "" {
		cx, cy := b.X+b.Width, b.Y+b.Height/2
		dc.DrawCircle(cx, cy, badgeRadius)
		dc.SetHexColor(b.Color)
		dc.Fill()
		dc.SetFontFace(face(f, 10))
		dc.SetHexColor(rootTextColor)
		dc.DrawStringAnchored(badge, cx, cy, 0.5, 0.35)
	}
}
