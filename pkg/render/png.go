package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

const (
	gridStep  = 20
	arrowSize = 8.0
	lineSpace = 1.3
)

var monoFont *truetype.Font

func init() {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	monoFont = f
}

// RenderPNG draws every visible element at its diagram coordinates.
func RenderPNG(g *diagram.Graph, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	bounds := g.Bounds()
	if bounds.IsEmpty() {
		bounds = diagram.R(0, 0, 1, 1)
	}
	bounds = bounds.Grow(opts.Margin)

	w := int(math.Ceil(float64(bounds.Width) * opts.Scale))
	h := int(math.Ceil(float64(bounds.Height) * opts.Scale))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(float64(-bounds.X), float64(-bounds.Y))

	if opts.Grid {
		drawGrid(dc, bounds)
	}

	els := g.Elements()
	for _, e := range els {
		if e.Visible && e.IsContainer() {
			drawShape(dc, g, e)
		}
	}
	for _, e := range els {
		if !e.Visible || e.IsContainer() {
			continue
		}
		if e.IsConnector() {
			drawConnector(dc, e)
		} else {
			drawShape(dc, g, e)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawGrid(dc *gg.Context, r diagram.Rect) {
	dc.SetRGBA255(0, 0, 0, 20)
	dc.SetLineWidth(0.5)
	x0 := r.X - mod(r.X, gridStep)
	for x := x0; x < r.Right(); x += gridStep {
		dc.DrawLine(float64(x), float64(r.Y), float64(x), float64(r.Bottom()))
	}
	y0 := r.Y - mod(r.Y, gridStep)
	for y := y0; y < r.Bottom(); y += gridStep {
		dc.DrawLine(float64(r.X), float64(y), float64(r.Right()), float64(y))
	}
	dc.Stroke()
}

func setColor(dc *gg.Context, c diagram.Color) bool {
	a, r, g, b := c.Channels()
	if a == 0 {
		return false
	}
	dc.SetRGBA255(int(r), int(g), int(b), int(a))
	return true
}

func drawShape(dc *gg.Context, g *diagram.Graph, e *diagram.Element) {
	x, y := float64(e.Rect.X), float64(e.Rect.Y)
	w, h := float64(e.Rect.Width), float64(e.Rect.Height)

	outline := func() bool {
		switch e.Kind {
		case diagram.KindText:
			return false
		case diagram.KindEllipse:
			dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
		case diagram.KindDiamond:
			dc.MoveTo(x+w/2, y)
			dc.LineTo(x+w, y+h/2)
			dc.LineTo(x+w/2, y+h)
			dc.LineTo(x, y+h/2)
			dc.ClosePath()
		case diagram.KindCallout:
			dc.DrawRoundedRectangle(x, y, w, h, 6)
		default:
			dc.DrawRectangle(x, y, w, h)
		}
		return true
	}

	if e.Kind == diagram.KindCallout && e.Ref != diagram.NilID {
		if ref := g.Element(e.Ref); ref != nil && ref.Visible {
			c, rc := e.Rect.Center(), ref.Rect.Center()
			dc.SetDash(3, 3)
			dc.SetRGBA255(0, 0, 0, 120)
			dc.SetLineWidth(1)
			dc.DrawLine(float64(c.X), float64(c.Y), float64(rc.X), float64(rc.Y))
			dc.Stroke()
			dc.SetDash()
		}
	}

	if outline() && setColor(dc, fill(e)) {
		dc.Fill()
	}
	if outline() && e.Style.BorderWidth > 0 && setColor(dc, e.Style.BorderColor) {
		if e.IsContainer() {
			dc.SetDash(6, 4)
		}
		width := float64(e.Style.BorderWidth)
		if e.Bookmarked {
			width *= 2
		}
		dc.SetLineWidth(width)
		dc.Stroke()
		dc.SetDash()
	}
	dc.ClearPath()

	if e.Text == "" || !setColor(dc, e.Style.TextColor) {
		return
	}
	dc.SetFontFace(face(e.Style))
	if e.IsContainer() {
		dc.DrawStringAnchored(e.Text, x+4, y+4, 0, 1)
		return
	}
	dc.DrawStringWrapped(e.Text, x+w/2, y+h/2, 0.5, 0.5, math.Max(w-8, 1), lineSpace, gg.AlignCenter)
}

// fill returns the fill color; group boxes are always drawn hollow.
func fill(e *diagram.Element) diagram.Color {
	if e.IsContainer() {
		return diagram.Transparent
	}
	return e.Style.FillColor
}

func drawConnector(dc *gg.Context, e *diagram.Element) {
	if !setColor(dc, e.Style.BorderColor) {
		return
	}
	sx, sy := float64(e.Start.X), float64(e.Start.Y)
	ex, ey := float64(e.End.X), float64(e.End.Y)
	dc.SetLineWidth(math.Max(float64(e.Style.BorderWidth), 1))
	dc.DrawLine(sx, sy, ex, ey)
	dc.Stroke()

	if e.Kind == diagram.KindArrow {
		drawArrowHead(dc, sx, sy, ex, ey)
	}
	if e.Text != "" && setColor(dc, e.Style.TextColor) {
		dc.SetFontFace(face(e.Style))
		dc.DrawStringAnchored(e.Text, (sx+ex)/2, (sy+ey)/2, 0.5, -0.2)
	}
}

func drawArrowHead(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const spread = 0.5
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*spread, ty-arrowSize*dy-arrowSize*dx*spread)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*spread, ty-arrowSize*dy+arrowSize*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func face(s diagram.Style) font.Face {
	size := s.FontSize
	if size <= 0 {
		size = diagram.DefaultStyle.FontSize
	}
	return truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
