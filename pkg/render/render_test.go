package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

func testGraph(t *testing.T) (*diagram.Graph, *diagram.Element, *diagram.Element) {
	t.Helper()
	g := diagram.New()
	box := diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 50, 30))
	box.Text = "ab"
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(60, 10), diagram.Pt(100, 10))
	if err := g.AddAll([]*diagram.Element{box, arrow}); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	return g, box, arrow
}

func TestRenderPNG(t *testing.T) {
	g, _, _ := testGraph(t)
	tests := []struct {
		name          string
		opts          Options
		width, height int
	}{
		// Bounds are (0,0)-(101,30) with the inclusive connector rect.
		{"defaults", Options{}, 141, 70},
		{"scaled", Options{Scale: 2, Margin: 10}, 242, 100},
		{"grid", Options{Grid: true}, 141, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(g, tt.opts)
			if err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	data, err := RenderPNG(diagram.New(), Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRender(t *testing.T) {
	g, box, _ := testGraph(t)

	dot, err := Render(g, FormatDOT, Options{})
	if err != nil {
		t.Fatalf("Render dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output does not start with digraph: %q", dot)
	}

	data, err := Render(g, FormatJSON, Options{})
	if err != nil {
		t.Fatalf("Render json: %v", err)
	}
	els, _, err := persist.Unmarshal(data, nil)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(els) != 2 || els[0].Text != box.Text {
		t.Errorf("json round trip = %d elements", len(els))
	}

	if _, err := Render(g, "bmp", Options{}); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("Render bmp error = %v, want INVALID_FORMAT", err)
	}
}

func TestKeyOpts(t *testing.T) {
	opts := Options{Scale: 2, Grid: true, Detailed: true}

	pk := opts.KeyOpts(FormatPNG)
	if pk.Scale != 2 || pk.Margin != DefaultMargin || !pk.Grid || pk.Detailed {
		t.Errorf("png key opts = %+v", pk)
	}
	svg := opts.KeyOpts(FormatSVG)
	if svg.Scale != 0 || svg.Grid || !svg.Detailed {
		t.Errorf("svg key opts = %+v", svg)
	}
	if jk := opts.KeyOpts(FormatJSON); jk != (Options{}).KeyOpts(FormatJSON) {
		t.Errorf("json key opts depend on options: %+v", jk)
	}
}

func TestGrid(t *testing.T) {
	g, box, arrow := testGraph(t)
	gr := NewGrid(g, GridOptions{Cols: 12, Rows: 3, CellWidth: 10, CellHeight: 10})

	want := []string{
		"┌───┐       ",
		"│ab │ ────▶ ",
		"└───┘       ",
	}
	got := gr.Lines()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if c := gr.Cell(1, 1); c.ID != box.ID {
		t.Errorf("label cell owner = %q, want box", c.ID)
	}
	if c := gr.Cell(10, 1); c.ID != arrow.ID {
		t.Errorf("arrowhead owner = %q, want arrow", c.ID)
	}
	if c := gr.Cell(11, 0); c.ID != diagram.NilID {
		t.Errorf("background owner = %q", c.ID)
	}
	if c := gr.Cell(-1, 50); c.Ch != ' ' {
		t.Errorf("out of range cell = %q", c.Ch)
	}
}

func TestGridMarkers(t *testing.T) {
	g, box, _ := testGraph(t)
	gr := NewGrid(g, GridOptions{Cols: 12, Rows: 3, CellWidth: 10, CellHeight: 10, Markers: []diagram.ID{box.ID}})

	for _, cell := range [][2]int{{2, 0}, {0, 1}, {5, 1}} {
		c := gr.Cell(cell[0], cell[1])
		if !c.Marker || c.Ch != '+' {
			t.Errorf("cell %v = %+v, want marker", cell, c)
		}
	}
	if c := gr.Cell(1, 1); c.Marker {
		t.Errorf("label cell marked")
	}
}

func TestGridOrigin(t *testing.T) {
	g, box, _ := testGraph(t)
	opts := GridOptions{Origin: diagram.Pt(-20, -10), Cols: 4, Rows: 2, CellWidth: 10, CellHeight: 10}
	gr := NewGrid(g, opts)

	if c := gr.Cell(2, 1); c.Ch != '┌' || c.ID != box.ID {
		t.Errorf("corner cell = %+v", c)
	}
	if p := gr.Point(2, 1); p != diagram.Pt(0, 0) {
		t.Errorf("Point(2, 1) = %v", p)
	}
	if vp := opts.Viewport(); vp != diagram.R(-20, -10, 40, 20) {
		t.Errorf("Viewport = %+v", vp)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 10, 0},
		{10, 10, 1},
		{-1, 10, -1},
		{-10, 10, -1},
		{-11, 10, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
