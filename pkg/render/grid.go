package render

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

// Default grid cell size in diagram units.
const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
)

// GridOptions selects the region drawn by [NewGrid].
type GridOptions struct {
	// Origin is the diagram point at the top-left corner of cell (0, 0).
	Origin diagram.Point
	// Cols and Rows give the grid size in cells.
	Cols, Rows int
	// CellWidth and CellHeight give the diagram units covered by one cell.
	CellWidth, CellHeight int
	// Markers lists the shapes whose connection points are drawn.
	Markers []diagram.ID
}

// Viewport returns the diagram region covered by the grid.
func (o GridOptions) Viewport() diagram.Rect {
	o = o.withDefaults()
	return diagram.R(o.Origin.X, o.Origin.Y, o.Cols*o.CellWidth, o.Rows*o.CellHeight)
}

func (o GridOptions) withDefaults() GridOptions {
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	return o
}

// Cell is one character of the grid.
type Cell struct {
	Ch rune
	// ID is the element that drew the cell, or NilID for background.
	ID     diagram.ID
	Marker bool
}

// Grid is a character raster of part of a diagram.
type Grid struct {
	Cols, Rows int
	Cells      [][]Cell
	opts       GridOptions
}

type frame struct {
	h, v           rune
	tl, tr, bl, br rune
}

var frames = map[string]frame{
	diagram.KindBox:     {'─', '│', '┌', '┐', '└', '┘'},
	diagram.KindEllipse: {'─', '│', '╭', '╮', '╰', '╯'},
	diagram.KindDiamond: {'─', '│', '╱', '╲', '╲', '╱'},
	diagram.KindGroup:   {'┄', '┆', '┏', '┓', '┗', '┛'},
	diagram.KindCallout: {'┈', '┊', '╭', '╮', '╰', '╯'},
}

// NewGrid rasterizes the region of g selected by opts.
func NewGrid(g *diagram.Graph, opts GridOptions) *Grid {
	opts = opts.withDefaults()
	gr := &Grid{Cols: max(opts.Cols, 0), Rows: max(opts.Rows, 0), opts: opts}
	gr.Cells = make([][]Cell, gr.Rows)
	for r := range gr.Cells {
		gr.Cells[r] = make([]Cell, gr.Cols)
		for c := range gr.Cells[r] {
			gr.Cells[r][c] = Cell{Ch: ' '}
		}
	}

	els := g.Elements()
	for _, e := range els {
		if e.Visible && e.IsContainer() {
			gr.drawShape(e)
		}
	}
	for _, e := range els {
		if !e.Visible || e.IsContainer() {
			continue
		}
		if e.IsConnector() {
			gr.drawConnector(e)
		} else {
			gr.drawShape(e)
		}
	}
	for _, id := range opts.Markers {
		e := g.Element(id)
		if e == nil || !e.Visible {
			continue
		}
		for _, cp := range e.ConnectionPoints() {
			c, r := gr.cell(cp.Point)
			if gr.set(c, r, '+', id) {
				gr.Cells[r][c].Marker = true
			}
		}
	}
	return gr
}

// Cell returns the cell at column c, row r.
func (gr *Grid) Cell(c, r int) Cell {
	if r < 0 || r >= gr.Rows || c < 0 || c >= gr.Cols {
		return Cell{Ch: ' '}
	}
	return gr.Cells[r][c]
}

// Point returns the diagram point at the top-left corner of a cell.
func (gr *Grid) Point(c, r int) diagram.Point {
	return diagram.Pt(gr.opts.Origin.X+c*gr.opts.CellWidth, gr.opts.Origin.Y+r*gr.opts.CellHeight)
}

// Lines returns one string per row.
func (gr *Grid) Lines() []string {
	out := make([]string, gr.Rows)
	var sb strings.Builder
	for r, row := range gr.Cells {
		sb.Reset()
		for _, cell := range row {
			sb.WriteRune(cell.Ch)
		}
		out[r] = sb.String()
	}
	return out
}

func (gr *Grid) String() string { return strings.Join(gr.Lines(), "\n") }

func (gr *Grid) cell(p diagram.Point) (int, int) {
	return floorDiv(p.X-gr.opts.Origin.X, gr.opts.CellWidth), floorDiv(p.Y-gr.opts.Origin.Y, gr.opts.CellHeight)
}

func (gr *Grid) set(c, r int, ch rune, id diagram.ID) bool {
	if r < 0 || r >= gr.Rows || c < 0 || c >= gr.Cols {
		return false
	}
	gr.Cells[r][c] = Cell{Ch: ch, ID: id}
	return true
}

func (gr *Grid) drawShape(e *diagram.Element) {
	c0, r0 := gr.cell(diagram.Pt(e.Rect.X, e.Rect.Y))
	c1, r1 := gr.cell(diagram.Pt(e.Rect.Right()-1, e.Rect.Bottom()-1))

	f, framed := frames[e.Kind]
	if !framed && e.Kind != diagram.KindText {
		f, framed = frames[diagram.KindBox], true
	}
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			ch := ' '
			if framed {
				ch = f.edge(c, r, c0, r0, c1, r1)
			}
			gr.set(c, r, ch, e.ID)
		}
	}

	label := e.Text
	if label == "" {
		return
	}
	row, left, width := (r0+r1)/2, c0, c1-c0+1
	if framed {
		if e.IsContainer() || r1-r0 < 2 {
			row = r0
		}
		left, width = c0+1, c1-c0-1
	}
	gr.write(row, left, width, label, e.ID, !e.IsContainer())
}

func (f frame) edge(c, r, c0, r0, c1, r1 int) rune {
	switch {
	case c == c0 && r == r0:
		return f.tl
	case c == c1 && r == r0:
		return f.tr
	case c == c0 && r == r1:
		return f.bl
	case c == c1 && r == r1:
		return f.br
	case r == r0 || r == r1:
		return f.h
	case c == c0 || c == c1:
		return f.v
	}
	return ' '
}

// write places text on row, centered in width cells from left when
// center is set, truncated to fit.
func (gr *Grid) write(row, left, width int, text string, id diagram.ID, center bool) {
	if width <= 0 {
		return
	}
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) > width {
		runes = runes[:width]
	}
	start := left
	if center {
		start += (width - len(runes)) / 2
	}
	for i, ch := range runes {
		gr.set(start+i, row, ch, id)
	}
}

func (gr *Grid) drawConnector(e *diagram.Element) {
	c0, r0 := gr.cell(e.Start)
	c1, r1 := gr.cell(e.End)
	dc, dr := c1-c0, r1-r0

	ch := '─'
	switch {
	case dc == 0 && dr == 0:
		ch = '•'
	case dc == 0:
		ch = '│'
	case dr == 0:
	case (dc > 0) == (dr > 0):
		ch = '╲'
	default:
		ch = '╱'
	}

	points := line(c0, r0, c1, r1)
	for _, p := range points {
		gr.set(p[0], p[1], ch, e.ID)
	}
	if e.Kind == diagram.KindArrow && len(points) > 1 {
		gr.set(c1, r1, head(dc, dr), e.ID)
	}
	if e.Text != "" {
		mid := points[len(points)/2]
		n := utf8.RuneCountInString(e.Text)
		gr.write(mid[1], mid[0]-n/2, n, e.Text, e.ID, false)
	}
}

func head(dc, dr int) rune {
	if abs(dc) >= abs(dr) {
		if dc > 0 {
			return '▶'
		}
		return '◀'
	}
	if dr > 0 {
		return '▼'
	}
	return '▲'
}

// line returns the cells on the segment between two cells (Bresenham).
func line(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	var out [][2]int
	for err := dx + dy; ; {
		out = append(out, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return out
}

// Selected reports whether the cell was drawn by one of ids.
func (c Cell) Selected(ids []diagram.ID) bool {
	return c.ID != diagram.NilID && slices.Contains(ids, c.ID)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
