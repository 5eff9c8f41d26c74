package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowdeck/pkg/canvas"
	"github.com/matzehuels/flowdeck/pkg/diagram"
	"github.com/matzehuels/flowdeck/pkg/render"
)

// Editor cell size in diagram units. Terminal cells are about twice as
// tall as they are wide.
const (
	editorCellWidth  = 8
	editorCellHeight = 16
	editorChrome     = 4 // title, status and help lines plus a spacer
)

var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorMarkerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	editorErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editorModeStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

type editorMode int

const (
	modeNormal editorMode = iota
	modeDrag
	modeText
)

// =============================================================================
// EditorModel - interactive diagram editor
// =============================================================================

// EditorModel is the bubbletea model behind `flowdeck edit`. Arrow keys
// nudge the selection as discrete steps; space holds a drag open so the
// snap engine's connection-point markers stay on screen between steps.
type EditorModel struct {
	Canvas *canvas.Canvas
	Path   string

	width, height int
	origin        diagram.Point
	mode          editorMode
	grip          diagram.GripKind
	input         []rune
	status        string
	failed        bool
	dirty         bool
	confirmQuit   bool
	saveFn        func() error
}

// NewEditorModel creates an editor for cv. save persists the canvas; it
// is called on ctrl+s.
func NewEditorModel(cv *canvas.Canvas, path string, save func() error) EditorModel {
	m := EditorModel{
		Canvas: cv,
		Path:   path,
		width:  80,
		height: 24,
		saveFn: save,
	}
	if b := cv.Graph().Bounds(); !b.IsEmpty() {
		m.origin = diagram.Pt(b.X-2*editorCellWidth, b.Y-editorCellHeight)
	}
	m.syncViewport()
	return m
}

// Dirty reports whether the diagram changed since the last save.
func (m EditorModel) Dirty() bool { return m.dirty }

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.syncViewport()
	case tea.KeyMsg:
		switch m.mode {
		case modeText:
			return m.updateText(msg)
		case modeDrag:
			return m.updateDrag(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m EditorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		m.confirmQuit = false
	}
	m.status, m.failed = "", false

	if delta, ok := m.arrow(key); ok {
		if len(m.Canvas.Selection()) == 0 {
			m.pan(delta)
			return m, nil
		}
		m.report(m.step(delta), "Moved")
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "Unsaved changes: press q again to quit, ctrl+s to save"
			return m, nil
		}
		return m, tea.Quit
	case "H", "shift+left":
		m.pan(diagram.Vec(-8*editorCellWidth, 0))
	case "L", "shift+right":
		m.pan(diagram.Vec(8*editorCellWidth, 0))
	case "K", "shift+up":
		m.pan(diagram.Vec(0, -4*editorCellHeight))
	case "J", "shift+down":
		m.pan(diagram.Vec(0, 4*editorCellHeight))
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "esc":
		m.Canvas.ClearSelection()
		m.grip = diagram.GripNone
	case "e":
		m.cycleGrip()
	case " ":
		if err := m.Canvas.BeginDrag(m.grip); err != nil {
			m.report(err, "")
			return m, nil
		}
		m.mode = modeDrag
	case "b":
		m.add(diagram.NewElement(diagram.KindBox, m.place(120, 40)))
	case "o":
		m.add(diagram.NewElement(diagram.KindEllipse, m.place(120, 48)))
	case "i":
		m.add(diagram.NewElement(diagram.KindDiamond, m.place(96, 64)))
	case "t":
		e := diagram.NewElement(diagram.KindText, m.place(96, 16))
		e.Text = "text"
		m.add(e)
	case "a":
		r := m.place(96, 0)
		m.add(diagram.NewConnector(diagram.KindArrow, diagram.Pt(r.X, r.Y), diagram.Pt(r.Right(), r.Y)))
	case "enter":
		sel := m.Canvas.Selection()
		if len(sel) != 1 {
			m.report(canvas.ErrNoSelection, "")
			return m, nil
		}
		m.input = []rune(m.Canvas.Graph().Element(sel[0]).Text)
		m.mode = modeText
	case "c":
		n, err := m.Canvas.Copy()
		m.report(err, fmt.Sprintf("Copied %d elements", n))
	case "x":
		n, err := m.Canvas.Cut()
		m.changed(err, fmt.Sprintf("Cut %d elements", n))
	case "v":
		ids, err := m.Canvas.Paste()
		m.changed(err, fmt.Sprintf("Pasted %d elements", len(ids)))
	case "d", "delete", "backspace":
		n, err := m.Canvas.Delete()
		m.changed(err, fmt.Sprintf("Deleted %d elements", n))
	case "g":
		_, err := m.Canvas.GroupSelection()
		m.changed(err, "Grouped")
	case "G":
		ids, err := m.Canvas.UngroupSelection()
		m.changed(err, fmt.Sprintf("Ungrouped %d elements", len(ids)))
	case "u":
		if name, ok := m.Canvas.Undo(); ok {
			m.changed(nil, "Undid "+name)
		} else {
			m.status = "Nothing to undo"
		}
	case "ctrl+r":
		if name, ok := m.Canvas.Redo(); ok {
			m.changed(nil, "Redid "+name)
		} else {
			m.status = "Nothing to redo"
		}
	case "ctrl+s":
		m.save()
	}
	return m, nil
}

func (m EditorModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if delta, ok := m.arrow(key); ok {
		_, err := m.Canvas.Drag(delta, true)
		m.report(err, "")
		return m, nil
	}
	switch key {
	case "s":
		m.Canvas.SuppressSnap()
		m.status = "Snapping off for this drag"
	case " ", "enter", "esc", "ctrl+c":
		n, err := m.Canvas.EndDrag()
		m.mode = modeNormal
		note := "Moved"
		if n > 0 {
			note = fmt.Sprintf("Moved (%d snaps)", n)
		}
		m.changed(err, note)
	}
	return m, nil
}

func (m EditorModel) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeNormal
		if sel := m.Canvas.Selection(); len(sel) == 1 {
			m.changed(m.Canvas.SetText(sel[0], string(m.input)), "Text updated")
		}
	case tea.KeyEsc:
		m.mode = modeNormal
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// =============================================================================
// Commands
// =============================================================================

// arrow maps a movement key to one nudge step.
func (m EditorModel) arrow(key string) (diagram.Vector, bool) {
	n := m.Canvas.NudgeStep()
	switch key {
	case "left", "h":
		return diagram.Vec(-n, 0), true
	case "right", "l":
		return diagram.Vec(n, 0), true
	case "up", "k":
		return diagram.Vec(0, -n), true
	case "down", "j":
		return diagram.Vec(0, n), true
	}
	return diagram.Vector{}, false
}

// step moves the selection, or the chosen connector endpoint, as one
// keyboard gesture.
func (m *EditorModel) step(delta diagram.Vector) error {
	if m.grip == diagram.GripNone {
		_, err := m.Canvas.Nudge(delta)
		m.dirty = m.dirty || err == nil
		return err
	}
	if err := m.Canvas.BeginDrag(m.grip); err != nil {
		return err
	}
	_, err := m.Canvas.Drag(delta, true)
	if _, endErr := m.Canvas.EndDrag(); err == nil {
		err = endErr
	}
	m.dirty = m.dirty || err == nil
	return err
}

func (m *EditorModel) pan(delta diagram.Vector) {
	m.origin = m.origin.Add(delta)
	m.syncViewport()
}

// cycle selects the next element in z-order.
func (m *EditorModel) cycle(dir int) {
	ids := m.Canvas.Graph().IDs()
	if len(ids) == 0 {
		return
	}
	i := -1
	if sel := m.Canvas.Selection(); len(sel) == 1 {
		i = slices.Index(ids, sel[0])
	}
	i = (i + dir + len(ids)) % len(ids)
	_ = m.Canvas.Select(ids[i])
	m.grip = diagram.GripNone
	m.status = m.Canvas.Graph().Element(ids[i]).Label()
}

// cycleGrip walks whole connector, start, end for a selected connector.
func (m *EditorModel) cycleGrip() {
	sel := m.Canvas.Selection()
	if len(sel) != 1 || !m.Canvas.Graph().Element(sel[0]).IsConnector() {
		m.report(fmt.Errorf("select a single connector to move one end"), "")
		return
	}
	switch m.grip {
	case diagram.GripNone:
		m.grip = diagram.GripStart
	case diagram.GripStart:
		m.grip = diagram.GripEnd
	default:
		m.grip = diagram.GripNone
	}
	m.status = "Moving " + m.gripLabel()
}

func (m EditorModel) gripLabel() string {
	if m.grip == diagram.GripNone {
		return "selection"
	}
	return m.grip.String() + " point"
}

// place returns a w x h rect centered in the viewport.
func (m EditorModel) place(w, h int) diagram.Rect {
	c := m.Canvas.Viewport().Center()
	return diagram.R(c.X-w/2, c.Y-h/2, w, h)
}

func (m *EditorModel) add(e *diagram.Element) {
	m.grip = diagram.GripNone
	m.changed(m.Canvas.Add(e), "Added "+e.Kind)
}

func (m *EditorModel) save() {
	if m.saveFn == nil {
		m.report(errors.New("no save target"), "")
		return
	}
	if err := m.saveFn(); err != nil {
		m.report(err, "")
		return
	}
	m.dirty = false
	m.status = "Saved " + m.Path
}

// changed reports a command that modified the diagram on success.
func (m *EditorModel) changed(err error, ok string) {
	if err == nil {
		m.dirty = true
	}
	m.report(err, ok)
}

func (m *EditorModel) report(err error, ok string) {
	if err != nil {
		m.status, m.failed = err.Error(), true
		return
	}
	if ok != "" {
		m.status, m.failed = ok, false
	}
}

// =============================================================================
// View
// =============================================================================

func (m *EditorModel) gridOptions() render.GridOptions {
	return render.GridOptions{
		Origin:     m.origin,
		Cols:       max(m.width, 10),
		Rows:       max(m.height-editorChrome, 5),
		CellWidth:  editorCellWidth,
		CellHeight: editorCellHeight,
	}
}

func (m *EditorModel) syncViewport() {
	m.Canvas.SetViewport(m.gridOptions().Viewport())
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render("flowdeck") + " " + StyleDim.Render(m.Path)
	if m.dirty {
		title += " " + StyleWarning.Render("[modified]")
	}
	switch m.mode {
	case modeDrag:
		title += " " + editorModeStyle.Render("DRAG "+m.gripLabel())
	case modeText:
		title += " " + editorModeStyle.Render("TEXT")
	}
	b.WriteString(title)
	b.WriteString("\n")

	opts := m.gridOptions()
	opts.Markers = m.Canvas.VisibleMarkers()
	grid := render.NewGrid(m.Canvas.Graph(), opts)
	sel := m.Canvas.Selection()
	for _, row := range grid.Cells {
		b.WriteString(styleRow(row, sel))
		b.WriteString("\n")
	}

	switch {
	case m.mode == modeText:
		b.WriteString("text: " + string(m.input) + "▏")
	case m.failed:
		b.WriteString(editorErrorStyle.Render(m.status))
	default:
		b.WriteString(StyleDim.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.help()))
	return b.String()
}

func (m EditorModel) help() string {
	switch m.mode {
	case modeDrag:
		return "←↑↓→ drag  s no-snap  space/enter release"
	case modeText:
		return "enter apply  esc cancel"
	}
	return "tab select  ←↑↓→ nudge  e end  space drag  b/o/i/t/a add  enter text  c/x/v clip  d del  g/G group  u/^r undo  ^s save  q quit"
}

// styleRow renders one grid row, grouping runs of equally styled cells.
func styleRow(row []render.Cell, sel []diagram.ID) string {
	var b, run strings.Builder
	var cur *lipgloss.Style
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if cur != nil {
			b.WriteString(cur.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, cell := range row {
		var style *lipgloss.Style
		switch {
		case cell.Marker:
			style = &editorMarkerStyle
		case cell.Selected(sel):
			style = &editorSelectedStyle
		}
		if style != cur {
			flush()
			cur = style
		}
		run.WriteRune(cell.Ch)
	}
	flush()
	return b.String()
}
