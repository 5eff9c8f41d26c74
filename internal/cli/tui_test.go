package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdeck/pkg/canvas"
	"github.com/matzehuels/flowdeck/pkg/diagram"
)

type editorFixture struct {
	m     EditorModel
	box   diagram.ID
	arrow diagram.ID
	saves int
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	g := diagram.New()
	box := diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 80, 32))
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(200, 0), diagram.Pt(300, 0))
	if err := g.AddAll([]*diagram.Element{box, arrow}); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	cv := canvas.New(g, canvas.Options{Logger: log.New(io.Discard)})

	f := &editorFixture{box: box.ID, arrow: arrow.ID}
	f.m = NewEditorModel(cv, "test.json", func() error {
		f.saves++
		return nil
	})
	return f
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys to the editor and returns the last command.
func (f *editorFixture) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = f.m.Update(keyMsg(k))
		f.m = model.(EditorModel)
	}
	return cmd
}

func (f *editorFixture) el(id diagram.ID) *diagram.Element {
	return f.m.Canvas.Graph().Element(id)
}

func TestEditorNudgeUndo(t *testing.T) {
	f := newEditorFixture(t)

	f.press("tab", "right", "down")
	if got := f.el(f.box).Rect; got.X != 8 || got.Y != 8 {
		t.Fatalf("box at (%d,%d), want (8,8)", got.X, got.Y)
	}
	if !f.m.Dirty() {
		t.Error("editor should be dirty after a nudge")
	}

	f.press("u")
	if got := f.el(f.box).Rect; got.X != 8 || got.Y != 0 {
		t.Errorf("after undo box at (%d,%d), want (8,0)", got.X, got.Y)
	}
	f.press("ctrl+r")
	if got := f.el(f.box).Rect; got.Y != 8 {
		t.Errorf("after redo box y = %d, want 8", got.Y)
	}
}

func TestEditorPanWithoutSelection(t *testing.T) {
	f := newEditorFixture(t)
	before := f.m.Canvas.Viewport()

	f.press("right")
	after := f.m.Canvas.Viewport()
	if after.X != before.X+f.m.Canvas.NudgeStep() {
		t.Errorf("viewport x = %d, want %d", after.X, before.X+f.m.Canvas.NudgeStep())
	}
	if f.m.Dirty() {
		t.Error("panning should not mark the diagram modified")
	}
}

func TestEditorDragMode(t *testing.T) {
	f := newEditorFixture(t)

	f.press("tab", "tab", "e")
	if f.m.grip != diagram.GripStart {
		t.Fatalf("grip = %v, want start", f.m.grip)
	}
	f.press(" ")
	if !f.m.Canvas.Dragging() {
		t.Fatal("space should open a drag")
	}
	f.press("left", "left")
	f.press(" ")
	if f.m.Canvas.Dragging() {
		t.Fatal("second space should release the drag")
	}
	if got := f.el(f.arrow).Start; got != diagram.Pt(184, 0) {
		t.Errorf("start = %v, want (184,0)", got)
	}
	if got := f.el(f.arrow).End; got != diagram.Pt(300, 0) {
		t.Errorf("end moved to %v", got)
	}

	f.press("u")
	if got := f.el(f.arrow).Start; got != diagram.Pt(200, 0) {
		t.Errorf("after undo start = %v, want (200,0)", got)
	}
}

func TestEditorTextAndAdd(t *testing.T) {
	f := newEditorFixture(t)

	f.press("tab", "enter", "h", "i", " ", "x", "enter")
	if got := f.el(f.box).Text; got != "hi x" {
		t.Errorf("text = %q, want %q", got, "hi x")
	}

	n := f.m.Canvas.Graph().Len()
	f.press("b")
	if f.m.Canvas.Graph().Len() != n+1 {
		t.Fatalf("len = %d, want %d", f.m.Canvas.Graph().Len(), n+1)
	}
	sel := f.m.Canvas.Selection()
	if len(sel) != 1 || f.el(sel[0]).Kind != diagram.KindBox {
		t.Errorf("selection after add = %v", sel)
	}
	if !f.m.Canvas.OnScreen(f.el(sel[0]).Rect) {
		t.Error("added box should be inside the viewport")
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	f := newEditorFixture(t)

	f.press("tab", "d")
	if cmd := f.press("q"); cmd != nil {
		t.Fatal("first q with unsaved changes should ask for confirmation")
	}
	if cmd := f.press("q"); cmd == nil {
		t.Fatal("second q should quit")
	}

	f = newEditorFixture(t)
	f.press("tab", "d", "ctrl+s")
	if f.saves != 1 || f.m.Dirty() {
		t.Errorf("saves = %d, dirty = %v", f.saves, f.m.Dirty())
	}
	if cmd := f.press("q"); cmd == nil {
		t.Error("q after save should quit")
	}
}

func TestEditorView(t *testing.T) {
	f := newEditorFixture(t)
	m, _ := f.m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	f.m = m.(EditorModel)
	f.press("tab", "right")

	view := f.m.View()
	for _, want := range []string{"flowdeck", "test.json", "[modified]", "┌"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n"); lines != 12-editorChrome+2 {
		t.Errorf("view has %d newlines, want %d", lines, 12-editorChrome+2)
	}
}
