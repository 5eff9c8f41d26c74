package canvas

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
)

type fixture struct {
	c          *Canvas
	box, arrow diagram.ID
}

// newFixture builds a box at (50,100) 100x40, whose top middle point is
// (100,100), and an arrow from the origin. With attached set the arrow's
// end sits on the top middle point and is bound to it; otherwise it ends
// at (90,95).
func newFixture(t *testing.T, attached bool) fixture {
	t.Helper()
	g := diagram.New()
	box := diagram.NewElement(diagram.KindBox, diagram.R(50, 100, 100, 40))
	end := diagram.Pt(90, 95)
	if attached {
		end = diagram.Pt(100, 100)
	}
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(0, 0), end)
	if err := g.AddAll([]*diagram.Element{box, arrow}); err != nil {
		t.Fatal(err)
	}
	if attached {
		top, _ := box.ConnectionPoint(diagram.GripTopMiddle)
		if err := g.Attach(arrow.ID, diagram.GripEnd, box.ID, top); err != nil {
			t.Fatal(err)
		}
	}
	c := New(g, Options{PasteOffset: DefaultPasteOffset})
	return fixture{c: c, box: box.ID, arrow: arrow.ID}
}

func (f fixture) el(id diagram.ID) *diagram.Element { return f.c.Graph().Element(id) }

func (f fixture) bound() bool { return f.el(f.arrow).EndShape == f.box }

func (f fixture) mustValidate(t *testing.T) {
	t.Helper()
	if err := f.c.Graph().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDragAttachUndoRedo(t *testing.T) {
	f := newFixture(t, false)
	f.c.Select(f.arrow)
	if err := f.c.BeginDrag(diagram.GripEnd); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}

	applied, err := f.c.Drag(diagram.Vec(2, 2), false)
	if err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if applied != diagram.Vec(10, 5) {
		t.Errorf("applied = %v, want {10 5}", applied)
	}
	if got := f.el(f.arrow).End; got != diagram.Pt(100, 100) {
		t.Errorf("End = %v, want {100 100}", got)
	}
	if !f.bound() {
		t.Error("arrow end not bound after snapping")
	}
	if got := f.c.VisibleMarkers(); !reflect.DeepEqual(got, []diagram.ID{f.box}) {
		t.Errorf("VisibleMarkers = %v, want [box]", got)
	}

	// Slow movement while attached is swallowed.
	applied, err = f.c.Drag(diagram.Vec(1, 1), false)
	if err != nil || !applied.IsZero() {
		t.Errorf("Drag while attached = %v, %v; want zero", applied, err)
	}

	n, err := f.c.EndDrag()
	if err != nil || n != 1 {
		t.Fatalf("EndDrag = %d, %v; want 1 snap action", n, err)
	}
	if len(f.c.VisibleMarkers()) != 0 {
		t.Error("markers still visible after EndDrag")
	}
	if got := f.c.History(); !reflect.DeepEqual(got, []string{"Move"}) {
		t.Errorf("History = %v, want [Move]", got)
	}
	f.mustValidate(t)

	if name, ok := f.c.Undo(); !ok || name != "Move" {
		t.Fatalf("Undo = %q, %v", name, ok)
	}
	if f.bound() || len(f.el(f.box).Connections) != 0 {
		t.Error("arrow still bound after undo")
	}
	if got := f.el(f.arrow).End; got != diagram.Pt(90, 95) {
		t.Errorf("End after undo = %v, want {90 95}", got)
	}
	f.mustValidate(t)

	if _, ok := f.c.Redo(); !ok {
		t.Fatal("Redo failed")
	}
	if !f.bound() || f.el(f.arrow).End != diagram.Pt(100, 100) {
		t.Errorf("after redo: bound=%v End=%v", f.bound(), f.el(f.arrow).End)
	}
	conns := f.el(f.box).Connections
	if len(conns) != 1 || conns[0].ToPoint.Point != diagram.Pt(100, 100) {
		t.Errorf("box connections after redo = %+v", conns)
	}
	f.mustValidate(t)
}

func TestDragDetach(t *testing.T) {
	tests := []struct {
		name      string
		delta     diagram.Vector
		wantEnd   diagram.Point
		wantBound bool
		wantSnaps int
	}{
		{"slow stays attached", diagram.Vec(2, 2), diagram.Pt(100, 100), true, 0},
		{"fast tears off", diagram.Vec(6, 0), diagram.Pt(106, 100), false, 1},
		{"fast vertical tears off", diagram.Vec(0, -5), diagram.Pt(100, 95), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.c.Select(f.arrow)
			if err := f.c.BeginDrag(diagram.GripEnd); err != nil {
				t.Fatal(err)
			}
			if _, err := f.c.Drag(tt.delta, false); err != nil {
				t.Fatal(err)
			}
			n, err := f.c.EndDrag()
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.wantSnaps {
				t.Errorf("snaps = %d, want %d", n, tt.wantSnaps)
			}
			if got := f.el(f.arrow).End; got != tt.wantEnd {
				t.Errorf("End = %v, want %v", got, tt.wantEnd)
			}
			if f.bound() != tt.wantBound {
				t.Errorf("bound = %v, want %v", f.bound(), tt.wantBound)
			}
			f.mustValidate(t)

			if tt.wantSnaps == 0 {
				if len(f.c.History()) != 0 {
					t.Errorf("no-op gesture recorded %v", f.c.History())
				}
				return
			}
			f.c.Undo()
			if !f.bound() || f.el(f.arrow).End != diagram.Pt(100, 100) {
				t.Errorf("after undo: bound=%v End=%v", f.bound(), f.el(f.arrow).End)
			}
			f.mustValidate(t)
		})
	}
}

func TestNudgeAttachedConnectorDetaches(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.arrow)

	applied, err := f.c.Nudge(diagram.Vec(f.c.NudgeStep(), 0))
	if err != nil {
		t.Fatalf("Nudge: %v", err)
	}
	if applied != diagram.Vec(8, 0) {
		t.Errorf("applied = %v, want {8 0}", applied)
	}
	a := f.el(f.arrow)
	if a.Start != diagram.Pt(8, 0) || a.End != diagram.Pt(108, 100) {
		t.Errorf("arrow = %v -> %v", a.Start, a.End)
	}
	if f.bound() {
		t.Error("keyboard nudge left the endpoint bound")
	}
	if f.c.Dragging() {
		t.Error("Nudge left a gesture open")
	}

	f.c.Undo()
	a = f.el(f.arrow)
	if a.Start != diagram.Pt(0, 0) || a.End != diagram.Pt(100, 100) || !f.bound() {
		t.Errorf("after undo: %v -> %v bound=%v", a.Start, a.End, f.bound())
	}
	f.mustValidate(t)
}

func TestNudgeShapeCarriesConnector(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.box)
	if _, err := f.c.Nudge(diagram.Vec(0, 8)); err != nil {
		t.Fatal(err)
	}
	if got := f.el(f.box).Rect.Y; got != 108 {
		t.Errorf("box Y = %d, want 108", got)
	}
	if got := f.el(f.arrow).End; got != diagram.Pt(100, 108) || !f.bound() {
		t.Errorf("arrow end = %v bound=%v; want {100 108} bound", got, f.bound())
	}
	f.c.Undo()
	if got := f.el(f.arrow).End; got != diagram.Pt(100, 100) {
		t.Errorf("arrow end after undo = %v", got)
	}
	f.mustValidate(t)
}

func TestSuppressedAndOffscreen(t *testing.T) {
	t.Run("suppressed", func(t *testing.T) {
		f := newFixture(t, false)
		f.c.Select(f.arrow)
		f.c.BeginDrag(diagram.GripEnd)
		f.c.SuppressSnap()
		applied, _ := f.c.Drag(diagram.Vec(2, 2), false)
		f.c.EndDrag()
		if applied != diagram.Vec(2, 2) || f.bound() {
			t.Errorf("applied = %v bound=%v; want raw move", applied, f.bound())
		}
	})
	t.Run("target off screen", func(t *testing.T) {
		f := newFixture(t, false)
		f.c.SetViewport(diagram.R(1000, 1000, 200, 200))
		f.c.Select(f.arrow)
		f.c.BeginDrag(diagram.GripEnd)
		applied, _ := f.c.Drag(diagram.Vec(2, 2), false)
		f.c.EndDrag()
		if applied != diagram.Vec(2, 2) || f.bound() {
			t.Errorf("applied = %v bound=%v; want raw move", applied, f.bound())
		}
	})
}

func TestGestureErrors(t *testing.T) {
	f := newFixture(t, false)
	if err := f.c.BeginDrag(diagram.GripNone); !errors.Is(err, ErrNoSelection) {
		t.Errorf("BeginDrag without selection = %v", err)
	}
	f.c.Select(f.box)
	if err := f.c.BeginDrag(diagram.GripEnd); !errors.Is(err, diagram.ErrNotConnector) {
		t.Errorf("BeginDrag(End) on box = %v", err)
	}
	f.c.Select(f.arrow)
	if err := f.c.BeginDrag(diagram.GripTopLeft); !errors.Is(err, diagram.ErrInvalidGrip) {
		t.Errorf("BeginDrag(TopLeft) on arrow = %v", err)
	}
	if _, err := f.c.Drag(diagram.Vec(1, 0), false); !errors.Is(err, ErrNotDragging) {
		t.Errorf("Drag outside gesture = %v", err)
	}
	if _, err := f.c.EndDrag(); !errors.Is(err, ErrNotDragging) {
		t.Errorf("EndDrag outside gesture = %v", err)
	}

	if err := f.c.BeginDrag(diagram.GripNone); err != nil {
		t.Fatal(err)
	}
	if err := f.c.BeginDrag(diagram.GripNone); !errors.Is(err, ErrDragging) {
		t.Errorf("nested BeginDrag = %v", err)
	}
	if _, err := f.c.Delete(); !errors.Is(err, ErrDragging) {
		t.Errorf("Delete during drag = %v", err)
	}
	if _, ok := f.c.Undo(); ok {
		t.Error("Undo ran during a drag")
	}
	f.c.EndDrag()

	if err := f.c.Select("missing"); !errors.Is(err, diagram.ErrUnknownElement) {
		t.Errorf("Select(missing) = %v", err)
	}
}

func TestDeleteAndUndo(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.box)
	n, err := f.c.Delete()
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if f.c.Graph().Has(f.box) || f.el(f.arrow).EndShape != diagram.NilID {
		t.Error("box still present or arrow still bound")
	}
	if len(f.c.Selection()) != 0 {
		t.Error("selection not cleared")
	}
	f.mustValidate(t)

	f.c.Undo()
	if !f.c.Graph().Has(f.box) || !f.bound() {
		t.Error("undo did not restore the box and its link")
	}
	f.mustValidate(t)

	if _, err := f.c.Delete(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Delete with empty selection = %v", err)
	}
}

func TestCopyPaste(t *testing.T) {
	f := newFixture(t, true)
	f.c.SelectAll()
	n, err := f.c.Copy()
	if err != nil || n != 2 {
		t.Fatalf("Copy = %d, %v", n, err)
	}

	pasted, err := f.c.Paste()
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if len(pasted) != 2 {
		t.Fatalf("pasted %d elements, want 2", len(pasted))
	}
	g := f.c.Graph()
	if g.Len() != 4 || g.ConnectionCount() != 2 {
		t.Errorf("Len = %d, ConnectionCount = %d; want 4, 2", g.Len(), g.ConnectionCount())
	}
	for _, id := range pasted {
		if id == f.box || id == f.arrow {
			t.Errorf("paste reused id %s", id)
		}
		e := g.Element(id)
		if e.IsConnector() {
			if e.Start != diagram.Pt(20, 20) {
				t.Errorf("pasted arrow start = %v, want {20 20}", e.Start)
			}
			if e.EndShape == f.box || e.EndShape == diagram.NilID {
				t.Errorf("pasted arrow bound to %q, want the pasted box", e.EndShape)
			}
		} else if e.Rect.X != 70 {
			t.Errorf("pasted box X = %d, want 70", e.Rect.X)
		}
	}
	f.mustValidate(t)

	second, err := f.c.Paste()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range second {
		if e := g.Element(id); !e.IsConnector() && e.Rect.X != 90 {
			t.Errorf("second paste box X = %d, want 90", e.Rect.X)
		}
	}

	f.c.Undo()
	f.c.Undo()
	if f.c.Graph().Len() != 2 {
		t.Errorf("Len after undoing pastes = %d, want 2", f.c.Graph().Len())
	}
}

func TestCutPasteInPlace(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.box)
	if _, err := f.c.Cut(); err != nil {
		t.Fatal(err)
	}
	if f.c.Graph().Has(f.box) {
		t.Fatal("Cut did not remove the box")
	}
	pasted, err := f.c.Paste()
	if err != nil || len(pasted) != 1 {
		t.Fatalf("Paste = %v, %v", pasted, err)
	}
	if got := f.c.Graph().Element(pasted[0]).Rect; got != diagram.R(50, 100, 100, 40) {
		t.Errorf("pasted rect = %v, want the original", got)
	}
	if got := f.c.History(); !reflect.DeepEqual(got, []string{"Delete", "Paste"}) {
		t.Errorf("History = %v", got)
	}
}

func TestPasteOffsetOptions(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		wantX  int
	}{
		{"ZeroUsesDefault", 0, 10 + DefaultPasteOffset},
		{"Custom", 5, 15},
		{"InPlace", NoPasteOffset, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := diagram.New()
			box := diagram.NewElement(diagram.KindBox, diagram.R(10, 10, 40, 20))
			if err := g.Add(box); err != nil {
				t.Fatal(err)
			}
			c := New(g, Options{PasteOffset: tt.offset})
			c.SelectAll()
			if _, err := c.Copy(); err != nil {
				t.Fatal(err)
			}
			pasted, err := c.Paste()
			if err != nil || len(pasted) != 1 {
				t.Fatalf("Paste = %v, %v", pasted, err)
			}
			if got := c.Graph().Element(pasted[0]).Rect.X; got != tt.wantX {
				t.Errorf("pasted X = %d, want %d", got, tt.wantX)
			}
		})
	}
}

func TestPasteGarbage(t *testing.T) {
	clip := &MemoryClipboard{}
	c := New(nil, Options{Clipboard: clip})
	clip.WriteAll("not a document")
	if _, err := c.Paste(); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("Paste garbage = %v, want INVALID_FORMAT", err)
	}
	clip.WriteAll("")
	if ids, err := c.Paste(); err != nil || ids != nil {
		t.Errorf("Paste empty = %v, %v", ids, err)
	}
}

func TestGroupUngroup(t *testing.T) {
	f := newFixture(t, true)
	f.c.Select(f.box, f.arrow)
	grp, err := f.c.GroupSelection()
	if err != nil {
		t.Fatalf("GroupSelection: %v", err)
	}
	g := f.c.Graph()
	if f.el(f.box).Parent != grp || f.el(f.arrow).Parent != grp {
		t.Error("members not parented to the new group")
	}
	r := g.Element(grp).Rect
	if !r.Contains(diagram.Pt(0, 0)) || !r.Contains(diagram.Pt(150, 140)) {
		t.Errorf("group rect %v does not cover its members", r)
	}
	if got := f.c.Selection(); !reflect.DeepEqual(got, []diagram.ID{grp}) {
		t.Errorf("Selection = %v, want the group", got)
	}
	f.mustValidate(t)

	// Moving the group carries the members.
	if _, err := f.c.Nudge(diagram.Vec(8, 0)); err != nil {
		t.Fatal(err)
	}
	if f.el(f.box).Rect.X != 58 || f.el(f.arrow).Start != diagram.Pt(8, 0) {
		t.Errorf("members did not move with the group")
	}

	released, err := f.c.UngroupSelection()
	if err != nil {
		t.Fatalf("UngroupSelection: %v", err)
	}
	if len(released) != 2 || f.c.Graph().Has(grp) {
		t.Errorf("released %v, group present=%v", released, f.c.Graph().Has(grp))
	}
	if f.el(f.box).Parent != diagram.NilID {
		t.Error("box still has a parent")
	}
	f.mustValidate(t)

	want := []string{"Group", "Move", "Ungroup"}
	if got := f.c.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}
	f.c.Undo()
	if f.el(f.box).Parent != grp {
		t.Error("undo of ungroup did not restore membership")
	}

	f.c.Select(f.box)
	if _, err := f.c.UngroupSelection(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("UngroupSelection without groups = %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	f := newFixture(t, true)
	var buf bytes.Buffer
	if err := f.c.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := New(nil, Options{})
	c.Add(diagram.NewElement(diagram.KindText, diagram.R(0, 0, 10, 10)))
	if err := c.Load(strings.NewReader("{broken")); err == nil {
		t.Fatal("Load accepted garbage")
	}
	if c.Graph().Len() != 1 || len(c.History()) != 1 {
		t.Error("failed Load modified the canvas")
	}

	if err := c.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := c.Graph()
	if g.Len() != 2 || g.ConnectionCount() != 1 {
		t.Errorf("loaded Len = %d, ConnectionCount = %d", g.Len(), g.ConnectionCount())
	}
	if g.Has(f.box) {
		t.Error("loaded elements kept their old ids")
	}
	if len(c.History()) != 0 || len(c.Selection()) != 0 {
		t.Error("Load kept history or selection")
	}
}

func TestImport(t *testing.T) {
	f := newFixture(t, true)
	var buf bytes.Buffer
	f.c.Save(&buf)

	imported, err := f.c.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported) != 2 || f.c.Graph().Len() != 4 {
		t.Errorf("imported %d, Len = %d", len(imported), f.c.Graph().Len())
	}
	f.mustValidate(t)
	f.c.Undo()
	if f.c.Graph().Len() != 2 {
		t.Errorf("Len after undo = %d", f.c.Graph().Len())
	}
}

func TestSetTextAndElementAt(t *testing.T) {
	f := newFixture(t, false)
	if err := f.c.SetText(f.box, "decide"); err != nil {
		t.Fatal(err)
	}
	if f.el(f.box).Text != "decide" {
		t.Error("text not set")
	}
	f.c.Undo()
	if f.el(f.box).Text != "" {
		t.Error("undo did not restore text")
	}
	if e := f.c.ElementAt(diagram.Pt(120, 130)); e == nil || e.ID != f.box {
		t.Errorf("ElementAt inside box = %v", e)
	}
	if e := f.c.ElementAt(diagram.Pt(500, 500)); e != nil {
		t.Errorf("ElementAt empty space = %v", e.ID)
	}
}
