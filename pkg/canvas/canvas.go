package canvas

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/snap"
	"github.com/matzehuels/flowdeck/pkg/undo"
)

var (
	// ErrNoSelection is returned by commands that act on the selection
	// when nothing is selected.
	ErrNoSelection = errors.New("nothing selected")

	// ErrDragging is returned when a command cannot run during a drag.
	ErrDragging = errors.New("drag in progress")

	// ErrNotDragging is returned by Drag and EndDrag outside a gesture.
	ErrNotDragging = errors.New("no drag in progress")
)

// Default editing tunables.
const (
	DefaultNudgeStep   = 8
	DefaultPasteOffset = 20
	NoPasteOffset      = -1 // paste copies on top of their originals
	groupPadding       = 10
)

// Options configures a Canvas. The zero value is usable.
type Options struct {
	Snap        snap.Config
	NudgeStep   int
	// PasteOffset shifts each successive paste diagonally. Zero means
	// DefaultPasteOffset; NoPasteOffset pastes in place.
	PasteOffset int
	UndoLimit   int
	Clipboard   Clipboard
	Registry    *persist.Registry
	Logger      *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Snap == (snap.Config{}) {
		o.Snap = snap.DefaultConfig()
	}
	if o.NudgeStep <= 0 {
		o.NudgeStep = DefaultNudgeStep
	}
	switch {
	case o.PasteOffset == 0:
		o.PasteOffset = DefaultPasteOffset
	case o.PasteOffset < 0:
		o.PasteOffset = 0
	}
	if o.Clipboard == nil {
		o.Clipboard = &MemoryClipboard{}
	}
	if o.Registry == nil {
		o.Registry = persist.DefaultRegistry
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Canvas is the editing controller for one diagram.
type Canvas struct {
	opts    Options
	logger  *log.Logger
	graph   *diagram.Graph
	engine  *snap.Engine
	history *undo.Stack

	selection []diagram.ID
	viewport  diagram.Rect
	markers   map[diagram.ID]bool
	drag      *dragState
	pastes    int
}

// New returns a canvas editing g. A nil g starts an empty diagram.
func New(g *diagram.Graph, opts Options) *Canvas {
	opts = opts.withDefaults()
	if g == nil {
		g = diagram.New()
	}
	c := &Canvas{
		opts:    opts,
		logger:  opts.Logger,
		graph:   g,
		history: undo.New(opts.UndoLimit),
		markers: make(map[diagram.ID]bool),
	}
	c.engine = snap.NewEngine(c, opts.Snap, opts.Logger)
	return c
}

// Graph returns the diagram being edited. Undo and Load may replace it, so
// callers should not hold on to the result across commands.
func (c *Canvas) Graph() *diagram.Graph { return c.graph }

// Options returns the effective options.
func (c *Canvas) Options() Options { return c.opts }

// NudgeStep is the distance of one keyboard nudge.
func (c *Canvas) NudgeStep() int { return c.opts.NudgeStep }

// =============================================================================
// Selection and viewport
// =============================================================================

// Selection returns the selected IDs in selection order.
func (c *Canvas) Selection() []diagram.ID { return slices.Clone(c.selection) }

// Select replaces the selection. Duplicates are dropped.
func (c *Canvas) Select(ids ...diagram.ID) error {
	var sel []diagram.ID
	for _, id := range ids {
		if !c.graph.Has(id) {
			return fmt.Errorf("select: %w: %s", diagram.ErrUnknownElement, id)
		}
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	c.selection = sel
	return nil
}

// SelectAll selects every element.
func (c *Canvas) SelectAll() { c.selection = c.graph.IDs() }

// ClearSelection empties the selection.
func (c *Canvas) ClearSelection() { c.selection = nil }

// SetViewport sets the visible area. An empty rect means everything is
// visible.
func (c *Canvas) SetViewport(r diagram.Rect) { c.viewport = r }

// Viewport returns the visible area.
func (c *Canvas) Viewport() diagram.Rect { return c.viewport }

// OnScreen reports whether any part of r is inside the viewport.
func (c *Canvas) OnScreen(r diagram.Rect) bool {
	if c.viewport.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return c.viewport.Contains(diagram.Pt(r.X, r.Y))
	}
	return c.viewport.Intersects(r)
}

// ElementAt returns the topmost visible element whose bounds contain p.
func (c *Canvas) ElementAt(p diagram.Point) *diagram.Element {
	els := c.graph.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if e := els[i]; e.Visible && e.Rect.Grow(1).Contains(p) {
			return e
		}
	}
	return nil
}

// VisibleMarkers returns the shapes currently showing connection point
// markers, back to front.
func (c *Canvas) VisibleMarkers() []diagram.ID {
	var out []diagram.ID
	for _, id := range c.graph.IDs() {
		if c.markers[id] {
			out = append(out, id)
		}
	}
	return out
}

func (c *Canvas) setMarker(id diagram.ID, visible bool) {
	if visible {
		c.markers[id] = true
	} else {
		delete(c.markers, id)
	}
}

// =============================================================================
// History
// =============================================================================

// Undo reverts the latest entry and returns its name.
func (c *Canvas) Undo() (string, bool) {
	if c.drag != nil {
		return "", false
	}
	name, ok := c.history.Undo()
	if ok {
		c.pruneSelection()
		c.logger.Debug("undo", "entry", name)
	}
	return name, ok
}

// Redo reapplies the latest undone entry and returns its name.
func (c *Canvas) Redo() (string, bool) {
	if c.drag != nil {
		return "", false
	}
	name, ok := c.history.Redo()
	if ok {
		c.pruneSelection()
		c.logger.Debug("redo", "entry", name)
	}
	return name, ok
}

// CanUndo reports whether Undo has an entry to revert.
func (c *Canvas) CanUndo() bool { return c.drag == nil && c.history.CanUndo() }

// CanRedo reports whether Redo has an entry to reapply.
func (c *Canvas) CanRedo() bool { return c.drag == nil && c.history.CanRedo() }

// History returns the undo entry names, oldest first.
func (c *Canvas) History() []string { return c.history.Names() }

// mutate runs fn on the graph as one undo entry. The entry restores whole
// graph snapshots; fn's changes are rolled back if it fails.
func (c *Canvas) mutate(name string, fn func(g *diagram.Graph) error) error {
	if c.drag != nil {
		return ErrDragging
	}
	before := c.graph.Clone()
	if err := fn(c.graph); err != nil {
		c.graph = before
		c.pruneSelection()
		return err
	}
	after := c.graph.Clone()
	c.history.Record(name,
		func() { c.graph = after.Clone() },
		func() { c.graph = before.Clone() },
	)
	c.logger.Debug("command", "name", name, "elements", c.graph.Len())
	return nil
}

func (c *Canvas) pruneSelection() {
	c.selection = slices.DeleteFunc(c.selection, func(id diagram.ID) bool { return !c.graph.Has(id) })
	for id := range c.markers {
		if !c.graph.Has(id) {
			delete(c.markers, id)
		}
	}
}
