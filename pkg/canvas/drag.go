package canvas

import (
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	"github.com/matzehuels/flowdeck/pkg/snap"
)

type dragState struct {
	gesture *snap.Gesture
	grip    diagram.GripKind
	ids     []diagram.ID
	total   diagram.Vector
	steps   int
}

// Dragging reports whether a gesture is open.
func (c *Canvas) Dragging() bool { return c.drag != nil }

// BeginDrag opens a gesture on the selection. grip selects one endpoint of
// a single selected connector; GripNone moves the whole selection.
func (c *Canvas) BeginDrag(grip diagram.GripKind) error {
	if c.drag != nil {
		return ErrDragging
	}
	if len(c.selection) == 0 {
		return ErrNoSelection
	}
	if grip != diagram.GripNone {
		if len(c.selection) != 1 {
			return fmt.Errorf("drag %s: %w: select a single connector", grip, diagram.ErrInvalidGrip)
		}
		e := c.graph.Element(c.selection[0])
		if !e.IsConnector() {
			return fmt.Errorf("drag %s: %w: %s", grip, diagram.ErrNotConnector, e.ID)
		}
		if !grip.IsEndpoint() {
			return fmt.Errorf("drag %s: %w", grip, diagram.ErrInvalidGrip)
		}
	}
	c.drag = &dragState{
		gesture: c.engine.Reset(c.setMarker),
		grip:    grip,
		ids:     c.Selection(),
	}
	return nil
}

// SuppressSnap turns snapping off for the rest of the current gesture.
func (c *Canvas) SuppressSnap() {
	if c.drag != nil {
		c.drag.gesture.Suppress()
	}
}

// Drag applies one step of the gesture and returns the displacement that
// was actually applied, which differs from delta when the step snapped.
func (c *Canvas) Drag(delta diagram.Vector, byKey bool) (diagram.Vector, error) {
	d := c.drag
	if d == nil {
		return diagram.Vector{}, ErrNotDragging
	}
	d.steps++

	var applied diagram.Vector
	apply := func(v diagram.Vector) error {
		if err := c.move(d, v); err != nil {
			return err
		}
		applied = applied.Add(v)
		return nil
	}

	handled, err := c.engine.Check(d.gesture, d.grip, delta, apply, byKey)
	if err != nil {
		return applied, fmt.Errorf("drag: %w", err)
	}
	if !handled {
		if err := apply(delta); err != nil {
			return applied, fmt.Errorf("drag: %w", err)
		}
	}
	d.total = d.total.Add(applied)
	return applied, nil
}

func (c *Canvas) move(d *dragState, v diagram.Vector) error {
	if d.grip != diagram.GripNone {
		return c.graph.MoveGrip(d.ids[0], d.grip, v)
	}
	return c.graph.MoveAll(d.ids, v)
}

// EndDrag closes the gesture. The total movement and the surviving snap
// actions become one undo entry named "Move"; a gesture that changed
// nothing records no entry. It returns the number of snap actions recorded.
func (c *Canvas) EndDrag() (int, error) {
	d := c.drag
	if d == nil {
		return 0, ErrNotDragging
	}
	c.drag = nil

	c.history.Begin("Move")
	n := c.engine.Flush(d.gesture, c.history)
	if total := d.total; !total.IsZero() {
		back := total.Neg()
		c.history.Record("Move",
			func() { c.replayMove(d, total) },
			func() { c.replayMove(d, back) },
		)
	}
	c.history.Commit()
	c.engine.HideConnectionPoints(d.gesture)

	c.logger.Debug("drag end", "steps", d.steps, "delta", d.total, "snaps", n)
	return n, nil
}

func (c *Canvas) replayMove(d *dragState, v diagram.Vector) {
	if err := c.move(d, v); err != nil {
		c.logger.Warn("move replay failed", "ids", d.ids, "grip", d.grip, "err", err)
	}
}

// Nudge moves the selection by delta as one keyboard gesture and returns
// the applied displacement.
func (c *Canvas) Nudge(delta diagram.Vector) (diagram.Vector, error) {
	if err := c.BeginDrag(diagram.GripNone); err != nil {
		return diagram.Vector{}, err
	}
	applied, err := c.Drag(delta, true)
	if _, endErr := c.EndDrag(); err == nil {
		err = endErr
	}
	return applied, err
}
