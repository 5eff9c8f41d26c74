// Package canvas is the controller between user input and the diagram.
//
// A [Canvas] owns a [diagram.Graph], the current selection, the viewport
// and an undo history. It implements [snap.Scene], so the snap engine reads
// the selection and the visible area straight from it.
//
// # Drag Gestures
//
// A drag is a gesture with three phases:
//
//	c.BeginDrag(diagram.GripEnd)          // mouse down on the arrow's head
//	c.Drag(diagram.Vec(2, 1), false)      // mouse moved
//	c.Drag(diagram.Vec(3, 0), false)
//	c.EndDrag()                           // mouse up
//
// Each Drag step first asks the snap engine whether the dragged endpoint
// should attach to, stay on, or tear off a nearby shape, and otherwise moves
// the selection by the raw delta. EndDrag folds the total movement and every
// snap decision of the gesture into a single undo entry named "Move".
//
// Keyboard input goes through [Canvas.Nudge], which runs a whole gesture in
// one step and marks it as discrete input: any non-zero nudge of an attached
// endpoint pulls it free.
//
// # Commands
//
// Copy, Cut, Paste, Import, Delete, Group and Ungroup are each recorded as
// one undo entry. Load replaces the document and clears the history; a
// document that fails to load leaves the canvas untouched.
//
// A Canvas is not safe for concurrent use.
package canvas
