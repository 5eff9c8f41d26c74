// Package diagram provides the element graph behind a flowchart canvas.
//
// # Overview
//
// A diagram is a flat table of elements keyed by [ID]. Shapes (boxes,
// ellipses, diamonds, groups, callouts) and connectors (lines, arrows) live
// side by side in the same [Graph]. Every cross-reference is stored as an
// identifier rather than a pointer:
//
//   - a shape owns a list of [Connection] values naming the connector bound to it
//   - a connector records which shape each of its endpoints is bound to
//   - a group lists its children by ID and each child names its parent
//
// Connections are naturally cyclic (shape → connector → shape), so the graph
// is always navigated through [Graph.Element] lookups.
//
// # Connection Points
//
// A [ConnectionPoint] pairs a [GripKind] with an absolute coordinate. Points
// are values: they are recomputed from element geometry whenever they are
// needed and compared with ==.
//
//	cp := box.ConnectionPoints()[0]       // TopMiddle of the box
//	if cp == diagram.ConnectionPoint{Grip: diagram.GripTopMiddle, Point: diagram.Pt(50, 0)} {
//	    // same grip at the same place
//	}
//
// # Attach and Detach
//
// [Graph.Attach] binds one connector endpoint to a shape and records the
// matching [Connection] on the shape. [Graph.Detach] undoes both halves.
// Both validate their inputs before touching either element, so a failed
// call never leaves a half-link behind. [Graph.Validate] checks the
// symmetry and the group tree for the whole graph.
//
// # Element Kinds
//
// Kinds are registered by name with [RegisterKind]. The built-in kinds are
// listed in [Builtins]; shape packs register their own at init time.
//
// # Concurrency
//
// Graph is not safe for concurrent use. The canvas mutates it from a single
// event loop.
package diagram
