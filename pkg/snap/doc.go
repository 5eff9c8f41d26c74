// Package snap implements magnetic snapping of connector endpoints onto
// shape connection points during a drag.
//
// # Gesture Lifecycle
//
// The canvas drives an [Engine] through one gesture at a time:
//
//	gs := engine.Reset(markers)         // drag start
//	handled, err := engine.Check(gs, grip, delta, apply, byKey)
//	...                                 // once per mouse-move or key press
//	engine.Flush(gs, history)           // drag end: fold actions into undo log
//	engine.HideConnectionPoints(gs)
//
// [Gesture] holds everything that lives for one drag: the set of shapes
// currently showing connection-point markers, the pending snap action and
// the actions already superseded by later ones. Nothing carries over
// between gestures.
//
// # Decisions
//
// On every step the engine looks for shapes whose bounds, grown by
// [Config.ElementRange], contain an endpoint of the single selected
// connector. On each such shape it picks the connection point closest to
// the endpoint (Manhattan distance, within [Config.ConnectionPointRange]
// on both axes). Candidates are tried closest first and the first one the
// drag is moving toward decides the outcome:
//
//   - not yet aligned: [Attach], consuming only the offset needed to align
//   - aligned and bound, slow drag: [Attached], the move is swallowed
//   - aligned and bound, drag at [Config.DetachVelocity] or faster (or
//     any keyboard step): [Detach]
//
// # Undo
//
// Consecutive actions on the same target, endpoint and target point cancel
// out, so attaching and detaching again within one gesture leaves nothing
// in the history. [Engine.Flush] records whatever survives, each as its
// own Attach or Detach step.
package snap
