package snap

import (
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	"github.com/matzehuels/flowdeck/pkg/observability"
)

// Scene is what the engine needs from the canvas.
type Scene interface {
	Graph() *diagram.Graph
	Selection() []diagram.ID
	OnScreen(r diagram.Rect) bool
}

// Recorder receives flushed snap actions. It is satisfied by
// *undo.Stack.
type Recorder interface {
	Record(name string, do, undo func())
}

// MarkerFunc is told when a shape starts or stops showing its connection
// point markers.
type MarkerFunc func(id diagram.ID, visible bool)

// Gesture is the transient state of one drag. Create it with
// [Engine.Reset].
type Gesture struct {
	near       []diagram.ID
	flushed    []Action
	pending    *Action
	suppressed bool
	markers    MarkerFunc
}

// Suppress disables snapping for the rest of the gesture.
func (gs *Gesture) Suppress() { gs.suppressed = true }

// Suppressed reports whether snapping is disabled for this gesture.
func (gs *Gesture) Suppressed() bool { return gs.suppressed }

// Pending returns the action that has not yet been superseded.
func (gs *Gesture) Pending() (Action, bool) {
	if gs.pending == nil {
		return Action{}, false
	}
	return *gs.pending, true
}

// Actions returns every action Flush would record, in order.
func (gs *Gesture) Actions() []Action {
	out := slices.Clone(gs.flushed)
	if gs.pending != nil {
		out = append(out, *gs.pending)
	}
	return out
}

// Near returns the shapes currently showing markers.
func (gs *Gesture) Near() []diagram.ID { return slices.Clone(gs.near) }

// setCurrent buffers a, cancelling the pending action when a undoes it.
func (gs *Gesture) setCurrent(a Action) {
	if gs.pending != nil && gs.pending.cancels(a) {
		gs.pending = nil
		return
	}
	if gs.pending != nil {
		gs.flushed = append(gs.flushed, *gs.pending)
	}
	gs.pending = &a
}

// Engine evaluates snap candidates for the scene's selection.
type Engine struct {
	scene  Scene
	cfg    Config
	logger *log.Logger
}

// NewEngine returns an engine bound to scene. A nil logger uses
// log.Default().
func NewEngine(scene Scene, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{scene: scene, cfg: cfg, logger: logger}
}

// Config returns the engine's tunables.
func (e *Engine) Config() Config { return e.cfg }

// Reset starts a new gesture. markers may be nil.
func (e *Engine) Reset(markers MarkerFunc) *Gesture {
	if markers == nil {
		markers = func(diagram.ID, bool) {}
	}
	return &Gesture{markers: markers}
}

type candidate struct {
	target *diagram.Element
	line   diagram.ConnectionPoint
	near   diagram.ConnectionPoint
	dist   int
}

// Snap evaluates one drag step without touching the graph. grip limits
// the endpoints considered; GripNone considers both. byKey marks discrete
// keyboard input.
func (e *Engine) Snap(gs *Gesture, grip diagram.GripKind, delta diagram.Vector, byKey bool) Action {
	if gs.suppressed {
		return Action{}
	}
	sel := e.scene.Selection()
	if len(sel) != 1 {
		return Action{}
	}
	g := e.scene.Graph()
	conn := g.Element(sel[0])
	if conn == nil || !conn.IsConnector() {
		return Action{}
	}

	var points []diagram.ConnectionPoint
	for _, cp := range conn.ConnectionPoints() {
		if grip == diagram.GripNone || cp.Grip == grip {
			points = append(points, cp)
		}
	}
	near := e.nearElements(g, conn, points)
	e.updateMarkers(gs, near)

	var cands []candidate
	for _, t := range near {
		for _, lp := range points {
			if c, ok := e.closest(t, lp); ok {
				cands = append(cands, c)
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	v := e.cfg.DetachVelocity
	fast := abs(delta.X) >= v || abs(delta.Y) >= v || (byKey && !delta.IsZero())
	for _, c := range cands {
		off := c.near.Point.Sub(c.line.Point)
		if !toward(off, delta) {
			continue
		}
		a := Action{
			Connector:   conn.ID,
			Grip:        c.line.Grip,
			Target:      c.target.ID,
			LinePoint:   c.line,
			TargetPoint: c.near,
		}
		bound := conn.Binding(c.line.Grip)
		switch {
		case bound != diagram.NilID && bound != c.target.ID:
			continue
		case !off.IsZero():
			a.Kind = ActionAttach
			a.Delta = off
		case bound == c.target.ID && fast:
			a.Kind = ActionDetach
			a.Delta = delta
		case bound == c.target.ID:
			a.Kind = ActionAttached
		case fast:
			continue
		default:
			a.Kind = ActionAttach
		}
		return a
	}
	return Action{}
}

// Check runs Snap and carries out the result. For Attach it calls apply
// with the aligning delta and then binds the endpoint; for Detach it
// unbinds first and then applies the drag delta. Attached swallows the
// move. It reports whether the step was handled; when it was not, the
// caller applies the raw delta itself.
func (e *Engine) Check(gs *Gesture, grip diagram.GripKind, delta diagram.Vector, apply func(diagram.Vector) error, byKey bool) (bool, error) {
	a := e.Snap(gs, grip, delta, byKey)
	g := e.scene.Graph()
	switch a.Kind {
	case ActionNone:
		return false, nil
	case ActionAttached:
		e.report(a)
		return true, nil
	case ActionAttach:
		if err := apply(a.Delta); err != nil {
			return true, err
		}
		if err := a.Apply(g); err != nil {
			return true, err
		}
	case ActionDetach:
		if err := a.Apply(g); err != nil {
			return true, err
		}
		if err := apply(a.Delta); err != nil {
			return true, err
		}
	}
	e.report(a)
	gs.setCurrent(a)
	return true, nil
}

func (e *Engine) report(a Action) {
	e.logger.Debug("snap", "action", a.Kind, "connector", a.Connector, "grip", a.Grip, "target", a.Target)
	observability.Snap().OnSnap(a.Kind.String(), string(a.Connector), a.Grip.String(), string(a.Target))
}

// HideConnectionPoints turns off every marker shown during the gesture.
func (e *Engine) HideConnectionPoints(gs *Gesture) {
	for _, id := range gs.near {
		gs.markers(id, false)
	}
	gs.near = nil
}

// Flush records the gesture's surviving actions on rec, oldest first, and
// clears them. It returns the number recorded.
func (e *Engine) Flush(gs *Gesture, rec Recorder) int {
	actions := gs.Actions()
	for _, a := range actions {
		inv := a.Inverse()
		rec.Record(a.Kind.String(),
			func() { e.replay(a) },
			func() { e.replay(inv) },
		)
	}
	gs.flushed, gs.pending = nil, nil
	observability.Snap().OnFlush(len(actions))
	return len(actions)
}

func (e *Engine) replay(a Action) {
	if err := a.Apply(e.scene.Graph()); err != nil {
		e.logger.Warn("snap replay failed", "action", a.Kind, "connector", a.Connector, "err", err)
	}
}

// nearElements returns the visible on-screen shapes, in z-order, whose
// grown bounds contain one of points.
func (e *Engine) nearElements(g *diagram.Graph, self *diagram.Element, points []diagram.ConnectionPoint) []*diagram.Element {
	var out []*diagram.Element
	for _, el := range g.Elements() {
		if el.ID == self.ID || !el.Visible || el.IsConnector() || !e.scene.OnScreen(el.Rect) {
			continue
		}
		if len(el.ConnectionPoints()) == 0 {
			continue
		}
		area := el.Rect.Grow(e.cfg.ElementRange)
		for _, p := range points {
			if area.Contains(p.Point) {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

func (e *Engine) updateMarkers(gs *Gesture, near []*diagram.Element) {
	ids := make([]diagram.ID, len(near))
	for i, el := range near {
		ids[i] = el.ID
	}
	for _, id := range gs.near {
		if !slices.Contains(ids, id) {
			gs.markers(id, false)
		}
	}
	for _, id := range ids {
		if !slices.Contains(gs.near, id) {
			gs.markers(id, true)
		}
	}
	gs.near = ids
}

// closest returns the connection point on t nearest to lp, within range
// on both axes.
func (e *Engine) closest(t *diagram.Element, lp diagram.ConnectionPoint) (candidate, bool) {
	r := e.cfg.ConnectionPointRange
	best := candidate{dist: -1}
	for _, cp := range t.ConnectionPoints() {
		d := cp.Point.Sub(lp.Point)
		if abs(d.X) > r || abs(d.Y) > r {
			continue
		}
		if best.dist < 0 || d.Manhattan() < best.dist {
			best = candidate{target: t, line: lp, near: cp, dist: d.Manhattan()}
		}
	}
	return best, best.dist >= 0
}

// toward reports whether delta moves along off: on each axis the signs
// agree or one of them is zero.
func toward(off, delta diagram.Vector) bool {
	agree := func(a, b int) bool {
		sa, sb := sign(a), sign(b)
		return sa == 0 || sb == 0 || sa == sb
	}
	return agree(off.X, delta.X) && agree(off.Y, delta.Y)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
