package diagram

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidID is returned when an element has an empty ID.
	ErrInvalidID = errors.New("element ID must not be empty")

	// ErrDuplicateID is returned by [Graph.Add] when the ID is already taken.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrUnknownElement is returned when an ID does not resolve to an element
	// in the graph.
	ErrUnknownElement = errors.New("unknown element")

	// ErrInvalidKind is returned for an element or kind with an empty name.
	ErrInvalidKind = errors.New("kind name must not be empty")

	// ErrUnknownKind is returned when an element's kind is not registered.
	ErrUnknownKind = errors.New("unknown element kind")

	// ErrNotConnector is returned when a connector operation names a shape.
	ErrNotConnector = errors.New("element is not a connector")

	// ErrNotTarget is returned when attaching to an element that exposes no
	// connection points, or to another connector.
	ErrNotTarget = errors.New("element cannot be a connection target")

	// ErrNotContainer is returned by [Graph.Group] when the parent kind
	// cannot hold children.
	ErrNotContainer = errors.New("element cannot contain children")

	// ErrInvalidGrip is returned for a grip that does not fit the operation,
	// e.g. attaching a connector by TopLeft.
	ErrInvalidGrip = errors.New("invalid grip")

	// ErrGripBound is returned by [Graph.Attach] when the endpoint is already
	// bound to a different shape.
	ErrGripBound = errors.New("endpoint already bound")

	// ErrCycle is returned when grouping would make an element its own
	// ancestor.
	ErrCycle = errors.New("group hierarchy contains a cycle")

	// ErrAsymmetric is returned by [Graph.Validate] when one side of a link
	// is missing its mirror on the other side.
	ErrAsymmetric = errors.New("asymmetric connection")
)

// Graph is the element table. Elements are keyed by ID and kept in
// z-order (back to front).
type Graph struct {
	elements map[ID]*Element
	order    []ID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{elements: make(map[ID]*Element)}
}

// Len returns the number of elements.
func (g *Graph) Len() int { return len(g.order) }

// Element returns the element with the given ID, or nil.
func (g *Graph) Element(id ID) *Element { return g.elements[id] }

// Has reports whether id names an element in g.
func (g *Graph) Has(id ID) bool {
	_, ok := g.elements[id]
	return ok
}

// Elements returns all elements back to front.
func (g *Graph) Elements() []*Element {
	out := make([]*Element, len(g.order))
	for i, id := range g.order {
		out[i] = g.elements[id]
	}
	return out
}

// IDs returns all element IDs back to front.
func (g *Graph) IDs() []ID { return slices.Clone(g.order) }

// Add inserts a single element. See [Graph.AddAll].
func (g *Graph) Add(e *Element) error { return g.AddAll([]*Element{e}) }

// AddAll inserts a batch of elements that may reference each other and
// existing elements. The batch is validated as a whole once inserted; if
// any link is inconsistent nothing is added.
func (g *Graph) AddAll(els []*Element) error {
	seen := make(map[ID]bool, len(els))
	for _, e := range els {
		switch {
		case e.ID == NilID:
			return ErrInvalidID
		case g.Has(e.ID) || seen[e.ID]:
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		case e.Kind == "":
			return fmt.Errorf("element %s: %w", e.ID, ErrInvalidKind)
		}
		if _, ok := LookupKind(e.Kind); !ok {
			return fmt.Errorf("element %s: %w %q", e.ID, ErrUnknownKind, e.Kind)
		}
		seen[e.ID] = true
	}
	for _, e := range els {
		if e.IsConnector() {
			e.syncRect()
		}
		g.elements[e.ID] = e
		g.order = append(g.order, e.ID)
	}
	for _, e := range els {
		if err := g.validateElement(e); err != nil {
			g.drop(seen)
			return err
		}
	}
	if err := g.checkTree(); err != nil {
		g.drop(seen)
		return err
	}
	return nil
}

func (g *Graph) drop(ids map[ID]bool) {
	for id := range ids {
		delete(g.elements, id)
	}
	g.order = slices.DeleteFunc(g.order, func(id ID) bool { return ids[id] })
}

// Remove deletes an element. Every connection touching it is detached on
// both sides, it leaves its group, and its children become top-level.
func (g *Graph) Remove(id ID) error {
	e := g.elements[id]
	if e == nil {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	if e.IsConnector() {
		for _, grip := range []GripKind{GripStart, GripEnd} {
			if _, err := g.Detach(id, grip); err != nil {
				return err
			}
		}
	}
	for _, c := range e.Connections {
		if conn := g.elements[c.To]; conn != nil && conn.Binding(c.ToPoint.Grip) == id {
			conn.setBinding(c.ToPoint.Grip, NilID)
		}
	}
	e.Connections = nil
	if p := g.elements[e.Parent]; p != nil {
		p.Children = slices.DeleteFunc(p.Children, func(c ID) bool { return c == id })
	}
	for _, c := range e.Children {
		if child := g.elements[c]; child != nil {
			child.Parent = NilID
		}
	}
	delete(g.elements, id)
	g.order = slices.DeleteFunc(g.order, func(o ID) bool { return o == id })
	return nil
}

// Attach binds a connector endpoint to a target shape and records the
// matching connection on the shape. at is the target's connection point;
// the connector side of the link is taken from the endpoint's current
// position. Re-attaching to the same shape replaces the previous entry.
func (g *Graph) Attach(connector ID, grip GripKind, target ID, at ConnectionPoint) error {
	c, err := g.connector(connector, grip)
	if err != nil {
		return err
	}
	t := g.elements[target]
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownElement, target)
	}
	if t.IsConnector() || len(t.ConnectionPoints()) == 0 {
		return fmt.Errorf("%w: %s", ErrNotTarget, target)
	}
	if at.Grip == GripNone || at.Grip.IsEndpoint() || !at.Grip.Valid() {
		return fmt.Errorf("%w: %s on target", ErrInvalidGrip, at.Grip)
	}
	if bound := c.Binding(grip); bound != NilID && bound != target {
		return fmt.Errorf("%w: %s %s -> %s", ErrGripBound, connector, grip, bound)
	}

	conn := Connection{To: connector, ToPoint: CP(grip, c.Endpoint(grip)), OwnerPoint: at}
	if i := t.connectionIndex(connector, grip); i >= 0 {
		t.Connections[i] = conn
	} else {
		t.Connections = append(t.Connections, conn)
	}
	c.setBinding(grip, target)
	return nil
}

// Detach unbinds a connector endpoint and removes the shape's matching
// connection. It reports false when the endpoint was not bound.
func (g *Graph) Detach(connector ID, grip GripKind) (bool, error) {
	c, err := g.connector(connector, grip)
	if err != nil {
		return false, err
	}
	bound := c.Binding(grip)
	if bound == NilID {
		return false, nil
	}
	t := g.elements[bound]
	if t == nil {
		return false, fmt.Errorf("%w: %s %s bound to missing %s", ErrAsymmetric, connector, grip, bound)
	}
	i := t.connectionIndex(connector, grip)
	if i < 0 {
		return false, fmt.Errorf("%w: %s has no entry for %s %s", ErrAsymmetric, bound, connector, grip)
	}
	t.Connections = slices.Delete(t.Connections, i, i+1)
	c.setBinding(grip, NilID)
	return true, nil
}

func (g *Graph) connector(id ID, grip GripKind) (*Element, error) {
	c := g.elements[id]
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	if !c.IsConnector() {
		return nil, fmt.Errorf("%w: %s", ErrNotConnector, id)
	}
	if !grip.IsEndpoint() {
		return nil, fmt.Errorf("%w: %s on connector", ErrInvalidGrip, grip)
	}
	return c, nil
}

// Group makes children members of parent. A child already in another
// group moves to parent.
func (g *Graph) Group(parent ID, children ...ID) error {
	p := g.elements[parent]
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownElement, parent)
	}
	if !p.IsContainer() {
		return fmt.Errorf("%w: %s", ErrNotContainer, parent)
	}
	for _, id := range children {
		if g.elements[id] == nil {
			return fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
		if id == parent || slices.Contains(g.ancestors(parent), id) {
			return fmt.Errorf("%w: %s under %s", ErrCycle, id, parent)
		}
	}
	for _, id := range children {
		child := g.elements[id]
		if child.Parent == parent {
			continue
		}
		if old := g.elements[child.Parent]; old != nil {
			old.Children = slices.DeleteFunc(old.Children, func(c ID) bool { return c == id })
		}
		child.Parent = parent
		p.Children = append(p.Children, id)
	}
	return nil
}

// Ungroup releases every child of parent and returns their IDs.
func (g *Graph) Ungroup(parent ID) ([]ID, error) {
	p := g.elements[parent]
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, parent)
	}
	released := p.Children
	for _, id := range released {
		if child := g.elements[id]; child != nil {
			child.Parent = NilID
		}
	}
	p.Children = nil
	return released, nil
}

func (g *Graph) ancestors(id ID) []ID {
	var out []ID
	for e := g.elements[id]; e != nil && e.Parent != NilID; e = g.elements[e.Parent] {
		if len(out) > len(g.order) {
			break
		}
		out = append(out, e.Parent)
	}
	return out
}

// Descendants returns every element below id in the group tree, depth
// first.
func (g *Graph) Descendants(id ID) []ID {
	var out []ID
	var walk func(ID)
	walk = func(cur ID) {
		e := g.elements[cur]
		if e == nil {
			return
		}
		for _, c := range e.Children {
			if slices.Contains(out, c) {
				continue
			}
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Move is MoveAll with a single element.
func (g *Graph) Move(id ID, delta Vector) error { return g.MoveAll([]ID{id}, delta) }

// MoveAll moves elements by delta. Groups carry their descendants. A
// moving shape drags the endpoints bound to it unless the connector itself
// is moving. Links are kept; stored connection points are refreshed from
// the new geometry.
func (g *Graph) MoveAll(ids []ID, delta Vector) error {
	moving := make(map[ID]bool)
	for _, id := range ids {
		if g.elements[id] == nil {
			return fmt.Errorf("%w: %s", ErrUnknownElement, id)
		}
		moving[id] = true
		for _, d := range g.Descendants(id) {
			moving[d] = true
		}
	}
	if delta.IsZero() {
		return nil
	}

	type endpoint struct {
		id   ID
		grip GripKind
	}
	grips := make(map[endpoint]bool)
	touched := make(map[ID]bool)
	for _, id := range g.order {
		if !moving[id] {
			continue
		}
		e := g.elements[id]
		if e.IsConnector() {
			grips[endpoint{id, GripStart}] = true
			grips[endpoint{id, GripEnd}] = true
			touched[e.StartShape] = true
			touched[e.EndShape] = true
			continue
		}
		e.Rect = e.Rect.Offset(delta)
		touched[id] = true
		for _, c := range e.Connections {
			if !moving[c.To] {
				grips[endpoint{c.To, c.ToPoint.Grip}] = true
			}
		}
	}
	for ep := range grips {
		g.elements[ep.id].moveEndpoint(ep.grip, delta)
	}
	for id := range touched {
		g.refresh(id)
	}
	return nil
}

// MoveGrip moves a single connector endpoint. Bindings are untouched.
func (g *Graph) MoveGrip(id ID, grip GripKind, delta Vector) error {
	c, err := g.connector(id, grip)
	if err != nil {
		return err
	}
	c.moveEndpoint(grip, delta)
	g.refresh(c.Binding(grip))
	return nil
}

// SetEndpoint places a connector endpoint at p.
func (g *Graph) SetEndpoint(id ID, grip GripKind, p Point) error {
	c, err := g.connector(id, grip)
	if err != nil {
		return err
	}
	return g.MoveGrip(id, grip, p.Sub(c.Endpoint(grip)))
}

// refresh recomputes the points stored in a shape's connections.
func (g *Graph) refresh(id ID) {
	e := g.elements[id]
	if e == nil {
		return
	}
	for i, c := range e.Connections {
		if cp, ok := e.ConnectionPoint(c.OwnerPoint.Grip); ok {
			e.Connections[i].OwnerPoint = cp
		}
		if conn := g.elements[c.To]; conn != nil {
			e.Connections[i].ToPoint = CP(c.ToPoint.Grip, conn.Endpoint(c.ToPoint.Grip))
		}
	}
}

// ConnectionCount returns the number of bound connector endpoints.
func (g *Graph) ConnectionCount() int {
	n := 0
	for _, e := range g.elements {
		n += len(e.Connections)
	}
	return n
}

// GroupMemberships returns the number of elements that have a parent.
func (g *Graph) GroupMemberships() int {
	n := 0
	for _, e := range g.elements {
		if e.Parent != NilID {
			n++
		}
	}
	return n
}

// Bounds returns the rectangle covering every visible element.
func (g *Graph) Bounds() Rect {
	var r Rect
	for _, id := range g.order {
		if e := g.elements[id]; e.Visible {
			r = r.Union(e.Rect)
		}
	}
	return r
}

// Clone returns a deep copy of g. IDs are preserved.
func (g *Graph) Clone() *Graph {
	c := &Graph{elements: make(map[ID]*Element, len(g.elements)), order: slices.Clone(g.order)}
	for id, e := range g.elements {
		c.elements[id] = e.Clone()
	}
	return c
}

// Validate checks that every link is mirrored on both sides and that the
// group hierarchy is a tree.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		if err := g.validateElement(g.elements[id]); err != nil {
			return err
		}
	}
	return g.checkTree()
}

func (g *Graph) validateElement(e *Element) error {
	if e.IsConnector() {
		if len(e.Connections) > 0 {
			return fmt.Errorf("%w: connector %s owns connections", ErrAsymmetric, e.ID)
		}
		for _, grip := range []GripKind{GripStart, GripEnd} {
			bound := e.Binding(grip)
			if bound == NilID {
				continue
			}
			t := g.elements[bound]
			if t == nil {
				return fmt.Errorf("%w: %s %s bound to missing %s", ErrAsymmetric, e.ID, grip, bound)
			}
			if t.IsConnector() {
				return fmt.Errorf("%w: %s %s bound to connector %s", ErrNotTarget, e.ID, grip, bound)
			}
			if t.connectionIndex(e.ID, grip) < 0 {
				return fmt.Errorf("%w: %s has no entry for %s %s", ErrAsymmetric, bound, e.ID, grip)
			}
		}
	} else {
		for i, c := range e.Connections {
			conn := g.elements[c.To]
			if conn == nil {
				return fmt.Errorf("%w: %s connected to missing %s", ErrAsymmetric, e.ID, c.To)
			}
			if !conn.IsConnector() || !c.ToPoint.Grip.IsEndpoint() {
				return fmt.Errorf("%w: %s connection to %s", ErrNotConnector, e.ID, c.To)
			}
			if conn.Binding(c.ToPoint.Grip) != e.ID {
				return fmt.Errorf("%w: %s %s not bound back to %s", ErrAsymmetric, c.To, c.ToPoint.Grip, e.ID)
			}
			if e.connectionIndex(c.To, c.ToPoint.Grip) != i {
				return fmt.Errorf("%w: %s lists %s %s twice", ErrAsymmetric, e.ID, c.To, c.ToPoint.Grip)
			}
		}
	}
	if e.Parent != NilID {
		p := g.elements[e.Parent]
		if p == nil || !slices.Contains(p.Children, e.ID) {
			return fmt.Errorf("%w: %s parent %s does not list it", ErrAsymmetric, e.ID, e.Parent)
		}
	}
	for _, c := range e.Children {
		child := g.elements[c]
		if child == nil || child.Parent != e.ID {
			return fmt.Errorf("%w: child %s of %s does not point back", ErrAsymmetric, c, e.ID)
		}
	}
	return nil
}

func (g *Graph) checkTree() error {
	for _, id := range g.order {
		steps := 0
		for e := g.elements[id]; e != nil && e.Parent != NilID; e = g.elements[e.Parent] {
			if e.Parent == id || steps > len(g.order) {
				return fmt.Errorf("%w: %s", ErrCycle, id)
			}
			steps++
		}
	}
	return nil
}
