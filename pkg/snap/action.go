package snap

import (
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

// ActionKind is the outcome of one snap evaluation.
type ActionKind int

const (
	// ActionNone means no candidate applied; the caller moves normally.
	ActionNone ActionKind = iota
	// ActionAttach binds the endpoint to the target point.
	ActionAttach
	// ActionDetach releases the endpoint from the target.
	ActionDetach
	// ActionAttached means the endpoint is held in place; the move is
	// swallowed and nothing changes.
	ActionAttached
)

// Short names for the kinds, used in switch statements and docs.
const (
	Attach   = ActionAttach
	Detach   = ActionDetach
	Attached = ActionAttached
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "None"
	case ActionAttach:
		return "Attach"
	case ActionDetach:
		return "Detach"
	case ActionAttached:
		return "Attached"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is a reversible snap decision. Delta is the displacement the
// caller should apply to the endpoint instead of the raw drag delta.
type Action struct {
	Kind        ActionKind
	Connector   diagram.ID
	Grip        diagram.GripKind
	Target      diagram.ID
	LinePoint   diagram.ConnectionPoint
	TargetPoint diagram.ConnectionPoint
	Delta       diagram.Vector
}

// Apply performs the graph half of the action. Detaching an endpoint that
// is no longer bound to Target does nothing.
func (a Action) Apply(g *diagram.Graph) error {
	switch a.Kind {
	case ActionAttach:
		return g.Attach(a.Connector, a.Grip, a.Target, a.TargetPoint)
	case ActionDetach:
		c := g.Element(a.Connector)
		if c == nil {
			return fmt.Errorf("%w: %s", diagram.ErrUnknownElement, a.Connector)
		}
		if c.Binding(a.Grip) != a.Target {
			return nil
		}
		_, err := g.Detach(a.Connector, a.Grip)
		return err
	}
	return nil
}

// Inverse returns the action that undoes a.
func (a Action) Inverse() Action {
	inv := a
	inv.Delta = a.Delta.Neg()
	switch a.Kind {
	case ActionAttach:
		inv.Kind = ActionDetach
	case ActionDetach:
		inv.Kind = ActionAttach
	}
	return inv
}

// cancels reports whether b undoes a: opposite kinds on the same
// connector endpoint, target and target point.
func (a Action) cancels(b Action) bool {
	return a.Inverse().Kind == b.Kind &&
		a.Kind != b.Kind &&
		a.Connector == b.Connector &&
		a.Grip == b.Grip &&
		a.Target == b.Target &&
		a.TargetPoint == b.TargetPoint
}

func (a Action) String() string {
	if a.Kind == ActionNone || a.Kind == ActionAttached {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s %s.%s -> %s %s delta=(%d,%d)",
		a.Kind, a.Connector, a.Grip, a.Target, a.TargetPoint, a.Delta.X, a.Delta.Y)
}
