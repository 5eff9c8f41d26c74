package diagram

import "fmt"

// GripKind names an attachment location on an element: a corner, an edge
// midpoint, the center, or one end of a connector.
type GripKind int

const (
	GripNone GripKind = iota
	GripTopLeft
	GripTopRight
	GripBottomLeft
	GripBottomRight
	GripLeftMiddle
	GripRightMiddle
	GripTopMiddle
	GripBottomMiddle
	GripStart
	GripEnd
	GripCenter
)

var gripNames = [...]string{
	GripNone:         "None",
	GripTopLeft:      "TopLeft",
	GripTopRight:     "TopRight",
	GripBottomLeft:   "BottomLeft",
	GripBottomRight:  "BottomRight",
	GripLeftMiddle:   "LeftMiddle",
	GripRightMiddle:  "RightMiddle",
	GripTopMiddle:    "TopMiddle",
	GripBottomMiddle: "BottomMiddle",
	GripStart:        "Start",
	GripEnd:          "End",
	GripCenter:       "Center",
}

// Valid reports whether g is one of the declared grip kinds.
func (g GripKind) Valid() bool { return g >= GripNone && g <= GripCenter }

// IsEndpoint reports whether g names a connector endpoint.
func (g GripKind) IsEndpoint() bool { return g == GripStart || g == GripEnd }

// String returns the grip's name, e.g. "TopMiddle".
func (g GripKind) String() string {
	if !g.Valid() {
		return fmt.Sprintf("GripKind(%d)", int(g))
	}
	return gripNames[g]
}

// MarshalText encodes the grip by name so saved files stay readable.
func (g GripKind) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid grip kind %d", int(g))
	}
	return []byte(gripNames[g]), nil
}

// UnmarshalText decodes a grip name written by MarshalText.
func (g *GripKind) UnmarshalText(text []byte) error {
	k, err := ParseGripKind(string(text))
	if err != nil {
		return err
	}
	*g = k
	return nil
}

// ParseGripKind returns the grip kind with the given name.
func ParseGripKind(s string) (GripKind, error) {
	for i, name := range gripNames {
		if name == s {
			return GripKind(i), nil
		}
	}
	return GripNone, fmt.Errorf("%w: %q", ErrInvalidGrip, s)
}

// ConnectionPoint is a grip at an absolute position. It is a value type;
// two points are the same point when both fields are equal.
type ConnectionPoint struct {
	Grip  GripKind
	Point Point
}

// CP is shorthand for ConnectionPoint{Grip: g, Point: p}.
func CP(g GripKind, p Point) ConnectionPoint { return ConnectionPoint{Grip: g, Point: p} }

// Offset returns the same grip moved by v.
func (cp ConnectionPoint) Offset(v Vector) ConnectionPoint {
	return ConnectionPoint{Grip: cp.Grip, Point: cp.Point.Add(v)}
}

func (cp ConnectionPoint) String() string {
	return fmt.Sprintf("%s(%d,%d)", cp.Grip, cp.Point.X, cp.Point.Y)
}

// Connection is held by the shape a connector endpoint is bound to.
// To is the connector, ToPoint the connector's endpoint and OwnerPoint the
// shape's connection point the endpoint sits on.
type Connection struct {
	To         ID
	ToPoint    ConnectionPoint
	OwnerPoint ConnectionPoint
}
