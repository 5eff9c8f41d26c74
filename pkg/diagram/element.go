package diagram

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// ID identifies an element within a graph. IDs are opaque strings; new
// ones come from [NewID].
type ID string

// NilID is the empty identifier. It never names an element.
const NilID ID = ""

// NewID mints a fresh random identifier.
func NewID() ID { return ID(uuid.NewString()) }

// Color is a 32-bit ARGB value, alpha in the high byte.
type Color uint32

// ARGB packs four channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return ARGB(0xff, r, g, b) }

// Channels unpacks c into alpha, red, green and blue.
func (c Color) Channels() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns c as "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	_, r, g, b := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Common colors.
const (
	Black       Color = 0xff000000
	White       Color = 0xffffffff
	Transparent Color = 0x00000000
)

// Style holds the visual attributes that persist with an element.
type Style struct {
	FontFamily  string
	FontSize    float64
	Bold        bool
	Italic      bool
	TextColor   Color
	FillColor   Color
	BorderColor Color
	BorderWidth int
}

// DefaultStyle is applied by [NewElement] and [NewConnector].
var DefaultStyle = Style{
	FontFamily:  "Go Mono",
	FontSize:    10,
	TextColor:   Black,
	FillColor:   White,
	BorderColor: Black,
	BorderWidth: 1,
}

// Element is one node of the diagram graph.
//
// Shapes use Rect and Connections. Connectors use Start and End; their Rect
// is kept equal to the box spanned by the two endpoints, and StartShape and
// EndShape name the shape each endpoint is bound to (NilID when free).
// Every reference is an [ID] resolved through the owning [Graph].
type Element struct {
	ID   ID
	Kind string
	Rect Rect

	Start      Point
	End        Point
	StartShape ID
	EndShape   ID

	Connections []Connection
	Parent      ID
	Children    []ID

	// Ref is a typed pointer to another element, used by callouts.
	Ref ID

	Text       string
	Style      Style
	Visible    bool
	Bookmarked bool

	// Attrs carries kind-specific extension data.
	Attrs map[string]string
}

// NewElement returns a visible shape of the given kind with a fresh ID.
func NewElement(kind string, r Rect) *Element {
	return &Element{
		ID:      NewID(),
		Kind:    kind,
		Rect:    r,
		Style:   DefaultStyle,
		Visible: true,
	}
}

// NewConnector returns a free connector of the given kind running from
// start to end.
func NewConnector(kind string, start, end Point) *Element {
	e := &Element{
		ID:      NewID(),
		Kind:    kind,
		Start:   start,
		End:     end,
		Style:   DefaultStyle,
		Visible: true,
	}
	e.syncRect()
	return e
}

// IsConnector reports whether e's kind is a registered connector kind.
func (e *Element) IsConnector() bool {
	k, ok := LookupKind(e.Kind)
	return ok && k.Connector
}

// IsContainer reports whether e's kind can hold children.
func (e *Element) IsContainer() bool {
	k, ok := LookupKind(e.Kind)
	return ok && k.Container
}

// ConnectionPoints returns the points other elements can snap to, or, for
// a connector, its two endpoints.
func (e *Element) ConnectionPoints() []ConnectionPoint {
	k, ok := LookupKind(e.Kind)
	if !ok {
		return nil
	}
	if k.Connector {
		return []ConnectionPoint{CP(GripStart, e.Start), CP(GripEnd, e.End)}
	}
	if k.Points == PointsNone {
		return nil
	}
	r := e.Rect
	c := r.Center()
	pts := []ConnectionPoint{
		CP(GripTopMiddle, Pt(c.X, r.Y)),
		CP(GripBottomMiddle, Pt(c.X, r.Bottom())),
		CP(GripLeftMiddle, Pt(r.X, c.Y)),
		CP(GripRightMiddle, Pt(r.Right(), c.Y)),
	}
	if k.Points == PointsCorners {
		pts = append(pts,
			CP(GripTopLeft, Pt(r.X, r.Y)),
			CP(GripTopRight, Pt(r.Right(), r.Y)),
			CP(GripBottomLeft, Pt(r.X, r.Bottom())),
			CP(GripBottomRight, Pt(r.Right(), r.Bottom())),
		)
	}
	return pts
}

// ConnectionPoint returns the current position of grip on e.
func (e *Element) ConnectionPoint(grip GripKind) (ConnectionPoint, bool) {
	for _, cp := range e.ConnectionPoints() {
		if cp.Grip == grip {
			return cp, true
		}
	}
	return ConnectionPoint{}, false
}

// Endpoint returns the position of a connector endpoint.
func (e *Element) Endpoint(grip GripKind) Point {
	if grip == GripEnd {
		return e.End
	}
	return e.Start
}

// Binding returns the shape a connector endpoint is bound to.
func (e *Element) Binding(grip GripKind) ID {
	switch grip {
	case GripStart:
		return e.StartShape
	case GripEnd:
		return e.EndShape
	}
	return NilID
}

// Clone returns a deep copy of e with the same ID.
func (e *Element) Clone() *Element {
	c := *e
	c.Connections = slices.Clone(e.Connections)
	c.Children = slices.Clone(e.Children)
	c.Attrs = maps.Clone(e.Attrs)
	return &c
}

// Label returns the element's text, or its kind when it has none.
func (e *Element) Label() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Kind
}

func (e *Element) setBinding(grip GripKind, id ID) {
	if grip == GripEnd {
		e.EndShape = id
	} else {
		e.StartShape = id
	}
}

func (e *Element) moveEndpoint(grip GripKind, v Vector) {
	if grip == GripEnd {
		e.End = e.End.Add(v)
	} else {
		e.Start = e.Start.Add(v)
	}
	e.syncRect()
}

func (e *Element) syncRect() { e.Rect = RectFromPoints(e.Start, e.End) }

func (e *Element) connectionIndex(connector ID, grip GripKind) int {
	return slices.IndexFunc(e.Connections, func(c Connection) bool {
		return c.To == connector && c.ToPoint.Grip == grip
	})
}
