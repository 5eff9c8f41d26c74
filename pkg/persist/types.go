package persist

import (
	"github.com/matzehuels/flowdeck/pkg/diagram"
)

// Version is the document format version written by this package.
const Version = 1

// Internal attribute keys. They are written into the attribute bag by the
// built-in codecs and stripped again on load.
const (
	attrRef        = "_ref"
	attrStartShape = "_start_shape"
	attrEndShape   = "_end_shape"
)

// Document is the top-level saved form of a diagram.
type Document struct {
	Version int      `json:"version" bson:"version"`
	Records []Record `json:"records" bson:"records"`
}

// Record is the flat form of one element.
type Record struct {
	Type        string             `json:"type" bson:"type"`
	ID          string             `json:"id" bson:"id"`
	Rect        RectRecord         `json:"rect" bson:"rect"`
	Start       *PointRecord       `json:"start,omitempty" bson:"start,omitempty"`
	End         *PointRecord       `json:"end,omitempty" bson:"end,omitempty"`
	Visible     *bool              `json:"visible,omitempty" bson:"visible,omitempty"`
	Bookmarked  bool               `json:"bookmarked,omitempty" bson:"bookmarked,omitempty"`
	Text        string             `json:"text,omitempty" bson:"text,omitempty"`
	Font        *FontRecord        `json:"font,omitempty" bson:"font,omitempty"`
	TextColor   uint32             `json:"text_color" bson:"text_color"`
	FillColor   uint32             `json:"fill_color" bson:"fill_color"`
	BorderColor uint32             `json:"border_color" bson:"border_color"`
	BorderWidth int                `json:"border_width" bson:"border_width"`
	Attrs       map[string]string  `json:"attrs,omitempty" bson:"attrs,omitempty"`
	Connections []ConnectionRecord `json:"connections,omitempty" bson:"connections,omitempty"`
	Children    []ChildRecord      `json:"children,omitempty" bson:"children,omitempty"`
}

// IsVisible reports the record's visibility, treating a missing flag as
// visible.
func (r *Record) IsVisible() bool { return r.Visible == nil || *r.Visible }

// RectRecord is a saved rectangle.
type RectRecord struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// PointRecord is a saved point.
type PointRecord struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// FontRecord is a saved font.
type FontRecord struct {
	Family string  `json:"family,omitempty" bson:"family,omitempty"`
	Size   float64 `json:"size,omitempty" bson:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty" bson:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty" bson:"italic,omitempty"`
}

// GripPointRecord is a saved connection point.
type GripPointRecord struct {
	Grip diagram.GripKind `json:"grip" bson:"grip"`
	X    int              `json:"x" bson:"x"`
	Y    int              `json:"y" bson:"y"`
}

// ConnectionRecord is a saved connection owned by the enclosing record.
type ConnectionRecord struct {
	ToElementID string          `json:"to_element_id" bson:"to_element_id"`
	ToPoint     GripPointRecord `json:"to_point" bson:"to_point"`
	OwnerPoint  GripPointRecord `json:"owner_point" bson:"owner_point"`
}

// ChildRecord names a grouped child of the enclosing record.
type ChildRecord struct {
	ChildID string `json:"child_id" bson:"child_id"`
}

// Remap maps saved IDs to the IDs minted during one deserialize call.
type Remap map[diagram.ID]diagram.ID

// Resolve looks up the new ID for a saved one.
func (m Remap) Resolve(old string) (diagram.ID, bool) {
	id, ok := m[diagram.ID(old)]
	return id, ok
}

func rectRecord(r diagram.Rect) RectRecord {
	return RectRecord{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (r RectRecord) rect() diagram.Rect { return diagram.R(r.X, r.Y, r.Width, r.Height) }

func pointRecord(p diagram.Point) *PointRecord { return &PointRecord{X: p.X, Y: p.Y} }

func (p PointRecord) point() diagram.Point { return diagram.Pt(p.X, p.Y) }

func gripRecord(cp diagram.ConnectionPoint) GripPointRecord {
	return GripPointRecord{Grip: cp.Grip, X: cp.Point.X, Y: cp.Point.Y}
}

func (g GripPointRecord) point() diagram.ConnectionPoint {
	return diagram.CP(g.Grip, diagram.Pt(g.X, g.Y))
}
