package persist

import (
	"sync"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
)

// Codec handles the kind-specific part of a record. The generic fields
// (geometry, style, connections, children) are handled by the package.
type Codec interface {
	// Encode adds kind-specific data to rec. inSet reports whether an ID
	// belongs to the set being serialized; references outside it must be
	// dropped.
	Encode(e *diagram.Element, rec *Record, inSet func(diagram.ID) bool) error

	// Decode restores kind-specific fields from rec onto e and rejects
	// records missing mandatory data.
	Decode(rec *Record, e *diagram.Element) error
}

// Fixer is implemented by codecs that hold references to other elements
// outside connections and children. FinalFixup runs after every element,
// connection and child link has been rebuilt.
type Fixer interface {
	FinalFixup(e *diagram.Element, rec *Record, elements []*diagram.Element, remap Remap) error
}

// Registry maps element kinds to codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewRegistry returns a registry with codecs for the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	for _, k := range []string{diagram.KindBox, diagram.KindEllipse, diagram.KindDiamond, diagram.KindText, diagram.KindGroup} {
		r.codecs[k] = ShapeCodec{}
	}
	r.codecs[diagram.KindCallout] = CalloutCodec{}
	r.codecs[diagram.KindLine] = ConnectorCodec{}
	r.codecs[diagram.KindArrow] = ConnectorCodec{}
	return r
}

// DefaultRegistry is used when nil is passed as a registry.
var DefaultRegistry = NewRegistry()

// Register installs a codec for kind. The kind must also be registered
// with the diagram package for elements of it to be usable.
func (r *Registry) Register(kind string, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[kind] = c
}

// Lookup returns the codec for kind. Kinds known to the diagram package
// but without a codec get the generic shape or connector codec.
func (r *Registry) Lookup(kind string) (Codec, error) {
	k, ok := diagram.LookupKind(kind)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeUnknownKind, "unknown element type %q", kind)
	}
	r.mu.RLock()
	c, ok := r.codecs[kind]
	r.mu.RUnlock()
	switch {
	case ok:
		return c, nil
	case k.Connector:
		return ConnectorCodec{}, nil
	}
	return ShapeCodec{}, nil
}

// ShapeCodec handles kinds with no data beyond the generic fields.
type ShapeCodec struct{}

func (ShapeCodec) Encode(*diagram.Element, *Record, func(diagram.ID) bool) error { return nil }
func (ShapeCodec) Decode(*Record, *diagram.Element) error                        { return nil }

// ConnectorCodec handles lines and arrows. Start and End are mandatory.
// Endpoint bindings come from the shapes' connection records; they are
// also written as internal attributes and checked in the final fixup.
type ConnectorCodec struct{}

func (ConnectorCodec) Encode(e *diagram.Element, rec *Record, inSet func(diagram.ID) bool) error {
	rec.Start = pointRecord(e.Start)
	rec.End = pointRecord(e.End)
	if e.StartShape != diagram.NilID && inSet(e.StartShape) {
		setAttr(rec, attrStartShape, string(e.StartShape))
	}
	if e.EndShape != diagram.NilID && inSet(e.EndShape) {
		setAttr(rec, attrEndShape, string(e.EndShape))
	}
	return nil
}

func (ConnectorCodec) Decode(rec *Record, e *diagram.Element) error {
	if rec.Start == nil || rec.End == nil {
		return ferrors.New(ferrors.ErrCodeInvalidRecord, "connector %s: missing start or end point", rec.ID)
	}
	e.Start = rec.Start.point()
	e.End = rec.End.point()
	e.Rect = diagram.RectFromPoints(e.Start, e.End)
	return nil
}

func (ConnectorCodec) FinalFixup(e *diagram.Element, rec *Record, _ []*diagram.Element, remap Remap) error {
	for _, b := range []struct {
		key  string
		grip diagram.GripKind
	}{{attrStartShape, diagram.GripStart}, {attrEndShape, diagram.GripEnd}} {
		old, ok := rec.Attrs[b.key]
		if !ok {
			continue
		}
		id, ok := remap.Resolve(old)
		if !ok {
			return &BrokenReferenceError{Kind: "endpoint", Owner: rec.ID, Missing: old}
		}
		if err := bindEndpoint(e, b.grip, id); err != nil {
			return err
		}
	}
	return nil
}

// CalloutCodec handles callouts, which point at another element through
// Ref.
type CalloutCodec struct{}

func (CalloutCodec) Encode(e *diagram.Element, rec *Record, inSet func(diagram.ID) bool) error {
	if e.Ref != diagram.NilID && inSet(e.Ref) {
		setAttr(rec, attrRef, string(e.Ref))
	}
	return nil
}

func (CalloutCodec) Decode(*Record, *diagram.Element) error { return nil }

func (CalloutCodec) FinalFixup(e *diagram.Element, rec *Record, _ []*diagram.Element, remap Remap) error {
	old, ok := rec.Attrs[attrRef]
	if !ok {
		return nil
	}
	id, ok := remap.Resolve(old)
	if !ok {
		return &BrokenReferenceError{Kind: "ref", Owner: rec.ID, Missing: old}
	}
	e.Ref = id
	return nil
}

func setAttr(rec *Record, key, value string) {
	if rec.Attrs == nil {
		rec.Attrs = make(map[string]string)
	}
	rec.Attrs[key] = value
}

func isInternalAttr(key string) bool {
	return key == attrRef || key == attrStartShape || key == attrEndShape
}
