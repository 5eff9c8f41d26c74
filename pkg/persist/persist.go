package persist

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/observability"
)

// Serialize converts elements to records in the given order. Connections,
// children and kind-specific references pointing at elements outside the
// list are dropped, so any subset serializes to a self-contained list.
func Serialize(elements []*diagram.Element, reg *Registry) ([]Record, error) {
	start := time.Now()
	if reg == nil {
		reg = DefaultRegistry
	}
	set := make(map[diagram.ID]bool, len(elements))
	for _, e := range elements {
		set[e.ID] = true
	}
	inSet := func(id diagram.ID) bool { return set[id] }

	records := make([]Record, 0, len(elements))
	for _, e := range elements {
		codec, err := reg.Lookup(e.Kind)
		if err != nil {
			return nil, err
		}
		rec := baseRecord(e)
		for _, c := range e.Connections {
			if !inSet(c.To) {
				continue
			}
			rec.Connections = append(rec.Connections, ConnectionRecord{
				ToElementID: string(c.To),
				ToPoint:     gripRecord(c.ToPoint),
				OwnerPoint:  gripRecord(c.OwnerPoint),
			})
		}
		for _, c := range e.Children {
			if inSet(c) {
				rec.Children = append(rec.Children, ChildRecord{ChildID: string(c)})
			}
		}
		if err := codec.Encode(e, &rec, inSet); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidRecord, err, "encode %s", e.ID)
		}
		records = append(records, rec)
	}
	observability.Persist().OnSerialize(len(records), time.Since(start))
	return records, nil
}

func baseRecord(e *diagram.Element) Record {
	visible := e.Visible
	rec := Record{
		Type:        e.Kind,
		ID:          string(e.ID),
		Rect:        rectRecord(e.Rect),
		Visible:     &visible,
		Bookmarked:  e.Bookmarked,
		Text:        e.Text,
		TextColor:   uint32(e.Style.TextColor),
		FillColor:   uint32(e.Style.FillColor),
		BorderColor: uint32(e.Style.BorderColor),
		BorderWidth: e.Style.BorderWidth,
	}
	if e.Style.FontFamily != "" || e.Style.FontSize != 0 || e.Style.Bold || e.Style.Italic {
		rec.Font = &FontRecord{
			Family: e.Style.FontFamily,
			Size:   e.Style.FontSize,
			Bold:   e.Style.Bold,
			Italic: e.Style.Italic,
		}
	}
	if len(e.Attrs) > 0 {
		rec.Attrs = maps.Clone(e.Attrs)
		maps.DeleteFunc(rec.Attrs, func(k, _ string) bool { return isInternalAttr(k) })
	}
	return rec
}

// Deserialize rebuilds elements from records, minting a fresh ID for each
// and rewriting every reference through the returned remap table. The
// elements reference only each other and are returned in record order.
// On any error no elements are returned.
func Deserialize(records []Record, reg *Registry) ([]*diagram.Element, Remap, error) {
	start := time.Now()
	els, remap, err := deserialize(records, reg)
	observability.Persist().OnDeserialize(len(records), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return els, remap, nil
}

func deserialize(records []Record, reg *Registry) ([]*diagram.Element, Remap, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	remap := make(Remap, len(records))
	els := make([]*diagram.Element, len(records))
	codecs := make([]Codec, len(records))

	// Pass 1: instantiate.
	for i := range records {
		rec := &records[i]
		switch {
		case rec.Type == "":
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidRecord, "record %d: missing type", i)
		case rec.ID == "":
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidRecord, "record %d: missing id", i)
		}
		if _, dup := remap[diagram.ID(rec.ID)]; dup {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidRecord, "record %d: duplicate id %s", i, rec.ID)
		}
		codec, err := reg.Lookup(rec.Type)
		if err != nil {
			return nil, nil, err
		}
		e := instantiate(rec)
		if err := codec.Decode(rec, e); err != nil {
			if ferrors.GetCode(err) == "" {
				err = ferrors.Wrap(ferrors.ErrCodeInvalidRecord, err, "record %s", rec.ID)
			}
			return nil, nil, err
		}
		remap[diagram.ID(rec.ID)] = e.ID
		els[i], codecs[i] = e, codec
	}

	byID := make(map[diagram.ID]*diagram.Element, len(els))
	for _, e := range els {
		byID[e.ID] = e
	}

	// Pass 2: connections, owned by the referencing element. A connection
	// to a connector endpoint also binds that endpoint back to the owner.
	for i := range records {
		for _, c := range records[i].Connections {
			if c.ToElementID == "" {
				continue
			}
			to, ok := remap.Resolve(c.ToElementID)
			if !ok {
				return nil, nil, &BrokenReferenceError{Kind: "connection", Owner: records[i].ID, Missing: c.ToElementID}
			}
			conn := diagram.Connection{
				To:         to,
				ToPoint:    c.ToPoint.point(),
				OwnerPoint: c.OwnerPoint.point(),
			}
			els[i].Connections = append(els[i].Connections, conn)
			if target := byID[to]; target.IsConnector() && conn.ToPoint.Grip.IsEndpoint() {
				if err := bindEndpoint(target, conn.ToPoint.Grip, els[i].ID); err != nil {
					return nil, nil, ferrors.Wrap(ferrors.ErrCodeInvalidRecord, err, "record %s", records[i].ID)
				}
			}
		}
	}

	// Pass 3: children.
	for i := range records {
		parent := els[i]
		for _, c := range records[i].Children {
			id, ok := remap.Resolve(c.ChildID)
			if !ok {
				return nil, nil, &BrokenReferenceError{Kind: "child", Owner: records[i].ID, Missing: c.ChildID}
			}
			child := byID[id]
			if child == parent {
				return nil, nil, ferrors.New(ferrors.ErrCodeInvalidRecord, "record %s lists itself as a child", records[i].ID)
			}
			if child.Parent != diagram.NilID {
				return nil, nil, ferrors.New(ferrors.ErrCodeInvalidRecord, "child %s claimed by more than one group", c.ChildID)
			}
			child.Parent = parent.ID
			parent.Children = append(parent.Children, id)
		}
	}

	// Pass 4: final fixups.
	for i := range records {
		f, ok := codecs[i].(Fixer)
		if !ok {
			continue
		}
		if err := f.FinalFixup(els[i], &records[i], els, remap); err != nil {
			if ferrors.GetCode(err) == "" {
				err = ferrors.Wrap(ferrors.ErrCodeInvalidRecord, err, "fixup %s", records[i].ID)
			}
			return nil, nil, err
		}
	}

	// The rebuilt elements must form a consistent graph on their own.
	if err := diagram.New().AddAll(els); err != nil {
		code := ferrors.ErrCodeInvariant
		if errors.Is(err, diagram.ErrCycle) {
			code = ferrors.ErrCodeInvalidRecord
		}
		return nil, nil, ferrors.Wrap(code, err, "inconsistent records")
	}
	return els, remap, nil
}

func instantiate(rec *Record) *diagram.Element {
	e := &diagram.Element{
		ID:         diagram.NewID(),
		Kind:       rec.Type,
		Rect:       rec.Rect.rect(),
		Text:       rec.Text,
		Visible:    rec.IsVisible(),
		Bookmarked: rec.Bookmarked,
		Style: diagram.Style{
			TextColor:   diagram.Color(rec.TextColor),
			FillColor:   diagram.Color(rec.FillColor),
			BorderColor: diagram.Color(rec.BorderColor),
			BorderWidth: rec.BorderWidth,
		},
	}
	if rec.Font != nil {
		e.Style.FontFamily = rec.Font.Family
		e.Style.FontSize = rec.Font.Size
		e.Style.Bold = rec.Font.Bold
		e.Style.Italic = rec.Font.Italic
	}
	for k, v := range rec.Attrs {
		if isInternalAttr(k) {
			continue
		}
		if e.Attrs == nil {
			e.Attrs = make(map[string]string)
		}
		e.Attrs[k] = v
	}
	return e
}

// bindEndpoint binds a connector endpoint to shape. Binding an endpoint
// to a second shape is an error.
func bindEndpoint(e *diagram.Element, grip diagram.GripKind, shape diagram.ID) error {
	if bound := e.Binding(grip); bound != diagram.NilID && bound != shape {
		return fmt.Errorf("%s %s bound to both %s and %s", e.Kind, grip, bound, shape)
	}
	if grip == diagram.GripStart {
		e.StartShape = shape
	} else {
		e.EndShape = shape
	}
	return nil
}
