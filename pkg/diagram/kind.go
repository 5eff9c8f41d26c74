package diagram

import (
	"fmt"
	"slices"
	"sync"
)

// Built-in element kinds.
const (
	KindBox     = "box"
	KindEllipse = "ellipse"
	KindDiamond = "diamond"
	KindText    = "text"
	KindGroup   = "group"
	KindCallout = "callout"
	KindLine    = "line"
	KindArrow   = "arrow"
)

// PointSet selects which connection points a kind exposes.
type PointSet int

const (
	// PointsNone exposes no connection points; nothing can attach.
	PointsNone PointSet = iota
	// PointsEdges exposes the four edge midpoints.
	PointsEdges
	// PointsCorners exposes the edge midpoints and the four corners.
	PointsCorners
)

// Kind describes an element kind. Connectors always expose their Start
// and End points and ignore Points.
type Kind struct {
	Name      string
	Connector bool
	Container bool
	Points    PointSet
}

// Builtins lists the kinds registered by this package.
var Builtins = []Kind{
	{Name: KindBox, Points: PointsEdges},
	{Name: KindEllipse, Points: PointsEdges},
	{Name: KindDiamond, Points: PointsEdges},
	{Name: KindText, Points: PointsNone},
	{Name: KindGroup, Container: true, Points: PointsNone},
	{Name: KindCallout, Points: PointsEdges},
	{Name: KindLine, Connector: true},
	{Name: KindArrow, Connector: true},
}

var (
	kindsMu sync.RWMutex
	kinds   = map[string]Kind{}
)

func init() {
	for _, k := range Builtins {
		kinds[k.Name] = k
	}
}

// RegisterKind makes a kind available to the graph and to deserialization.
// Registering an existing name replaces it.
func RegisterKind(k Kind) error {
	if k.Name == "" {
		return fmt.Errorf("register kind: %w", ErrInvalidKind)
	}
	if k.Connector && k.Container {
		return fmt.Errorf("register kind %s: connectors cannot contain children", k.Name)
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[k.Name] = k
	return nil
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	k, ok := kinds[name]
	return k, ok
}

// KindNames returns the registered kind names in sorted order.
func KindNames() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
