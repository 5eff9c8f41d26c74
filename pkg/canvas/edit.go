package canvas

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

// Add inserts elements as one undo entry and selects them.
func (c *Canvas) Add(els ...*diagram.Element) error {
	if len(els) == 0 {
		return nil
	}
	err := c.mutate("Add", func(g *diagram.Graph) error { return g.AddAll(els) })
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	c.selection = ids(els)
	return nil
}

// SetText changes an element's label.
func (c *Canvas) SetText(id diagram.ID, text string) error {
	return c.mutate("Edit Text", func(g *diagram.Graph) error {
		e := g.Element(id)
		if e == nil {
			return fmt.Errorf("set text: %w: %s", diagram.ErrUnknownElement, id)
		}
		e.Text = text
		return nil
	})
}

// Delete removes the selection together with the members of selected
// groups. It returns the number of elements removed.
func (c *Canvas) Delete() (int, error) {
	if len(c.selection) == 0 {
		return 0, ErrNoSelection
	}
	doomed := c.withDescendants(c.selection)
	err := c.mutate("Delete", func(g *diagram.Graph) error {
		for _, id := range doomed {
			if err := g.Remove(id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	c.selection = nil
	return len(doomed), nil
}

// withDescendants returns ids followed by every group member below them,
// without duplicates, in z-order.
func (c *Canvas) withDescendants(sel []diagram.ID) []diagram.ID {
	want := make(map[diagram.ID]bool)
	for _, id := range sel {
		want[id] = true
		for _, d := range c.graph.Descendants(id) {
			want[d] = true
		}
	}
	var out []diagram.ID
	for _, id := range c.graph.IDs() {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}

// Copy writes the selection, with group members, to the clipboard and
// returns the number of elements copied. Links to elements outside the
// copied set are dropped.
func (c *Canvas) Copy() (int, error) {
	if len(c.selection) == 0 {
		return 0, ErrNoSelection
	}
	var els []*diagram.Element
	for _, id := range c.withDescendants(c.selection) {
		els = append(els, c.graph.Element(id))
	}
	data, err := persist.Marshal(els, c.opts.Registry)
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}
	if err := c.opts.Clipboard.WriteAll(string(data)); err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}
	c.pastes = 0
	return len(els), nil
}

// Cut copies the selection and deletes it.
func (c *Canvas) Cut() (int, error) {
	n, err := c.Copy()
	if err != nil {
		return 0, err
	}
	if _, err := c.Delete(); err != nil {
		return 0, err
	}
	// Pasting a cut lands where the originals were.
	c.pastes = -1
	return n, nil
}

// Paste inserts the clipboard contents with fresh IDs, shifted away from
// the previous paste, and selects the top-level pasted elements.
func (c *Canvas) Paste() ([]diagram.ID, error) {
	text, err := c.opts.Clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	els, _, err := persist.Unmarshal([]byte(text), c.opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	c.pastes++
	off := c.opts.PasteOffset * c.pastes
	if err := c.insert("Paste", els, diagram.Vec(off, off)); err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return c.Selection(), nil
}

// insert adds a deserialized batch shifted by offset as one undo entry and
// selects its top-level elements.
func (c *Canvas) insert(name string, els []*diagram.Element, offset diagram.Vector) error {
	if len(els) == 0 {
		return nil
	}
	staged := diagram.New()
	if err := staged.AddAll(els); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvariant, err, "stage elements")
	}
	if err := staged.MoveAll(topLevel(els), offset); err != nil {
		return err
	}
	if err := c.mutate(name, func(g *diagram.Graph) error { return g.AddAll(els) }); err != nil {
		return err
	}
	c.selection = topLevel(els)
	return nil
}

func topLevel(els []*diagram.Element) []diagram.ID {
	var out []diagram.ID
	for _, e := range els {
		if e.Parent == diagram.NilID {
			out = append(out, e.ID)
		}
	}
	return out
}

func ids(els []*diagram.Element) []diagram.ID {
	out := make([]diagram.ID, len(els))
	for i, e := range els {
		out[i] = e.ID
	}
	return out
}

// GroupSelection wraps the selection in a new group box sized to cover it
// and selects the group.
func (c *Canvas) GroupSelection() (diagram.ID, error) {
	if len(c.selection) == 0 {
		return diagram.NilID, ErrNoSelection
	}
	members := c.Selection()
	var bounds diagram.Rect
	for _, id := range members {
		bounds = bounds.Union(c.graph.Element(id).Rect)
	}
	grp := diagram.NewElement(diagram.KindGroup, bounds.Grow(groupPadding))
	err := c.mutate("Group", func(g *diagram.Graph) error {
		if err := g.Add(grp); err != nil {
			return err
		}
		return g.Group(grp.ID, members...)
	})
	if err != nil {
		return diagram.NilID, fmt.Errorf("group: %w", err)
	}
	c.selection = []diagram.ID{grp.ID}
	return grp.ID, nil
}

// UngroupSelection dissolves every selected group: members are released
// and the group boxes removed. The released members become the selection.
func (c *Canvas) UngroupSelection() ([]diagram.ID, error) {
	var groups []diagram.ID
	for _, id := range c.selection {
		if c.graph.Element(id).IsContainer() {
			groups = append(groups, id)
		}
	}
	if len(groups) == 0 {
		return nil, ErrNoSelection
	}
	var released []diagram.ID
	err := c.mutate("Ungroup", func(g *diagram.Graph) error {
		for _, id := range groups {
			parent := g.Element(id).Parent
			children, err := g.Ungroup(id)
			if err != nil {
				return err
			}
			if parent != diagram.NilID {
				if err := g.Group(parent, children...); err != nil {
					return err
				}
			}
			if err := g.Remove(id); err != nil {
				return err
			}
			released = append(released, children...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ungroup: %w", err)
	}
	c.selection = slices.Clone(released)
	return released, nil
}
