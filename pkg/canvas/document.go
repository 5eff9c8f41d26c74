package canvas

import (
	"fmt"
	"io"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

// Document serializes the whole diagram.
func (c *Canvas) Document() (persist.Document, error) {
	return persist.NewDocument(c.graph.Elements(), c.opts.Registry)
}

// Save writes the diagram as an indented JSON document.
func (c *Canvas) Save(w io.Writer) error {
	doc, err := c.Document()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := persist.WriteDocument(w, doc); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Load replaces the diagram with the document read from r and clears the
// selection and history. On failure the canvas is left untouched.
func (c *Canvas) Load(r io.Reader) error {
	doc, err := persist.ReadDocument(r)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return c.LoadDocument(doc)
}

// LoadDocument is Load for an already decoded document.
func (c *Canvas) LoadDocument(doc persist.Document) error {
	if c.drag != nil {
		return ErrDragging
	}
	els, _, err := doc.Elements(c.opts.Registry)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	g := diagram.New()
	if err := g.AddAll(els); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvariant, err, "load")
	}
	c.graph = g
	c.selection = nil
	c.markers = make(map[diagram.ID]bool)
	c.pastes = 0
	c.history.Clear()
	c.logger.Debug("document loaded", "elements", g.Len(), "connections", g.ConnectionCount())
	return nil
}

// Import merges the document read from r into the diagram as one undo
// entry and selects the imported top-level elements.
func (c *Canvas) Import(r io.Reader) ([]diagram.ID, error) {
	doc, err := persist.ReadDocument(r)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return c.ImportDocument(doc)
}

// ImportDocument is Import for an already decoded document.
func (c *Canvas) ImportDocument(doc persist.Document) ([]diagram.ID, error) {
	els, _, err := doc.Elements(c.opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if err := c.insert("Import", els, diagram.Vector{}); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return c.Selection(), nil
}
