package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
)

// =============================================================================
// Document API
// =============================================================================

// NewDocument serializes elements into a versioned document.
func NewDocument(elements []*diagram.Element, reg *Registry) (Document, error) {
	records, err := Serialize(elements, reg)
	if err != nil {
		return Document{}, err
	}
	return Document{Version: Version, Records: records}, nil
}

// Elements deserializes the document's records. See [Deserialize].
func (d Document) Elements(reg *Registry) ([]*diagram.Element, Remap, error) {
	if err := d.check(); err != nil {
		return nil, nil, err
	}
	return Deserialize(d.Records, reg)
}

func (d Document) check() error {
	if d.Version > Version {
		return ferrors.New(ferrors.ErrCodeUnsupported, "document version %d is newer than supported version %d", d.Version, Version)
	}
	if d.Version < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid document version %d", d.Version)
	}
	return nil
}

// Marshal serializes elements to indented JSON.
func Marshal(elements []*diagram.Element, reg *Registry) ([]byte, error) {
	doc, err := NewDocument(elements, reg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON produced by Marshal and deserializes it.
func Unmarshal(data []byte, reg *Registry) ([]*diagram.Element, Remap, error) {
	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return doc.Elements(reg)
}

// WriteDocument writes doc as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDocument decodes a JSON document.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// WriteFile writes doc to path with 0644 permissions.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDocument(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a document from path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
