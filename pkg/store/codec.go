package store

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/persist"
)

func encode(doc persist.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := persist.WriteDocument(&buf, doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (persist.Document, error) {
	doc, err := persist.ReadDocument(bytes.NewReader(data))
	if err != nil {
		return persist.Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
