package canvas

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard carries copied elements as serialized text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *MemoryClipboard) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *MemoryClipboard) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// ErrClipboardUnsupported is returned by SystemClipboard when no clipboard
// utility is available (xclip, xsel, wl-clipboard, pbcopy).
var ErrClipboardUnsupported = errors.New("system clipboard unsupported")

// SystemClipboard uses the operating system clipboard, so copied elements
// can be pasted into another flowdeck process.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
