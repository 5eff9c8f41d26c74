package errors

import (
	"strings"
	"testing"
)

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "flow", false},
		{"with dots", "release-1.2_draft", false},
		{"digits first", "2026.plan", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"traversal", "a..b", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"space", "my flow", true},
		{"colon", "flowdeck:doc", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateDocumentName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "flow.json", false},
		{"valid nested", "docs/diagrams/flow.json", false},
		{"valid absolute", "/tmp/flow.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "png", "dot"); err != nil {
		t.Errorf("ValidateFormat(svg) = %v", err)
	}
	err := ValidateFormat("pdf", "svg", "png")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v, want INVALID_FORMAT", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidRecord,
		ErrCodeInvalidName,
		ErrCodeInvalidPath,
		ErrCodeInvalidFormat,
		ErrCodeUnknownKind,
		ErrCodeBrokenReference,
		ErrCodeInvariant,
		ErrCodeNotFound,
		ErrCodeDocumentNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
