package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxDocumentNameLength = 128

// documentNameRegex matches names safe to use as file names, SQL keys,
// Redis keys and MongoDB ids alike.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a stored document name.
//
// The rules are deliberately narrow so one name works for every store
// backend:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No ".." sequences
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}
	if len(name) > maxDocumentNameLength {
		return New(ErrCodeInvalidName, "document name too long (max %d characters)", maxDocumentNameLength)
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "document name cannot contain \"..\"")
	}
	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid document name: %q", name)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
