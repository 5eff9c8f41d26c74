package persist

import (
	"fmt"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
)

// BrokenReferenceError reports a saved reference whose target is not in
// the record list.
type BrokenReferenceError struct {
	Kind    string // "connection", "child" or a codec-specific name
	Owner   string // saved ID of the referencing record
	Missing string // saved ID that did not resolve
}

func (e *BrokenReferenceError) Error() string {
	return fmt.Sprintf("broken %s reference: %s -> %s", e.Kind, e.Owner, e.Missing)
}

// Code returns the error code for this error type.
func (e *BrokenReferenceError) Code() ferrors.Code { return ferrors.ErrCodeBrokenReference }
