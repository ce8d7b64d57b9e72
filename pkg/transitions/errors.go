package transitions

import (
	"errors"
	"fmt"
)

// ErrUnknown marks lookups of operation ids the catalog has never seen.
var ErrUnknown = errors.New("transitions: unknown transition")

// ResolutionError reports an operation whose request body schema could not
// be resolved. The catalog records it against that operation and keeps
// building, so one bad reference poisons a single transition rather than the
// whole catalog.
type ResolutionError struct {
	OperationID string
	Ref         string
	Err         error
}

func (e *ResolutionError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("transitions: operation %q: unresolvable schema %q: %v", e.OperationID, e.Ref, e.Err)
	}
	return fmt.Sprintf("transitions: operation %q: %v", e.OperationID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// MissingPlaceholderError reports an href placeholder with no matching
// context entry during Resolve. It always propagates; a document must never
// carry a raw placeholder.
type MissingPlaceholderError struct {
	OperationID string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("transitions: operation %q: no context value for placeholder %q", e.OperationID, e.Placeholder)
}
