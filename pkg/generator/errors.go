package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON is matched by every ValidationError.
	ErrInvalidJSON = errors.New("assembled template is not valid JSON")
	// ErrUnresolvedMarker is returned when substitution leaves a marker behind.
	ErrUnresolvedMarker = errors.New("unresolved marker")
)

// ValidationError reports an assembled template that failed to parse. The
// unparsed text has been written to DumpPath.
type ValidationError struct {
	Template string
	DumpPath string
	Offset   int64
	Err      error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Template, ErrInvalidJSON, e.Err)
	if e.Offset > 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.DumpPath != "" {
		msg += fmt.Sprintf("; invalid template saved to %s", e.DumpPath)
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidJSON, e.Err}
}
