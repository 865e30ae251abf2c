package marking

import (
	"errors"
	"fmt"
)

// ErrMalformedFragment is matched by every *MalformedFragmentError.
var ErrMalformedFragment = errors.New("malformed fragment")

// Reasons reported by MalformedFragmentError.
const (
	ReasonMultiLine   = "fragment spans multiple lines"
	ReasonOutOfBounds = "fragment line outside document"
	ReasonInverted    = "fragment starts after it ends"
	ReasonOverlap     = "fragment overlaps or precedes the previous fragment"
)

// MalformedFragmentError reports an input fragment that breaks the
// single-line, ordered, non-overlapping contract of a sparse marking list.
type MalformedFragmentError struct {
	Index  int
	Range  Range
	Reason string
}

// Error implements the error interface.
func (e *MalformedFragmentError) Error() string {
	return fmt.Sprintf("malformed fragment %d %s: %s", e.Index, e.Range, e.Reason)
}

// Is reports whether target is ErrMalformedFragment.
func (e *MalformedFragmentError) Is(target error) bool {
	return target == ErrMalformedFragment
}
