package anns

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional
// information necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned by the classifiers.
var (
	ErrNilData    = Error{"Data matrix is nil"}
	ErrEmptyData  = Error{"Data matrix has no rows"}
	ErrNotTrained = Error{"Classifier has not been trained"}
)

// SizeMismatchError documents errors resulting from two matrices whose dimensions are
// incompatible with the operation requested, e.g. an input matrix whose row count
// differs from that of the target matrix. It is always returned before any weights
// have been touched.
type SizeMismatchError struct {
	Expected, Got int

	// What names the dimension that did not match, e.g. "target rows"
	What string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Dimension mismatch for %s: expected %d, got %d", err.What, err.Expected, err.Got)
}

// NonFiniteError documents a NaN or infinity discovered in a weight matrix during
// training. It terminates the run; each epoch is deterministic given current state,
// so retrying the same inputs would reproduce the same value.
type NonFiniteError struct {
	// What names the matrix the value was found in
	What string

	// Epoch is the epoch after which the value was discovered
	Epoch int
}

func (err NonFiniteError) Error() string {
	return fmt.Sprintf("Non-finite value in %s after epoch %d", err.What, err.Epoch)
}
