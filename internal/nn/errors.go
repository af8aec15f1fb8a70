package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLabel is reported when a one-hot target row has no true class.
	ErrInvalidLabel = errors.New("no true class found in one hot vectors")

	// ErrUnsupported is reported for declared but unimplemented variants.
	ErrUnsupported = errors.New("not supported yet")

	// ErrNotReady is reported when Backward runs before any Forward.
	ErrNotReady = errors.New("backward called before forward")
)

// LabelError identifies the target row that failed one-hot decoding.
type LabelError struct {
	Row int
}

// Error implements error.
func (e *LabelError) Error() string {
	return fmt.Sprintf("calculate catCE loss: %v (row %d)", ErrInvalidLabel, e.Row)
}

// Unwrap returns ErrInvalidLabel.
func (e *LabelError) Unwrap() error {
	return ErrInvalidLabel
}
