package matrix

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the engine. Use errors.Is to test for them.
var (
	// ErrShapeMismatch is reported when an operation receives incompatible dimensions.
	ErrShapeMismatch = errors.New("dimensionality mismatch")

	// ErrAllocation is reported when a buffer of the requested size cannot be allocated.
	ErrAllocation = errors.New("memory allocation failed")

	// ErrReleased is reported when an operand's storage has already been released.
	ErrReleased = errors.New("matrix storage released")
)

// ShapeError describes a dimension check that failed inside an operation.
type ShapeError struct {
	Op    string // Operation that detected the mismatch (e.g. "multiply").
	Left  Shape
	Right Shape
}

// Error implements error.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v, got %v and %v", e.Op, ErrShapeMismatch, e.Left, e.Right)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// Mismatch builds a ShapeError for op comparing the shapes of a and b.
func Mismatch(op string, a, b Operand) error {
	return &ShapeError{Op: op, Left: ShapeOf(a), Right: ShapeOf(b)}
}
