// Package matrix implements the dense row-major float64 buffers and the
// linear-algebra primitives used by the training kernel.
//
// A Matrix exclusively owns its storage. A View aliases a row range of a
// parent Matrix and owns nothing: it has no Release method, so its storage
// can only go away together with the parent's.
//
// Every operation that produces a new shape allocates its result. All
// dimension checks report a *ShapeError wrapping ErrShapeMismatch.
package matrix

import (
	"fmt"
	"math"
)

// Shape is a (rows x cols) pair.
type Shape struct {
	Rows int
	Cols int
}

// String formats the shape as "(rows x cols)".
func (s Shape) String() string {
	return fmt.Sprintf("(%d x %d)", s.Rows, s.Cols)
}

// NumElements returns rows*cols.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Operand is anything the engine can read from: an owned Matrix or a View.
//
// Data returns the row-major storage of exactly Rows()*Cols() elements, or
// nil when the underlying storage has been released.
type Operand interface {
	Rows() int
	Cols() int
	Data() []float64
}

// ShapeOf returns the shape of an operand.
func ShapeOf(a Operand) Shape {
	return Shape{Rows: a.Rows(), Cols: a.Cols()}
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Operand) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols()
}

// Matrix is a dense row-major buffer that owns its storage.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// maxElements bounds a single allocation to what an int-indexed slice of
// float64 can address.
const maxElements = math.MaxInt / 8

// New allocates a zero-filled rows×cols matrix.
func New(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 || (cols > 0 && rows > maxElements/cols) {
		return nil, fmt.Errorf("%w: expected dim size %v", ErrAllocation, Shape{rows, cols})
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}, nil
}

// NewLike allocates a zero-filled matrix with the shape of a.
func NewLike(a Operand) (*Matrix, error) {
	return New(a.Rows(), a.Cols())
}

// FromSlice creates a rows×cols matrix holding a copy of data.
func FromSlice(rows, cols int, data []float64) (*Matrix, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("from slice: %w: %d elements for shape %v",
			ErrShapeMismatch, len(data), Shape{rows, cols})
	}
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	copy(m.data, data)
	return m, nil
}

// FromRows creates a matrix from a slice of equally sized rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0)
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("from rows: %w: row %d has %d columns, want %d",
				ErrShapeMismatch, i, len(r), cols)
		}
		copy(m.data[i*cols:], r)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns the matrix dimensions.
func (m *Matrix) Shape() Shape { return Shape{m.rows, m.cols} }

// Data returns the backing storage (zero-copy). Nil after Release.
func (m *Matrix) Data() []float64 { return m.data }

// Released reports whether the storage has been released.
func (m *Matrix) Released() bool {
	return m.data == nil && m.rows*m.cols > 0
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Row returns row i as a slice aliasing the storage.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Fill overwrites every element with v.
func (m *Matrix) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Release drops the storage. Calling it again is a no-op.
// Views over a released matrix report ErrReleased when read.
func (m *Matrix) Release() {
	m.data = nil
}

// ReplaceWith releases m's current storage and takes over next's storage and
// shape. next is left released.
func (m *Matrix) ReplaceWith(next *Matrix) {
	if next == m {
		return
	}
	m.Release()
	m.rows, m.cols, m.data = next.rows, next.cols, next.data
	next.Release()
}

// CopyFrom copies a's elements into m. Shapes must match.
func (m *Matrix) CopyFrom(a Operand) error {
	if !SameShape(m, a) {
		return Mismatch("copy", m, a)
	}
	src, err := read("copy", a)
	if err != nil {
		return err
	}
	if _, err := read("copy", m); err != nil {
		return err
	}
	copy(m.data, src)
	return nil
}

// Clone returns an owned copy of a.
func Clone(a Operand) (*Matrix, error) {
	src, err := read("clone", a)
	if err != nil {
		return nil, err
	}
	return FromSlice(a.Rows(), a.Cols(), src)
}

// read returns a's storage, or ErrReleased when it is gone.
func read(op string, a Operand) ([]float64, error) {
	data := a.Data()
	if len(data) != a.Rows()*a.Cols() {
		return nil, fmt.Errorf("%s: %w", op, ErrReleased)
	}
	return data, nil
}
