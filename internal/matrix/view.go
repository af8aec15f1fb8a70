package matrix

import "fmt"

// View is a borrowed row range of a parent Matrix.
//
// It shares the parent's columns and storage and owns nothing. A View has no
// Release: its lifetime is bounded by the parent, and reading it after the
// parent was released reports ErrReleased.
type View struct {
	parent *Matrix
	start  int
	rows   int
	cols   int
}

// NewView returns a view of numRows rows of parent starting at startRow.
func NewView(parent *Matrix, startRow, numRows int) (*View, error) {
	if startRow < 0 || numRows < 0 || startRow+numRows > parent.rows {
		return nil, fmt.Errorf("view: %w: rows [%d, %d) of %v",
			ErrShapeMismatch, startRow, startRow+numRows, parent.Shape())
	}
	return &View{
		parent: parent,
		start:  startRow,
		rows:   numRows,
		cols:   parent.cols,
	}, nil
}

// Rows returns the number of rows in the view.
func (v *View) Rows() int { return v.rows }

// Cols returns the number of columns (same as the parent's).
func (v *View) Cols() int { return v.cols }

// Shape returns the view dimensions.
func (v *View) Shape() Shape { return Shape{v.rows, v.cols} }

// StartRow returns the parent row the view begins at.
func (v *View) StartRow() int { return v.start }

// Data returns the aliased slice of the parent's storage, or nil when the
// parent's storage no longer covers the view.
func (v *View) Data() []float64 {
	p := v.parent
	if p.cols != v.cols || len(p.data) < (v.start+v.rows)*v.cols {
		return nil
	}
	return p.data[v.start*v.cols : (v.start+v.rows)*v.cols : (v.start+v.rows)*v.cols]
}

// At returns the element at row i, column j of the view. It panics with an
// error wrapping ErrShapeMismatch for an index outside the view, and
// ErrReleased once the parent no longer covers it.
func (v *View) At(i, j int) float64 {
	if i < 0 || i >= v.rows || j < 0 || j >= v.cols {
		panic(fmt.Errorf("view at (%d, %d) of %v: %w", i, j, v.Shape(), ErrShapeMismatch))
	}
	data := v.Data()
	if data == nil {
		panic(fmt.Errorf("view at (%d, %d): %w", i, j, ErrReleased))
	}
	return data[i*v.cols+j]
}
