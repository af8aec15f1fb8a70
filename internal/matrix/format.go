package matrix

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Fprint writes a's dimensions followed by its rows, one per line.
//
//	Dim:(2 x 2)
//	1.000000 2.000000
//	3.000000 4.000000
func Fprint(w io.Writer, a Operand) error {
	data, err := read("print matrix", a)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Dim:%v\n", ShapeOf(a))
	cols := a.Cols()
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < cols; j++ {
			fmt.Fprintf(bw, "%f ", data[i*cols+j])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Dense returns a gonum view sharing m's storage. It returns nil for empty
// or released matrices, which gonum cannot represent.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 || m.Released() {
		return nil
	}
	return mat.NewDense(m.rows, m.cols, m.data)
}

// FromDense copies any gonum matrix into a new Matrix.
func FromDense(d mat.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	m, err := New(r, c)
	if err != nil {
		return nil, err
	}
	if r == 0 || c == 0 {
		return m, nil
	}
	m.Dense().Copy(d)
	return m, nil
}

// String renders the matrix with gonum's formatter.
func (m *Matrix) String() string {
	d := m.Dense()
	if d == nil {
		return fmt.Sprintf("Dim:%v []", m.Shape())
	}
	return fmt.Sprintf("Dim:%v\n%v", m.Shape(), mat.Formatted(d, mat.Squeeze()))
}
