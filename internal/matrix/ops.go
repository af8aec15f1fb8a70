package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Transpose returns a new matrix with result[j][i] = a[i][j].
func (e *Engine) Transpose(a Operand) (*Matrix, error) {
	src, err := read("transpose", a)
	if err != nil {
		return nil, err
	}

	rows, cols := a.Rows(), a.Cols()
	result, err := New(cols, rows)
	if err != nil {
		return nil, err
	}

	dst := result.data
	e.ForRange(rows, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < cols; j++ {
				dst[j*rows+i] = src[i*cols+j]
			}
		}
	})

	return result, nil
}

// ElementwiseMultiply returns the Hadamard product of a and b.
func (e *Engine) ElementwiseMultiply(a, b Operand) (*Matrix, error) {
	return e.zip("element matrix mult", a, b, floats.MulTo)
}

// ElementwiseAdd returns a + b.
func (e *Engine) ElementwiseAdd(a, b Operand) (*Matrix, error) {
	return e.zip("matrix sum", a, b, floats.AddTo)
}

// zip applies kernel(dst, s, t) over matching ranges of a and b.
func (e *Engine) zip(op string, a, b Operand, kernel func(dst, s, t []float64) []float64) (*Matrix, error) {
	if !SameShape(a, b) {
		return nil, Mismatch(op, a, b)
	}
	x, err := read(op, a)
	if err != nil {
		return nil, err
	}
	y, err := read(op, b)
	if err != nil {
		return nil, err
	}

	result, err := NewLike(a)
	if err != nil {
		return nil, err
	}

	dst := result.data
	e.ForRange(len(dst), func(s, end int) {
		kernel(dst[s:end], x[s:end], y[s:end])
	})

	return result, nil
}

// ScalarAdd returns a + s. With useAbs the absolute value is taken after
// adding, which gives symmetric penalties.
func (e *Engine) ScalarAdd(a Operand, s float64, useAbs bool) (*Matrix, error) {
	src, err := read("matrix scalar sum", a)
	if err != nil {
		return nil, err
	}

	result, err := NewLike(a)
	if err != nil {
		return nil, err
	}

	dst := result.data
	e.ForRange(len(dst), func(start, end int) {
		part := dst[start:end]
		copy(part, src[start:end])
		floats.AddConst(s, part)
		if useAbs {
			for i, v := range part {
				part[i] = math.Abs(v)
			}
		}
	})

	return result, nil
}

// ScalarMultiply scales m by s in place.
func (e *Engine) ScalarMultiply(m *Matrix, s float64) error {
	data, err := read("matrix scalar mult", m)
	if err != nil {
		return err
	}
	e.ForRange(len(data), func(start, end int) {
		floats.Scale(s, data[start:end])
	})
	return nil
}

// Sum returns the sum of all elements of a.
func (e *Engine) Sum(a Operand) (float64, error) {
	data, err := read("matrix sum", a)
	if err != nil {
		return 0, err
	}
	return e.sum(data, floats.Sum), nil
}

// Mean returns the sum of all elements divided by rows*cols.
// The mean of an empty matrix is NaN.
func (e *Engine) Mean(a Operand) (float64, error) {
	data, err := read("matrix mean", a)
	if err != nil {
		return 0, err
	}
	return e.sum(data, floats.Sum) / float64(len(data)), nil
}

// AddRowVector adds the 1×cols vector v to every row of m in place.
func (e *Engine) AddRowVector(m *Matrix, v Operand) error {
	if v.Rows() != 1 || v.Cols() != m.cols {
		return Mismatch("add row vector", m, v)
	}
	dst, err := read("add row vector", m)
	if err != nil {
		return err
	}
	vec, err := read("add row vector", v)
	if err != nil {
		return err
	}

	cols := m.cols
	e.ForRange(m.rows, func(start, end int) {
		for i := start; i < end; i++ {
			floats.Add(dst[i*cols:(i+1)*cols], vec)
		}
	})
	return nil
}

// AddColumnSums adds the column sums of a into the 1×cols matrix dst:
// dst[j] += Σ_i a[i][j].
func (e *Engine) AddColumnSums(dst *Matrix, a Operand) error {
	if dst.rows != 1 || dst.cols != a.Cols() {
		return Mismatch("calculate bias gradients", dst, a)
	}
	out, err := read("calculate bias gradients", dst)
	if err != nil {
		return err
	}
	src, err := read("calculate bias gradients", a)
	if err != nil {
		return err
	}

	rows, cols := a.Rows(), a.Cols()
	e.ForRange(cols, func(start, end int) {
		for j := start; j < end; j++ {
			for i := 0; i < rows; i++ {
				out[j] += src[i*cols+j]
			}
		}
	})
	return nil
}
