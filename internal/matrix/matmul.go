package matrix

import "github.com/born-ml/mlp/internal/parallel"

// Multiply returns a·b for a (m×k) and b (k×n), producing m×n.
//
// The Sequential strategy uses a straightforward triple loop. The Parallel
// strategy tiles the output in BlockSize×BlockSize blocks; every tile is
// owned by a single goroutine, so no two workers write the same element.
// Results agree up to floating-point summation order.
func (e *Engine) Multiply(a, b Operand) (*Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, Mismatch("matrix mult", a, b)
	}
	x, err := read("matrix mult", a)
	if err != nil {
		return nil, err
	}
	y, err := read("matrix mult", b)
	if err != nil {
		return nil, err
	}

	m, k, n := a.Rows(), a.Cols(), b.Cols()
	result, err := New(m, n)
	if err != nil {
		return nil, err
	}

	if e.strategy == Parallel {
		e.matmulBlocked(result.data, x, y, m, k, n)
	} else {
		matmulNaive(result.data, x, y, m, k, n)
	}

	return result, nil
}

// matmulNaive computes c = a·b with the i-j-k loop order.
func matmulNaive(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += a[i*k+kk] * b[kk*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// matmulBlocked computes c += a·b tile by tile. c must be zeroed.
func (e *Engine) matmulBlocked(c, a, b []float64, m, k, n int) {
	bs := e.blockSize
	rowTiles := (m + bs - 1) / bs
	colTiles := (n + bs - 1) / bs

	parallel.ForGrid(rowTiles, colTiles, func(rt, ct int) {
		i0, j0 := rt*bs, ct*bs
		iEnd, jEnd := min(i0+bs, m), min(j0+bs, n)

		for k0 := 0; k0 < k; k0 += bs {
			kEnd := min(k0+bs, k)
			for i := i0; i < iEnd; i++ {
				for j := j0; j < jEnd; j++ {
					sum := 0.0
					for kk := k0; kk < kEnd; kk++ {
						sum += a[i*k+kk] * b[kk*n+j]
					}
					c[i*n+j] += sum
				}
			}
		}
	}, e.tiles)
}
