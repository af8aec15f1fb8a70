package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
)

// stepCache holds the buffers a module keeps between Forward and Backward.
//
// The buffers are sized for one batch shape the first time they are needed
// and reused afterwards. A different shape is rejected until reset releases
// them, so cache invalidation is always explicit.
type stepCache struct {
	inputs  *matrix.Matrix
	outputs *matrix.Matrix
	dinputs *matrix.Matrix
	filled  bool
}

// ensure sizes the buffers for in (inputs, dinputs) and out (outputs).
func (c *stepCache) ensure(op string, in, out matrix.Shape) error {
	if c.inputs != nil {
		if c.inputs.Shape() != in {
			return &matrix.ShapeError{Op: op + " (cached batch, call Reset)", Left: c.inputs.Shape(), Right: in}
		}
		return nil
	}

	inputs, err := matrix.New(in.Rows, in.Cols)
	if err != nil {
		return err
	}
	dinputs, err := matrix.New(in.Rows, in.Cols)
	if err != nil {
		return err
	}
	outputs, err := matrix.New(out.Rows, out.Cols)
	if err != nil {
		return err
	}

	c.inputs, c.dinputs, c.outputs = inputs, dinputs, outputs
	return nil
}

// store copies x into the inputs buffer and marks the cache as filled.
func (c *stepCache) store(op string, x matrix.Operand) error {
	if err := c.inputs.CopyFrom(x); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.filled = true
	return nil
}

// ready reports whether Forward has populated the cache.
func (c *stepCache) ready() bool {
	return c.filled
}

// reset releases every buffer.
func (c *stepCache) reset() {
	for _, m := range []*matrix.Matrix{c.inputs, c.outputs, c.dinputs} {
		if m != nil {
			m.Release()
		}
	}
	c.inputs, c.outputs, c.dinputs = nil, nil, nil
	c.filled = false
}
