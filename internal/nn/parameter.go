package nn

import (
	"github.com/born-ml/mlp/internal/matrix"
)

// Parameter represents a trainable buffer and its gradient.
//
// The gradient always has the same shape as the value. Layers write the
// gradient during Backward; optimizers read it and update the value.
type Parameter struct {
	name  string         // Parameter name (e.g., "weights", "biases")
	value *matrix.Matrix // The parameter buffer
	grad  *matrix.Matrix // Gradient buffer, same shape as value
}

// NewParameter creates a parameter with a zeroed gradient shaped like value.
func NewParameter(name string, value *matrix.Matrix) (*Parameter, error) {
	grad, err := matrix.NewLike(value)
	if err != nil {
		return nil, err
	}
	return &Parameter{
		name:  name,
		value: value,
		grad:  grad,
	}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter buffer.
func (p *Parameter) Value() *matrix.Matrix {
	return p.value
}

// Grad returns the gradient buffer.
func (p *Parameter) Grad() *matrix.Matrix {
	return p.grad
}

// ZeroGrad fills the gradient with zeros.
func (p *Parameter) ZeroGrad() {
	p.grad.Fill(0)
}
