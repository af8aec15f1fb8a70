package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Backward passes the upstream gradient where the cached input is strictly
// positive and zero elsewhere, so an input of exactly 0 gets gradient 0.
type ReLU struct {
	engine *matrix.Engine
	cache  stepCache
}

// NewReLU creates a new ReLU activation module.
func NewReLU(cfg ActivationConfig) *ReLU {
	return &ReLU{engine: engineOrDefault(cfg.Engine)}
}

// Kind returns ReLUKind.
func (r *ReLU) Kind() ActivationKind { return ReLUKind }

func (r *ReLU) activation() {}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(x matrix.Operand) error {
	shape := matrix.ShapeOf(x)
	if err := r.cache.ensure("relu forward", shape, shape); err != nil {
		return err
	}
	if err := r.cache.store("relu forward", x); err != nil {
		return err
	}

	in, out := r.cache.inputs.Data(), r.cache.outputs.Data()
	r.engine.ForRange(len(in), func(start, end int) {
		for i := start; i < end; i++ {
			if in[i] <= 0 {
				out[i] = 0
			} else {
				out[i] = in[i]
			}
		}
	})
	return nil
}

// Backward masks grad with the sign of the cached input.
func (r *ReLU) Backward(grad matrix.Operand) error {
	if !r.cache.ready() {
		return fmt.Errorf("relu backward: %w", ErrNotReady)
	}
	if !matrix.SameShape(r.cache.inputs, grad) {
		return matrix.Mismatch("backwards relu", r.cache.inputs, grad)
	}

	g := grad.Data()
	if len(g) != grad.Rows()*grad.Cols() {
		return fmt.Errorf("backwards relu: %w", matrix.ErrReleased)
	}
	in, din := r.cache.inputs.Data(), r.cache.dinputs.Data()
	r.engine.ForRange(len(in), func(start, end int) {
		for i := start; i < end; i++ {
			if in[i] > 0 {
				din[i] = g[i]
			} else {
				din[i] = 0
			}
		}
	})
	return nil
}

// Outputs returns max(0, x) from the last Forward.
func (r *ReLU) Outputs() *matrix.Matrix { return r.cache.outputs }

// DInputs returns the masked gradient from the last Backward.
func (r *ReLU) DInputs() *matrix.Matrix { return r.cache.dinputs }

// Reset releases the step caches.
func (r *ReLU) Reset() { r.cache.reset() }
