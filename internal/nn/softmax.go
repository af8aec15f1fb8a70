package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/mlp/internal/matrix"
)

// Softmax turns each row into a probability distribution.
//
// Forward subtracts the row maximum before exponentiating, then divides by
// the row sum.
//
// Backward is NOT the general softmax Jacobian. It takes the one-hot target
// matrix Y and returns outputs - Y, which is the gradient of softmax fused
// with categorical cross-entropy with respect to the softmax inputs. It is
// only valid when Softmax is the terminal module and the loss is
// CategoricalCrossEntropy.
type Softmax struct {
	engine *matrix.Engine
	cache  stepCache
}

// NewSoftmax creates a new Softmax activation module.
func NewSoftmax(cfg ActivationConfig) *Softmax {
	return &Softmax{engine: engineOrDefault(cfg.Engine)}
}

// Kind returns SoftmaxKind.
func (s *Softmax) Kind() ActivationKind { return SoftmaxKind }

func (s *Softmax) activation() {}

// Forward computes the row-wise softmax of x.
func (s *Softmax) Forward(x matrix.Operand) error {
	shape := matrix.ShapeOf(x)
	if err := s.cache.ensure("softmax forward", shape, shape); err != nil {
		return err
	}
	if err := s.cache.store("softmax forward", x); err != nil {
		return err
	}
	if shape.Cols == 0 {
		return nil
	}

	cols := shape.Cols
	in, out := s.cache.inputs.Data(), s.cache.outputs.Data()
	s.engine.ForRange(shape.Rows, func(start, end int) {
		for i := start; i < end; i++ {
			row, probs := in[i*cols:(i+1)*cols], out[i*cols:(i+1)*cols]

			maxVal := floats.Max(row)
			for j, v := range row {
				probs[j] = math.Exp(v - maxVal)
			}
			sum := floats.Sum(probs)
			for j := range probs {
				probs[j] /= sum
			}
		}
	})
	return nil
}

// Backward computes dinputs = outputs - y for one-hot targets y.
func (s *Softmax) Backward(y matrix.Operand) error {
	if !s.cache.ready() {
		return fmt.Errorf("softmax backward: %w", ErrNotReady)
	}
	if !matrix.SameShape(s.cache.outputs, y) {
		return matrix.Mismatch("softmax backwards", s.cache.outputs, y)
	}

	target := y.Data()
	if len(target) != y.Rows()*y.Cols() {
		return fmt.Errorf("softmax backwards: %w", matrix.ErrReleased)
	}
	out, din := s.cache.outputs.Data(), s.cache.dinputs.Data()
	s.engine.ForRange(len(out), func(start, end int) {
		floats.SubTo(din[start:end], out[start:end], target[start:end])
	})
	return nil
}

// Outputs returns the row probabilities from the last Forward.
func (s *Softmax) Outputs() *matrix.Matrix { return s.cache.outputs }

// DInputs returns outputs - Y from the last Backward.
func (s *Softmax) DInputs() *matrix.Matrix { return s.cache.dinputs }

// Reset releases the step caches.
func (s *Softmax) Reset() { s.cache.reset() }
