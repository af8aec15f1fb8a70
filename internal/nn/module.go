// Package nn implements the hand-derived layers of the training kernel.
//
// This package provides:
//   - Module interface: forward/backward pair with per-step caches
//   - Parameter: a trainable buffer and its gradient
//   - Dense: fully connected layer with He initialization
//   - Activations: ReLU and Softmax (closed variant set, see ActivationKind)
//   - Loss: categorical and binary cross-entropy
//   - Network: Dense/Activation stages chained forward and backward
//
// There is no autodiff graph: each module derives its own gradients.
// Modules are not safe for concurrent use; callers serialize access.
package nn

import (
	"github.com/born-ml/mlp/internal/matrix"
)

// Module is the base interface for all layers and activations.
//
// Forward caches what Backward needs. Backward receives the gradient of the
// loss with respect to Outputs and stores the gradient with respect to the
// inputs in DInputs.
type Module interface {
	// Forward computes Outputs from x.
	Forward(x matrix.Operand) error

	// Backward computes DInputs from the upstream gradient.
	Backward(grad matrix.Operand) error

	// Outputs returns the result of the last Forward.
	Outputs() *matrix.Matrix

	// DInputs returns the result of the last Backward.
	DInputs() *matrix.Matrix

	// Reset releases the per-step caches so the next Forward may use a
	// different batch size.
	Reset()
}
