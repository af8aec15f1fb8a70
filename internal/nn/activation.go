package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
)

// ActivationKind enumerates the declared activation functions.
type ActivationKind int

// Declared activations. Only ReLU and Softmax are implemented.
const (
	ReLUKind ActivationKind = iota
	LeakyReLUKind
	SoftmaxKind
	SigmoidKind
	LinearKind
	TanhKind
)

// String returns the activation name.
func (k ActivationKind) String() string {
	switch k {
	case ReLUKind:
		return "relu"
	case LeakyReLUKind:
		return "leaky_relu"
	case SoftmaxKind:
		return "softmax"
	case SigmoidKind:
		return "sigmoid"
	case LinearKind:
		return "linear"
	case TanhKind:
		return "tanh"
	default:
		return fmt.Sprintf("ActivationKind(%d)", int(k))
	}
}

// Activation is the closed set of activation modules. Only types in this
// package implement it; switch on the concrete type or on Kind.
type Activation interface {
	Module

	// Kind identifies the variant.
	Kind() ActivationKind

	activation()
}

// ActivationConfig holds configuration shared by activation modules.
type ActivationConfig struct {
	Engine *matrix.Engine // Engine for row fan-out (default: matrix.Default()).
}

// NewActivation builds the activation for kind.
func NewActivation(kind ActivationKind, cfg ActivationConfig) (Activation, error) {
	switch kind {
	case ReLUKind:
		return NewReLU(cfg), nil
	case SoftmaxKind:
		return NewSoftmax(cfg), nil
	default:
		return nil, fmt.Errorf("activation %v: %w", kind, ErrUnsupported)
	}
}

func engineOrDefault(e *matrix.Engine) *matrix.Engine {
	if e == nil {
		return matrix.Default()
	}
	return e
}
