package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
)

// Stage is one Dense layer followed by its activation.
type Stage struct {
	Layer      *Dense
	Activation Activation
}

// Network chains stages forward and backward.
//
// Example:
//
//	net, err := nn.NewNetwork(
//	    nn.Stage{Layer: hidden, Activation: nn.NewReLU(cfg)},
//	    nn.Stage{Layer: output, Activation: nn.NewSoftmax(cfg)},
//	)
//
//	probs, err := net.Forward(x)
//	err = net.Backward(y) // y is handed to the terminal Softmax
//
// This is equivalent to:
//
//	hidden.Forward(x); relu.Forward(hidden.Outputs())
//	output.Forward(relu.Outputs()); softmax.Forward(output.Outputs())
//	softmax.Backward(y); output.Backward(softmax.DInputs())
//	relu.Backward(output.DInputs()); hidden.Backward(relu.DInputs())
type Network struct {
	stages []Stage
}

// NewNetwork validates that consecutive stages have matching widths.
func NewNetwork(stages ...Stage) (*Network, error) {
	if len(stages) == 0 {
		return nil, errors.New("network: no stages")
	}
	for i, s := range stages {
		if s.Layer == nil || s.Activation == nil {
			return nil, fmt.Errorf("network: stage %d is incomplete", i)
		}
		if i > 0 && stages[i-1].Layer.OutFeatures() != s.Layer.InFeatures() {
			return nil, fmt.Errorf("network: stage %d expects %d inputs, previous stage has %d neurons: %w",
				i, s.Layer.InFeatures(), stages[i-1].Layer.OutFeatures(), matrix.ErrShapeMismatch)
		}
	}
	return &Network{stages: stages}, nil
}

// Forward runs x through every stage and returns the final activation output.
func (n *Network) Forward(x matrix.Operand) (*matrix.Matrix, error) {
	in := x
	for i, s := range n.stages {
		if err := s.Layer.Forward(in); err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		if err := s.Activation.Forward(s.Layer.Outputs()); err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		in = s.Activation.Outputs()
	}
	return n.Output(), nil
}

// Backward propagates from the terminal activation down to the first layer.
// targets is handed to the terminal activation's Backward, which for the
// Softmax + categorical cross-entropy pairing yields outputs - targets.
func (n *Network) Backward(targets matrix.Operand) error {
	grad := targets
	for i := len(n.stages) - 1; i >= 0; i-- {
		s := n.stages[i]
		if err := s.Activation.Backward(grad); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		if err := s.Layer.Backward(s.Activation.DInputs()); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		grad = s.Layer.DInputs()
	}
	return nil
}

// Output returns the final activation output of the last Forward.
func (n *Network) Output() *matrix.Matrix {
	return n.stages[len(n.stages)-1].Activation.Outputs()
}

// Layers returns the Dense layers in order.
func (n *Network) Layers() []*Dense {
	layers := make([]*Dense, len(n.stages))
	for i, s := range n.stages {
		layers[i] = s.Layer
	}
	return layers
}

// Stages returns the stages in order.
func (n *Network) Stages() []Stage {
	return n.stages
}

// Len returns the number of stages.
func (n *Network) Len() int {
	return len(n.stages)
}

// Reset releases every stage's step caches.
func (n *Network) Reset() {
	for _, s := range n.stages {
		s.Layer.Reset()
		s.Activation.Reset()
	}
}
