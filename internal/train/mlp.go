package train

import (
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
)

// MLPConfig describes a multilayer perceptron with ReLU hidden stages and a
// Softmax head.
type MLPConfig struct {
	// Widths lists the layer sizes from input to output, e.g. {2, 10, 5}.
	Widths []int

	// Seed initializes every layer. Unless SharedRand is set, each layer
	// gets its own source seeded with Seed, so equally shaped layers start
	// identical.
	Seed       int64
	SharedRand bool

	Regularization nn.Regularization
	BiasGrad       nn.BiasGradPolicy
	Engine         *matrix.Engine
}

// NewMLP builds the network described by cfg.
func NewMLP(cfg MLPConfig) (*nn.Network, error) {
	if len(cfg.Widths) < 2 {
		return nil, fmt.Errorf("mlp: need at least 2 widths, got %d", len(cfg.Widths))
	}

	shared := nn.NewRand(cfg.Seed)
	act := nn.ActivationConfig{Engine: cfg.Engine}
	last := len(cfg.Widths) - 2

	stages := make([]nn.Stage, 0, len(cfg.Widths)-1)
	for i := 0; i <= last; i++ {
		dc := nn.DenseConfig{
			Name:           fmt.Sprintf("dense%d", i+1),
			Inputs:         cfg.Widths[i],
			Neurons:        cfg.Widths[i+1],
			Seed:           cfg.Seed,
			Regularization: cfg.Regularization,
			BiasGrad:       cfg.BiasGrad,
			Engine:         cfg.Engine,
		}
		if cfg.SharedRand {
			dc.Rand = shared
		}
		layer, err := nn.NewDense(dc)
		if err != nil {
			return nil, err
		}

		var a nn.Activation = nn.NewReLU(act)
		if i == last {
			a = nn.NewSoftmax(act)
		}
		stages = append(stages, nn.Stage{Layer: layer, Activation: a})
	}
	return nn.NewNetwork(stages...)
}
