package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
)

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // Initial learning rate.
	Decay    float64 // Learning-rate decay per step (0 disables).
	Momentum float64 // Momentum factor, in [0, 1). 0 disables velocity.

	// Engine fans the element loops out (default: matrix.Default()).
	Engine *matrix.Engine
}

// SGD implements Stochastic Gradient Descent with optional momentum for one
// Dense layer.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	schedule
	momentum   float64
	engine     *matrix.Engine
	velocities map[*nn.Parameter]*matrix.Matrix
}

// NewSGD creates a new SGD optimizer.
func NewSGD(cfg SGDConfig) (*SGD, error) {
	if err := validateCommon(cfg.LR, cfg.Decay); err != nil {
		return nil, fmt.Errorf("sgd: %w", err)
	}
	if cfg.Momentum < 0 || cfg.Momentum >= 1 {
		return nil, fmt.Errorf("sgd: momentum must be in [0, 1), got %g", cfg.Momentum)
	}

	return &SGD{
		schedule:   schedule{lr: cfg.LR, decay: cfg.Decay},
		momentum:   cfg.Momentum,
		engine:     engineOrDefault(cfg.Engine),
		velocities: make(map[*nn.Parameter]*matrix.Matrix),
	}, nil
}

// Update applies one SGD step to the layer's weights and biases.
func (s *SGD) Update(layer *nn.Dense) error {
	for _, p := range layer.Parameters() {
		param, grad := p.Value().Data(), p.Grad().Data()

		if s.momentum == 0 {
			s.engine.ForRange(len(param), func(start, end int) {
				floats.AddScaled(param[start:end], -s.lr, grad[start:end])
			})
			continue
		}

		v, err := stateFor(s.velocities, p)
		if err != nil {
			return err
		}
		velocity := v.Data()
		s.engine.ForRange(len(param), func(start, end int) {
			vel := velocity[start:end]
			floats.Scale(s.momentum, vel)
			floats.Add(vel, grad[start:end])
			floats.AddScaled(param[start:end], -s.lr, vel)
		})
	}
	return nil
}

// Velocity returns the velocity buffer of p, or nil without momentum or
// before the first Update.
func (s *SGD) Velocity(p *nn.Parameter) *matrix.Matrix {
	return s.velocities[p]
}
