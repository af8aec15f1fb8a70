// Package optim implements per-layer optimizers for Dense layers.
//
// This package provides:
//   - Optimizer interface: the three-phase update protocol
//   - Adam: Adaptive Moment Estimation with optional bias correction
//   - SGD: Stochastic Gradient Descent with optional momentum
//
// Each optimizer instance belongs to exactly one layer and keeps its own
// iteration count, learning rate and moment buffers. Nothing is shared
// across layers.
//
// Example usage:
//
//	opt, _ := optim.NewAdam(optim.DefaultAdamConfig())
//
//	for step := range steps {
//	    // forward, loss, backward ...
//	    opt.PreUpdate()
//	    if err := opt.Update(layer); err != nil {
//	        return err
//	    }
//	    opt.PostUpdate()
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
)

// Optimizer is the per-layer update protocol.
//
// The call order within one step is mandatory:
// PreUpdate → Update(layer) → PostUpdate.
type Optimizer interface {
	// PreUpdate applies learning-rate decay for the coming step.
	PreUpdate()

	// Update reads the layer's gradients and mutates its weights and
	// biases in place.
	Update(layer *nn.Dense) error

	// PostUpdate advances the iteration counter.
	PostUpdate()

	// LR returns the current (possibly decayed) learning rate.
	LR() float64

	// Iterations returns the number of completed steps.
	Iterations() int
}

// Step runs the full PreUpdate → Update → PostUpdate sequence for layer.
// PostUpdate is skipped when Update fails.
func Step(o Optimizer, layer *nn.Dense) error {
	o.PreUpdate()
	if err := o.Update(layer); err != nil {
		return err
	}
	o.PostUpdate()
	return nil
}

// Kind enumerates the declared optimizers.
type Kind int

// Declared optimizers. AdaGrad and RMSProp report nn.ErrUnsupported.
const (
	SGDKind Kind = iota
	SGDMomentumKind
	AdaGradKind
	RMSPropKind
	AdamKind
)

// String returns the optimizer name.
func (k Kind) String() string {
	switch k {
	case SGDKind:
		return "sgd"
	case SGDMomentumKind:
		return "sgd_momentum"
	case AdaGradKind:
		return "adagrad"
	case RMSPropKind:
		return "rmsprop"
	case AdamKind:
		return "adam"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps an optimizer name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k := SGDKind; k <= AdamKind; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown optimizer %q", s)
}

// Config is the union of optimizer hyperparameters used by New.
// Fields that do not apply to the chosen kind are ignored.
type Config struct {
	LR             float64
	Decay          float64
	Momentum       float64 // SGDMomentumKind only.
	Beta1          float64 // AdamKind only.
	Beta2          float64 // AdamKind only.
	Epsilon        float64 // AdamKind only.
	BiasCorrection bool    // AdamKind only.
	Engine         *matrix.Engine
}

// New builds the optimizer for kind.
func New(kind Kind, cfg Config) (Optimizer, error) {
	switch kind {
	case SGDKind, SGDMomentumKind:
		sgd := SGDConfig{LR: cfg.LR, Decay: cfg.Decay, Engine: cfg.Engine}
		if kind == SGDMomentumKind {
			sgd.Momentum = cfg.Momentum
		}
		o, err := NewSGD(sgd)
		if err != nil {
			return nil, err
		}
		return o, nil
	case AdamKind:
		o, err := NewAdam(AdamConfig{
			LR:             cfg.LR,
			Decay:          cfg.Decay,
			Beta1:          cfg.Beta1,
			Beta2:          cfg.Beta2,
			Epsilon:        cfg.Epsilon,
			BiasCorrection: cfg.BiasCorrection,
			Engine:         cfg.Engine,
		})
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("optimizer %v: %w", kind, nn.ErrUnsupported)
	}
}

// schedule holds the learning rate and iteration counter shared by every
// optimizer.
type schedule struct {
	lr         float64
	decay      float64
	iterations int
}

// PreUpdate decays the learning rate when decay > 0:
//
//	lr = lr * 1 / (1 + decay * iterations)
//
// The decay is applied to the current rate, so it compounds across steps.
func (s *schedule) PreUpdate() {
	if s.decay > 0 {
		s.lr *= 1.0 / (1.0 + s.decay*float64(s.iterations))
	}
}

// PostUpdate advances the iteration counter.
func (s *schedule) PostUpdate() {
	s.iterations++
}

// LR returns the current learning rate.
func (s *schedule) LR() float64 {
	return s.lr
}

// SetLR overrides the current learning rate.
func (s *schedule) SetLR(lr float64) {
	s.lr = lr
}

// Iterations returns the number of completed steps.
func (s *schedule) Iterations() int {
	return s.iterations
}

// stateFor returns the buffer keyed by p in states, allocating a zeroed one
// shaped like p on first use.
func stateFor(states map[*nn.Parameter]*matrix.Matrix, p *nn.Parameter) (*matrix.Matrix, error) {
	if m, ok := states[p]; ok {
		if m.Shape() != p.Value().Shape() {
			return nil, matrix.Mismatch("optimizer state "+p.Name(), m, p.Value())
		}
		return m, nil
	}
	m, err := matrix.NewLike(p.Value())
	if err != nil {
		return nil, fmt.Errorf("optimizer state %s: %w", p.Name(), err)
	}
	states[p] = m
	return m, nil
}

func validateCommon(lr, decay float64) error {
	if lr <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", lr)
	}
	if decay < 0 {
		return fmt.Errorf("decay must be non-negative, got %g", decay)
	}
	return nil
}

func engineOrDefault(e *matrix.Engine) *matrix.Engine {
	if e == nil {
		return matrix.Default()
	}
	return e
}
