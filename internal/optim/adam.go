package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
)

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR             float64 // Initial learning rate.
	Decay          float64 // Learning-rate decay per step (0 disables).
	Beta1          float64 // First moment coefficient, in [0, 1).
	Beta2          float64 // Second moment coefficient, in [0, 1).
	Epsilon        float64 // Term for numerical stability.
	BiasCorrection bool    // Divide the moments by (1 - beta^(t+1)).

	// Engine fans the element loops out (default: matrix.Default()).
	Engine *matrix.Engine
}

// DefaultAdamConfig returns the hyperparameters of the reference training
// step: lr 0.05, decay 1e-5, betas (0.9, 0.95), epsilon 1e-7, with bias
// correction.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LR:             0.05,
		Decay:          1e-5,
		Beta1:          0.9,
		Beta2:          0.95,
		Epsilon:        1e-7,
		BiasCorrection: true,
	}
}

// Adam implements the Adam (Adaptive Moment Estimation) optimizer for one
// Dense layer.
//
// Update rule, applied element-wise to weights and biases with t the number
// of completed iterations:
//
//	m = beta1 * m + (1-beta1) * gradient
//	m = m / (1 - beta1^(t+1))                  // if bias correction
//	c = beta2 * c + (1-beta2) * gradient²
//	c = c / (1 - beta2^(t+1))                  // if bias correction
//	param = param - lr * m / (sqrt(c) + eps)
//
// The corrected values are stored back into m and c, so they feed the next
// step. Moment buffers are allocated on the first Update and reused for the
// lifetime of the optimizer.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	schedule
	beta1       float64
	beta2       float64
	eps         float64
	correctBias bool
	engine      *matrix.Engine
	momentums   map[*nn.Parameter]*matrix.Matrix
	caches      map[*nn.Parameter]*matrix.Matrix
}

// NewAdam creates a new Adam optimizer. Zero betas are valid and keep no
// history.
func NewAdam(cfg AdamConfig) (*Adam, error) {
	if err := validateCommon(cfg.LR, cfg.Decay); err != nil {
		return nil, fmt.Errorf("adam: %w", err)
	}
	if cfg.Beta1 < 0 || cfg.Beta1 >= 1 || cfg.Beta2 < 0 || cfg.Beta2 >= 1 {
		return nil, fmt.Errorf("adam: betas must be in [0, 1), got (%g, %g)", cfg.Beta1, cfg.Beta2)
	}
	if cfg.Epsilon < 0 {
		return nil, fmt.Errorf("adam: epsilon must be non-negative, got %g", cfg.Epsilon)
	}

	return &Adam{
		schedule:    schedule{lr: cfg.LR, decay: cfg.Decay},
		beta1:       cfg.Beta1,
		beta2:       cfg.Beta2,
		eps:         cfg.Epsilon,
		correctBias: cfg.BiasCorrection,
		engine:      engineOrDefault(cfg.Engine),
		momentums:   make(map[*nn.Parameter]*matrix.Matrix),
		caches:      make(map[*nn.Parameter]*matrix.Matrix),
	}, nil
}

// Update applies one Adam step to the layer's weights and biases using
// DWeights and DBiases.
func (a *Adam) Update(layer *nn.Dense) error {
	// bias_correction = 1 - beta^(t+1)
	correction1, correction2 := 1.0, 1.0
	if a.correctBias {
		correction1 = 1.0 - math.Pow(a.beta1, float64(a.iterations+1))
		correction2 = 1.0 - math.Pow(a.beta2, float64(a.iterations+1))
	}

	for _, p := range layer.Parameters() {
		m, err := stateFor(a.momentums, p)
		if err != nil {
			return err
		}
		c, err := stateFor(a.caches, p)
		if err != nil {
			return err
		}
		a.updateParameter(p, m, c, correction1, correction2)
	}
	return nil
}

// updateParameter performs the Adam update for a single parameter.
func (a *Adam) updateParameter(p *nn.Parameter, m, c *matrix.Matrix, correction1, correction2 float64) {
	param, grad := p.Value().Data(), p.Grad().Data()
	mData, cData := m.Data(), c.Data()
	lr, beta1, beta2, eps := a.lr, a.beta1, a.beta2, a.eps

	a.engine.ForRange(len(param), func(start, end int) {
		for i := start; i < end; i++ {
			g := grad[i]

			mData[i] = beta1*mData[i] + (1.0-beta1)*g
			mData[i] /= correction1

			cData[i] = beta2*cData[i] + (1.0-beta2)*g*g
			cData[i] /= correction2

			param[i] -= lr * mData[i] / (math.Sqrt(cData[i]) + eps)
		}
	})
}

// Momentum returns the first moment buffer of p, or nil before the first
// Update that touched p.
func (a *Adam) Momentum(p *nn.Parameter) *matrix.Matrix {
	return a.momentums[p]
}

// Cache returns the second moment buffer of p, or nil before the first
// Update that touched p.
func (a *Adam) Cache(p *nn.Parameter) *matrix.Matrix {
	return a.caches[p]
}

// Release frees every moment buffer. The next Update starts from zeroed
// moments; the iteration counter and learning rate are kept.
func (a *Adam) Release() {
	for _, states := range []map[*nn.Parameter]*matrix.Matrix{a.momentums, a.caches} {
		for p, m := range states {
			m.Release()
			delete(states, p)
		}
	}
}
