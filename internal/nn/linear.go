package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/mlp/internal/matrix"
)

// BiasGradPolicy selects how Backward treats the existing bias gradient.
type BiasGradPolicy int

const (
	// ResetBiasGrad zeroes dbiases before summing the batch gradient.
	ResetBiasGrad BiasGradPolicy = iota

	// AccumulateBiasGrad adds each batch's column sums onto the previous
	// dbiases, accumulating across calls until ZeroGrad.
	AccumulateBiasGrad
)

// String returns the policy name.
func (p BiasGradPolicy) String() string {
	switch p {
	case ResetBiasGrad:
		return "reset"
	case AccumulateBiasGrad:
		return "accumulate"
	default:
		return fmt.Sprintf("BiasGradPolicy(%d)", int(p))
	}
}

// Regularization configures the L1/L2 penalty gradients of a Dense layer.
type Regularization struct {
	Enabled bool    // Add penalty gradients during Backward.
	L1      float64 // L1 coefficient (lambda_l1).
	L2      float64 // L2 coefficient (lambda_l2).
}

// DefaultRegularization returns a disabled penalty with 5e-4 coefficients.
func DefaultRegularization() Regularization {
	return Regularization{Enabled: false, L1: 5e-4, L2: 5e-4}
}

// DenseConfig holds configuration for a Dense layer.
type DenseConfig struct {
	Name    string // Optional label used in error messages.
	Inputs  int    // Fan-in (number of input features).
	Neurons int    // Fan-out (number of neurons).

	// Seed drives He initialization when Rand is nil.
	Seed int64
	// Rand, when set, is used instead of a source built from Seed. Sharing
	// one source across layers gives each layer a distinct stream.
	Rand *rand.Rand

	// BatchSize, when positive, sizes the step caches at construction.
	// Otherwise they are sized by the first Forward.
	BatchSize int

	Regularization Regularization
	BiasGrad       BiasGradPolicy

	// Engine runs the matrix operations (default: matrix.Default()).
	Engine *matrix.Engine
}

// Dense implements a fully connected layer.
//
// Performs the transformation: outputs = inputs · weights + biases
// where:
//   - inputs has shape [batch, fan_in]
//   - weights has shape [fan_in, fan_out]
//   - biases has shape [1, fan_out], broadcast across the batch
//   - outputs has shape [batch, fan_out]
//
// Backward derives:
//
//	dweights = inputsᵀ · grad
//	dbiases  = column sums of grad
//	dinputs  = grad · weightsᵀ
//
// plus 2·λ2·p + λ1·sign(p) on both parameter gradients when regularization
// is enabled. Backward never changes weights or biases.
type Dense struct {
	name    string
	inputs  int
	neurons int
	weights *Parameter
	biases  *Parameter
	reg     Regularization
	policy  BiasGradPolicy
	engine  *matrix.Engine
	cache   stepCache
}

// NewDense creates a Dense layer with He-initialized weights and zero biases.
func NewDense(cfg DenseConfig) (*Dense, error) {
	if cfg.Inputs <= 0 || cfg.Neurons <= 0 {
		return nil, fmt.Errorf("dense: dimensions must be positive, got inputs %d, neurons %d",
			cfg.Inputs, cfg.Neurons)
	}
	if cfg.Engine == nil {
		cfg.Engine = matrix.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}

	w, err := matrix.New(cfg.Inputs, cfg.Neurons)
	if err != nil {
		return nil, fmt.Errorf("dense weights: %w", err)
	}
	HeUniform(w, cfg.Inputs, rng)

	b, err := matrix.New(1, cfg.Neurons)
	if err != nil {
		return nil, fmt.Errorf("dense biases: %w", err)
	}

	weights, err := NewParameter("weights", w)
	if err != nil {
		return nil, err
	}
	biases, err := NewParameter("biases", b)
	if err != nil {
		return nil, err
	}

	d := &Dense{
		name:    cfg.Name,
		inputs:  cfg.Inputs,
		neurons: cfg.Neurons,
		weights: weights,
		biases:  biases,
		reg:     cfg.Regularization,
		policy:  cfg.BiasGrad,
		engine:  cfg.Engine,
	}
	if d.name == "" {
		d.name = "dense"
	}

	if cfg.BatchSize > 0 {
		if err := d.cache.ensure(d.op("forward"),
			matrix.Shape{Rows: cfg.BatchSize, Cols: cfg.Inputs},
			matrix.Shape{Rows: cfg.BatchSize, Cols: cfg.Neurons}); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *Dense) op(stage string) string {
	return d.name + " " + stage
}

// Forward computes outputs = x · weights + biases and caches a copy of x.
func (d *Dense) Forward(x matrix.Operand) error {
	if x.Cols() != d.inputs {
		return matrix.Mismatch(d.op("forward"), x, d.weights.Value())
	}
	if err := d.cache.ensure(d.op("forward"),
		matrix.Shape{Rows: x.Rows(), Cols: d.inputs},
		matrix.Shape{Rows: x.Rows(), Cols: d.neurons}); err != nil {
		return err
	}

	if err := d.cache.store(d.op("forward"), x); err != nil {
		return err
	}

	z, err := d.engine.Multiply(x, d.weights.Value())
	if err != nil {
		return fmt.Errorf("%s: %w", d.op("forward"), err)
	}
	d.cache.outputs.ReplaceWith(z)

	return d.engine.AddRowVector(d.cache.outputs, d.biases.Value())
}

// Backward computes the parameter gradients and DInputs from grad, the
// gradient of the loss with respect to Outputs.
func (d *Dense) Backward(grad matrix.Operand) error {
	if !d.cache.ready() {
		return fmt.Errorf("%s: %w", d.op("backward"), ErrNotReady)
	}
	if grad.Rows() != d.cache.inputs.Rows() || grad.Cols() != d.neurons {
		return matrix.Mismatch(d.op("backward"), grad, d.cache.outputs)
	}

	// dweights = inputsᵀ · grad
	inputsT, err := d.engine.Transpose(d.cache.inputs)
	if err != nil {
		return err
	}
	dw, err := d.engine.Multiply(inputsT, grad)
	inputsT.Release()
	if err != nil {
		return fmt.Errorf("%s (inputs transposed): %w", d.op("backward"), err)
	}
	d.weights.Grad().ReplaceWith(dw)

	// dbiases = Σ_i grad[i]
	if d.policy == ResetBiasGrad {
		d.biases.ZeroGrad()
	}
	if err := d.engine.AddColumnSums(d.biases.Grad(), grad); err != nil {
		return err
	}

	if d.reg.Enabled {
		d.addPenaltyGrad(d.weights)
		d.addPenaltyGrad(d.biases)
	}

	// dinputs = grad · weightsᵀ
	weightsT, err := d.engine.Transpose(d.weights.Value())
	if err != nil {
		return err
	}
	di, err := d.engine.Multiply(grad, weightsT)
	weightsT.Release()
	if err != nil {
		return fmt.Errorf("%s (weights transposed): %w", d.op("backward"), err)
	}
	d.cache.dinputs.ReplaceWith(di)

	return nil
}

// addPenaltyGrad adds 2·λ2·p + λ1·sign(p) to p's gradient, with sign(0) = +1.
func (d *Dense) addPenaltyGrad(p *Parameter) {
	value, grad := p.Value().Data(), p.Grad().Data()
	l1, l2 := d.reg.L1, d.reg.L2

	d.engine.ForRange(len(grad), func(start, end int) {
		g, v := grad[start:end], value[start:end]
		floats.AddScaled(g, 2*l2, v)
		for i, x := range v {
			g[i] += l1 * sign(x)
		}
	})
}

func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Outputs returns the pre-activation outputs of the last Forward.
func (d *Dense) Outputs() *matrix.Matrix { return d.cache.outputs }

// DInputs returns the input gradient of the last Backward.
func (d *Dense) DInputs() *matrix.Matrix { return d.cache.dinputs }

// Inputs returns the cached copy of the last Forward input.
func (d *Dense) Inputs() *matrix.Matrix { return d.cache.inputs }

// Weights returns the weight matrix [fan_in, fan_out].
func (d *Dense) Weights() *matrix.Matrix { return d.weights.Value() }

// Biases returns the bias row [1, fan_out].
func (d *Dense) Biases() *matrix.Matrix { return d.biases.Value() }

// DWeights returns the weight gradient.
func (d *Dense) DWeights() *matrix.Matrix { return d.weights.Grad() }

// DBiases returns the bias gradient.
func (d *Dense) DBiases() *matrix.Matrix { return d.biases.Grad() }

// Parameters returns [weights, biases].
func (d *Dense) Parameters() []*Parameter {
	return []*Parameter{d.weights, d.biases}
}

// ZeroGrad clears both parameter gradients.
func (d *Dense) ZeroGrad() {
	d.weights.ZeroGrad()
	d.biases.ZeroGrad()
}

// InFeatures returns the fan-in.
func (d *Dense) InFeatures() int { return d.inputs }

// OutFeatures returns the number of neurons.
func (d *Dense) OutFeatures() int { return d.neurons }

// Name returns the layer label.
func (d *Dense) Name() string { return d.name }

// Reset releases the step caches. Parameters and their gradients are kept.
func (d *Dense) Reset() {
	d.cache.reset()
}
