// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
)

// Module is implemented by every layer and activation.
type Module = nn.Module

// Parameter is a trainable buffer and its gradient.
type Parameter = nn.Parameter

// Layers

// Dense is a fully connected layer.
type Dense = nn.Dense

// DenseConfig configures a Dense layer.
type DenseConfig = nn.DenseConfig

// Regularization configures L1/L2 penalty gradients.
type Regularization = nn.Regularization

// BiasGradPolicy selects reset or accumulate for bias gradients.
type BiasGradPolicy = nn.BiasGradPolicy

// Bias gradient policies.
const (
	ResetBiasGrad      = nn.ResetBiasGrad
	AccumulateBiasGrad = nn.AccumulateBiasGrad
)

// NewDense creates a Dense layer with He initialization.
//
// Example:
//
//	layer, err := nn.NewDense(nn.DenseConfig{Inputs: 784, Neurons: 128, Seed: 42})
func NewDense(cfg DenseConfig) (*Dense, error) {
	return nn.NewDense(cfg)
}

// HeUniform fills m with sqrt(1/fanIn)·(U(0,1)·2-1) values.
func HeUniform(m *matrix.Matrix, fanIn int, rng *rand.Rand) {
	nn.HeUniform(m, fanIn, rng)
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed int64) *rand.Rand {
	return nn.NewRand(seed)
}

// Activations

// Activation is the closed set of activation modules.
type Activation = nn.Activation

// ActivationKind identifies an activation.
type ActivationKind = nn.ActivationKind

// ActivationConfig configures activation modules.
type ActivationConfig = nn.ActivationConfig

// ReLU is the rectified linear unit.
type ReLU = nn.ReLU

// Softmax is the row-wise softmax fused with categorical cross-entropy.
type Softmax = nn.Softmax

// Activation kinds.
const (
	ReLUKind      = nn.ReLUKind
	LeakyReLUKind = nn.LeakyReLUKind
	SoftmaxKind   = nn.SoftmaxKind
	SigmoidKind   = nn.SigmoidKind
	LinearKind    = nn.LinearKind
	TanhKind      = nn.TanhKind
)

// NewReLU creates a ReLU activation.
func NewReLU(cfg ActivationConfig) *ReLU {
	return nn.NewReLU(cfg)
}

// NewSoftmax creates a Softmax activation.
func NewSoftmax(cfg ActivationConfig) *Softmax {
	return nn.NewSoftmax(cfg)
}

// NewActivation builds the activation for kind.
func NewActivation(kind ActivationKind, cfg ActivationConfig) (Activation, error) {
	return nn.NewActivation(kind, cfg)
}

// Loss

// Loss reduces predictions and targets to a scalar.
type Loss = nn.Loss

// LossKind identifies a loss.
type LossKind = nn.LossKind

// Loss kinds.
const (
	CategoricalCrossEntropy = nn.CategoricalCrossEntropy
	BinaryCrossEntropy      = nn.BinaryCrossEntropy
	MeanSquaredError        = nn.MeanSquaredError
	MeanAbsoluteError       = nn.MeanAbsoluteError
)

// NewLoss creates a loss of kind.
func NewLoss(kind LossKind) (*Loss, error) {
	return nn.NewLoss(kind)
}

// Accuracy returns the fraction of rows whose argmax matches the target's.
func Accuracy(predictions, targets matrix.Operand) (float64, error) {
	return nn.Accuracy(predictions, targets)
}

// Network

// Network chains Dense layers and activations.
type Network = nn.Network

// Stage is one Dense layer and its activation.
type Stage = nn.Stage

// NewNetwork validates and chains stages.
func NewNetwork(stages ...Stage) (*Network, error) {
	return nn.NewNetwork(stages...)
}

// Errors

// LabelError identifies a target row without a true class.
type LabelError = nn.LabelError

// Errors.
var (
	ErrInvalidLabel = nn.ErrInvalidLabel
	ErrUnsupported  = nn.ErrUnsupported
	ErrNotReady     = nn.ErrNotReady
)
