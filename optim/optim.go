// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// Optimizer is the per-layer update protocol.
type Optimizer = optim.Optimizer

// Kind identifies an optimizer.
type Kind = optim.Kind

// Config is the union of optimizer hyperparameters used by New.
type Config = optim.Config

// Optimizer kinds.
const (
	SGDKind         = optim.SGDKind
	SGDMomentumKind = optim.SGDMomentumKind
	AdaGradKind     = optim.AdaGradKind
	RMSPropKind     = optim.RMSPropKind
	AdamKind        = optim.AdamKind
)

// New builds the optimizer for kind.
func New(kind Kind, cfg Config) (Optimizer, error) {
	return optim.New(kind, cfg)
}

// Step runs PreUpdate, Update and PostUpdate for layer.
func Step(o Optimizer, layer *nn.Dense) error {
	return optim.Step(o, layer)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer for one layer.
type Adam = optim.Adam

// AdamConfig contains configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
// Example:
//
//	adam, err := optim.NewAdam(optim.AdamConfig{
//	    LR:             0.001,
//	    Beta1:          0.9,
//	    Beta2:          0.999,
//	    Epsilon:        1e-8,
//	    BiasCorrection: true,
//	})
func NewAdam(cfg AdamConfig) (*Adam, error) {
	return optim.NewAdam(cfg)
}

// DefaultAdamConfig returns the reference Adam hyperparameters.
func DefaultAdamConfig() AdamConfig {
	return optim.DefaultAdamConfig()
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(cfg SGDConfig) (*SGD, error) {
	return optim.NewSGD(cfg)
}

// ParseKind maps an optimizer name such as "adam" to its Kind.
func ParseKind(s string) (Kind, error) {
	return optim.ParseKind(s)
}
