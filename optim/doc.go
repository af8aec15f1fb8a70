// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides per-layer optimizers for Dense layers.
//
// # Overview
//
// This package contains:
//   - Adam: Adaptive Moment Estimation with optional bias correction
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Optimizer interface: PreUpdate, Update, PostUpdate
//
// # Basic Usage
//
// Create one optimizer per layer and run the three phases in order after
// every backward pass:
//
//	adam, _ := optim.NewAdam(optim.DefaultAdamConfig())
//
//	for step := range steps {
//	    // forward, loss, backward ...
//	    adam.PreUpdate()
//	    _ = adam.Update(layer)
//	    adam.PostUpdate()
//	}
//
// optim.Step(adam, layer) runs the same sequence.
package optim
