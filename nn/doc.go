// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers, activations and losses of a feed-forward
// network with hand-derived gradients.
//
// # Overview
//
// This package contains:
//   - Layers: Dense
//   - Activations: ReLU, Softmax
//   - Loss: categorical and binary cross-entropy
//   - Utilities: Network, Parameter, Accuracy, He initialization
//
// # Basic Usage
//
//	hidden, _ := nn.NewDense(nn.DenseConfig{Inputs: 2, Neurons: 10, Seed: 42})
//	output, _ := nn.NewDense(nn.DenseConfig{Inputs: 10, Neurons: 5, Seed: 42})
//
//	net, _ := nn.NewNetwork(
//	    nn.Stage{Layer: hidden, Activation: nn.NewReLU(nn.ActivationConfig{})},
//	    nn.Stage{Layer: output, Activation: nn.NewSoftmax(nn.ActivationConfig{})},
//	)
//
//	probs, _ := net.Forward(x)
//	loss, _ := nn.NewLoss(nn.CategoricalCrossEntropy)
//	value, _ := loss.Compute(probs, y)
//	_ = net.Backward(y)
//
// # Softmax and cross-entropy
//
// Softmax.Backward takes the one-hot targets and returns outputs - targets,
// the gradient of softmax fused with categorical cross-entropy. It is only
// valid for a terminal Softmax trained with CategoricalCrossEntropy.
//
// # Caches
//
// Every module sizes its step caches for the first batch it sees. A batch of
// a different size fails with matrix.ErrShapeMismatch until Reset is called.
package nn
