// Package train drives the training step: forward chain, loss, backward
// chain, then PreUpdate → Update → PostUpdate on every layer's optimizer.
package train

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// StepResult reports one training step.
type StepResult struct {
	Loss     float64
	Accuracy float64
}

// Trainer owns a network, its loss and one optimizer per Dense layer.
// A Trainer is not safe for concurrent use.
type Trainer struct {
	net        *nn.Network
	loss       *nn.Loss
	optimizers []optim.Optimizer
	batchRows  int
}

// New creates a trainer. optimizers[i] updates the i-th layer of net.
func New(net *nn.Network, loss *nn.Loss, optimizers []optim.Optimizer) (*Trainer, error) {
	if len(optimizers) != net.Len() {
		return nil, fmt.Errorf("trainer: %d optimizers for %d layers", len(optimizers), net.Len())
	}
	for i, o := range optimizers {
		if o == nil {
			return nil, fmt.Errorf("trainer: optimizer %d is nil", i)
		}
	}
	return &Trainer{net: net, loss: loss, optimizers: optimizers}, nil
}

// NewWithKind creates a trainer with a fresh optimizer of kind for each layer.
func NewWithKind(net *nn.Network, lossKind nn.LossKind, kind optim.Kind, cfg optim.Config) (*Trainer, error) {
	loss, err := nn.NewLoss(lossKind)
	if err != nil {
		return nil, err
	}
	optimizers := make([]optim.Optimizer, net.Len())
	for i := range optimizers {
		if optimizers[i], err = optim.New(kind, cfg); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return New(net, loss, optimizers)
}

// Network returns the trained network.
func (t *Trainer) Network() *nn.Network { return t.net }

// Optimizers returns the per-layer optimizers.
func (t *Trainer) Optimizers() []optim.Optimizer { return t.optimizers }

// Step runs one forward → loss → backward → update cycle on the batch x with
// one-hot targets y. A batch with a different number of rows than the
// previous one resets the network caches first.
func (t *Trainer) Step(x, y matrix.Operand) (StepResult, error) {
	if t.batchRows != 0 && x.Rows() != t.batchRows {
		t.net.Reset()
	}
	t.batchRows = x.Rows()

	out, err := t.net.Forward(x)
	if err != nil {
		return StepResult{}, fmt.Errorf("forward: %w", err)
	}

	value, err := t.loss.Compute(out, y)
	if err != nil {
		return StepResult{}, err
	}
	acc, err := nn.Accuracy(out, y)
	if err != nil {
		return StepResult{}, err
	}

	if err := t.net.Backward(y); err != nil {
		return StepResult{}, fmt.Errorf("backward: %w", err)
	}

	for i, layer := range t.net.Layers() {
		if err := optim.Step(t.optimizers[i], layer); err != nil {
			return StepResult{}, fmt.Errorf("update layer %d: %w", i, err)
		}
	}

	return StepResult{Loss: value, Accuracy: acc}, nil
}

// Evaluate returns the mean loss and accuracy over d without updating any
// parameter. Batches are weighted by their size.
func (t *Trainer) Evaluate(d *dataset.Dataset, batchSize int) (StepResult, error) {
	batches, err := d.Batches(batchSize, false)
	if err != nil {
		return StepResult{}, err
	}
	if len(batches) == 0 {
		return StepResult{}, errors.New("evaluate: empty dataset")
	}

	var total StepResult
	for _, b := range batches {
		if t.batchRows != 0 && b.Size() != t.batchRows {
			t.net.Reset()
		}
		t.batchRows = b.Size()

		out, err := t.net.Forward(b.X)
		if err != nil {
			return StepResult{}, fmt.Errorf("forward: %w", err)
		}
		value, err := t.loss.Compute(out, b.Y)
		if err != nil {
			return StepResult{}, err
		}
		acc, err := nn.Accuracy(out, b.Y)
		if err != nil {
			return StepResult{}, err
		}
		w := float64(b.Size())
		total.Loss += value * w
		total.Accuracy += acc * w
	}

	n := float64(d.Len())
	return StepResult{Loss: total.Loss / n, Accuracy: total.Accuracy / n}, nil
}

// FitConfig controls Fit.
type FitConfig struct {
	Epochs    int
	BatchSize int

	// DropLast skips a trailing partial batch, so every step reuses the same
	// cache shape.
	DropLast bool

	// Rand, when set, shuffles the dataset in place before every epoch.
	Rand *rand.Rand

	// OnEpoch, when set, is called after every epoch.
	OnEpoch func(EpochResult)
}

// DefaultFitConfig returns 10 epochs of 32-sample batches without shuffling.
func DefaultFitConfig() FitConfig {
	return FitConfig{Epochs: 10, BatchSize: 32}
}

// EpochResult reports the sample-weighted mean loss and accuracy of one epoch.
type EpochResult struct {
	Epoch    int
	Steps    int
	Loss     float64
	Accuracy float64
}

// Fit trains on d for cfg.Epochs epochs and returns one result per epoch.
func (t *Trainer) Fit(d *dataset.Dataset, cfg FitConfig) ([]EpochResult, error) {
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("fit: epochs must be positive, got %d", cfg.Epochs)
	}

	results := make([]EpochResult, 0, cfg.Epochs)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.Rand != nil {
			d.Shuffle(cfg.Rand)
		}
		batches, err := d.Batches(cfg.BatchSize, cfg.DropLast)
		if err != nil {
			return results, err
		}
		if len(batches) == 0 {
			return results, errors.New("fit: no complete batch")
		}

		res := EpochResult{Epoch: epoch}
		samples := 0
		for _, b := range batches {
			step, err := t.Step(b.X, b.Y)
			if err != nil {
				return results, fmt.Errorf("epoch %d step %d: %w", epoch, res.Steps, err)
			}
			w := b.Size()
			res.Loss += step.Loss * float64(w)
			res.Accuracy += step.Accuracy * float64(w)
			samples += w
			res.Steps++
		}
		res.Loss /= float64(samples)
		res.Accuracy /= float64(samples)

		results = append(results, res)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(res)
		}
	}
	return results, nil
}
