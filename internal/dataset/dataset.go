// Package dataset loads labelled samples into matrices and cuts them into
// mini-batches.
//
// Samples are stored as one row per sample; targets are one-hot rows. Batches
// are row-range views over those matrices, so batching never copies.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/born-ml/mlp/internal/matrix"
)

// ErrLabel is reported for a label outside [0, classes).
var ErrLabel = errors.New("label out of range")

// Dataset holds inputs [n, features] and one-hot targets [n, classes].
type Dataset struct {
	Inputs  *matrix.Matrix
	Targets *matrix.Matrix
}

// New pairs inputs with targets. Both must have the same number of rows.
func New(inputs, targets *matrix.Matrix) (*Dataset, error) {
	if inputs.Rows() != targets.Rows() {
		return nil, fmt.Errorf("dataset: %d samples but %d targets: %w",
			inputs.Rows(), targets.Rows(), matrix.ErrShapeMismatch)
	}
	return &Dataset{Inputs: inputs, Targets: targets}, nil
}

// FromLabels builds a dataset from per-sample feature rows and class labels.
func FromLabels(samples [][]float64, labels []int, classes int) (*Dataset, error) {
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("dataset: %d samples but %d labels", len(samples), len(labels))
	}
	inputs, err := matrix.FromRows(samples)
	if err != nil {
		return nil, fmt.Errorf("dataset inputs: %w", err)
	}
	targets, err := OneHot(labels, classes)
	if err != nil {
		return nil, err
	}
	return New(inputs, targets)
}

// OneHot encodes labels as rows with a single 1.0 in the label's column.
func OneHot(labels []int, classes int) (*matrix.Matrix, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("one-hot: classes must be positive, got %d", classes)
	}
	m, err := matrix.New(len(labels), classes)
	if err != nil {
		return nil, err
	}
	for i, label := range labels {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("one-hot row %d: %w: %d not in [0, %d)", i, ErrLabel, label, classes)
		}
		m.Set(i, label, 1)
	}
	return m, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return d.Inputs.Rows()
}

// Features returns the input width.
func (d *Dataset) Features() int {
	return d.Inputs.Cols()
}

// Classes returns the target width.
func (d *Dataset) Classes() int {
	return d.Targets.Cols()
}

// Split copies the first (1 - validationRatio) of the samples into train and
// the rest into validation.
func (d *Dataset) Split(validationRatio float64) (train, validation *Dataset, err error) {
	if validationRatio < 0 || validationRatio > 1 {
		return nil, nil, fmt.Errorf("dataset split: ratio %g not in [0, 1]", validationRatio)
	}
	at := int(float64(d.Len()) * (1.0 - validationRatio))

	train, err = d.slice(0, at)
	if err != nil {
		return nil, nil, err
	}
	validation, err = d.slice(at, d.Len())
	if err != nil {
		return nil, nil, err
	}
	return train, validation, nil
}

func (d *Dataset) slice(start, end int) (*Dataset, error) {
	in, err := copyRows(d.Inputs, start, end)
	if err != nil {
		return nil, err
	}
	out, err := copyRows(d.Targets, start, end)
	if err != nil {
		return nil, err
	}
	return &Dataset{Inputs: in, Targets: out}, nil
}

func copyRows(m *matrix.Matrix, start, end int) (*matrix.Matrix, error) {
	v, err := matrix.NewView(m, start, end-start)
	if err != nil {
		return nil, err
	}
	return matrix.Clone(v)
}

// Shuffle permutes the samples in place, keeping inputs and targets aligned.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(d.Len(), func(i, j int) {
		swapRows(d.Inputs, i, j)
		swapRows(d.Targets, i, j)
	})
}

func swapRows(m *matrix.Matrix, i, j int) {
	a, b := m.Row(i), m.Row(j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// Batch is one mini-batch of samples and targets. Both are views over the
// dataset and are only valid while the dataset is alive and unshuffled.
type Batch struct {
	X *matrix.View
	Y *matrix.View
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int {
	return b.X.Rows()
}

// Batches splits the dataset into consecutive mini-batches of size rows. The
// last batch is smaller when size does not divide Len, unless dropLast is
// set, in which case it is omitted.
func (d *Dataset) Batches(size int, dropLast bool) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batches: size must be positive, got %d", size)
	}

	n := d.Len()
	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		rows := min(size, n-start)
		if rows < size && dropLast {
			break
		}
		x, err := matrix.NewView(d.Inputs, start, rows)
		if err != nil {
			return nil, err
		}
		y, err := matrix.NewView(d.Targets, start, rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, Batch{X: x, Y: y})
	}
	return batches, nil
}
