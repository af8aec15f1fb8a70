package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/mlp/internal/matrix"
)

// LossKind enumerates the loss variants.
type LossKind int

// Loss variants. MeanSquaredError and MeanAbsoluteError are declared but
// report ErrUnsupported.
const (
	CategoricalCrossEntropy LossKind = iota
	BinaryCrossEntropy
	MeanSquaredError
	MeanAbsoluteError
)

// String returns the loss name.
func (k LossKind) String() string {
	switch k {
	case CategoricalCrossEntropy:
		return "categorical_cross_entropy"
	case BinaryCrossEntropy:
		return "binary_cross_entropy"
	case MeanSquaredError:
		return "mse"
	case MeanAbsoluteError:
		return "mae"
	default:
		return fmt.Sprintf("LossKind(%d)", int(k))
	}
}

// Loss reduces predictions and targets to a scalar.
//
// Example:
//
//	loss, _ := nn.NewLoss(nn.CategoricalCrossEntropy)
//	value, err := loss.Compute(softmax.Outputs(), targets)
type Loss struct {
	kind        LossKind
	predictions *matrix.Matrix // Ephemeral copy, only set inside Compute.
	value       float64
}

// NewLoss creates a loss of the given kind.
func NewLoss(kind LossKind) (*Loss, error) {
	switch kind {
	case CategoricalCrossEntropy, BinaryCrossEntropy, MeanSquaredError, MeanAbsoluteError:
		return &Loss{kind: kind}, nil
	default:
		return nil, fmt.Errorf("init loss: incorrect loss type %v", kind)
	}
}

// Kind returns the loss variant.
func (l *Loss) Kind() LossKind {
	return l.kind
}

// Value returns the result of the last successful Compute.
func (l *Loss) Value() float64 {
	return l.value
}

// Compute copies predictions, evaluates the loss against targets and
// releases the copy before returning. On error Value is left unchanged.
//
// Shapes are checked more strictly than the column/row pairing of the loss
// formulas alone: categorical cross-entropy also requires equal row counts,
// and binary cross-entropy requires single-column predictions as well as
// single-column targets. Both report ErrShapeMismatch.
func (l *Loss) Compute(predictions, targets matrix.Operand) (float64, error) {
	switch l.kind {
	case MeanSquaredError, MeanAbsoluteError:
		return 0, fmt.Errorf("%v loss: %w", l.kind, ErrUnsupported)
	}

	x, err := matrix.Clone(predictions)
	if err != nil {
		return 0, fmt.Errorf("compute loss: %w", err)
	}
	l.predictions = x
	defer func() {
		l.predictions.Release()
		l.predictions = nil
	}()

	var value float64
	switch l.kind {
	case CategoricalCrossEntropy:
		value, err = categoricalCrossEntropy(l.predictions, targets)
	case BinaryCrossEntropy:
		value, err = binaryCrossEntropy(l.predictions, targets)
	}
	if err != nil {
		return 0, err
	}

	l.value = value
	return value, nil
}

// Accuracy returns the fraction of rows whose highest prediction is in the
// same column as the highest target.
func Accuracy(predictions, targets matrix.Operand) (float64, error) {
	if !matrix.SameShape(predictions, targets) {
		return 0, matrix.Mismatch("accuracy", predictions, targets)
	}
	rows, cols := predictions.Rows(), predictions.Cols()
	if rows == 0 || cols == 0 {
		return 0, nil
	}
	pred, y := predictions.Data(), targets.Data()
	if len(pred) != rows*cols || len(y) != rows*cols {
		return 0, fmt.Errorf("accuracy: %w", matrix.ErrReleased)
	}

	correct := 0
	for i := 0; i < rows; i++ {
		if floats.MaxIdx(pred[i*cols:(i+1)*cols]) == floats.MaxIdx(y[i*cols:(i+1)*cols]) {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}
