package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/mlp/internal/matrix"
)

// probabilityFloor keeps log away from zero.
const probabilityFloor = 1e-15

// categoricalCrossEntropy computes mean(-log(p[true class])) over rows.
//
// targets are one-hot rows; the true class is the first column equal to 1.0.
// The predicted probability is clipped to probabilityFloor before the log.
//
// Besides the matching column count, predictions and targets must have the
// same number of rows; a shorter target matrix would otherwise be read past
// its end.
func categoricalCrossEntropy(x *matrix.Matrix, y matrix.Operand) (float64, error) {
	if x.Cols() != y.Cols() || x.Rows() != y.Rows() {
		return 0, matrix.Mismatch("calculate catCE loss", x, y)
	}
	target := y.Data()
	if len(target) != y.Rows()*y.Cols() {
		return 0, fmt.Errorf("calculate catCE loss: %w", matrix.ErrReleased)
	}

	pred, cols := x.Data(), x.Cols()
	losses := 0.0
	for i := 0; i < x.Rows(); i++ {
		trueClass := -1
		for j := 0; j < cols; j++ {
			if target[i*cols+j] == 1.0 {
				trueClass = j
				break
			}
		}
		if trueClass == -1 {
			return 0, &LabelError{Row: i}
		}

		p := pred[i*cols+trueClass]
		if p < probabilityFloor {
			p = probabilityFloor
		}
		losses += -math.Log(p)
	}

	return losses / float64(y.Rows()), nil
}

// binaryCrossEntropy computes the mean over rows of
// -(y·log(ŷ) + (1-y)·log(1-ŷ)) for single-column labels. Only the lower
// bound of ŷ is clipped.
//
// Besides matching rows and single-column targets, predictions must also be
// a single column. Wider predictions are rejected instead of being paired
// with the wrong labels.
func binaryCrossEntropy(x *matrix.Matrix, y matrix.Operand) (float64, error) {
	if x.Rows() != y.Rows() || y.Cols() != 1 || x.Cols() != y.Cols() {
		return 0, matrix.Mismatch("calculate binary CE loss", x, y)
	}
	target := y.Data()
	if len(target) != y.Rows()*y.Cols() {
		return 0, fmt.Errorf("calculate binary CE loss: %w", matrix.ErrReleased)
	}

	pred, cols := x.Data(), x.Cols()
	total := 0.0
	for i := 0; i < x.Rows(); i++ {
		sample := 0.0
		for j := 0; j < cols; j++ {
			yHat := pred[i*cols+j]
			label := target[i*y.Cols()+j]
			if yHat < probabilityFloor {
				yHat = probabilityFloor
			}
			sample -= label*math.Log(yHat) + (1.0-label)*math.Log(1.0-yHat)
		}
		total += sample
	}

	return total / float64(x.Rows()), nil
}
