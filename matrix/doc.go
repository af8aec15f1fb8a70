// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides the dense float64 matrix type and the engine that
// runs every linear-algebra primitive of the training kernel.
//
// # Overview
//
// This package contains:
//   - Matrix: an owned, row-major rows×cols buffer
//   - View: a borrowed row range of a Matrix, used for mini-batches
//   - Engine: transpose, multiply, element-wise and reduction operations
//   - Strategy: Sequential or Parallel execution, chosen at construction
//
// # Basic Usage
//
//	import "github.com/born-ml/mlp/matrix"
//
//	func main() {
//	    a, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
//	    b, _ := matrix.FromRows([][]float64{{5, 6}, {7, 8}})
//
//	    engine := matrix.NewEngine(matrix.EngineConfig{Strategy: matrix.Parallel})
//	    c, err := engine.Multiply(a, b)
//	}
//
// # Errors
//
// Incompatible shapes are reported as ErrShapeMismatch (wrapped in a
// *ShapeError naming the operation and both shapes). Reading released
// storage reports ErrReleased. Oversized or negative allocations report
// ErrAllocation.
package matrix
