// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix

import (
	"github.com/born-ml/mlp/internal/matrix"
)

// Matrix is a dense row-major float64 buffer.
type Matrix = matrix.Matrix

// View is a borrowed row range of a Matrix.
type View = matrix.View

// Operand is anything with a shape and readable storage.
type Operand = matrix.Operand

// Shape holds matrix dimensions.
type Shape = matrix.Shape

// ShapeError describes a dimension mismatch.
type ShapeError = matrix.ShapeError

// Errors.
var (
	ErrShapeMismatch = matrix.ErrShapeMismatch
	ErrAllocation    = matrix.ErrAllocation
	ErrReleased      = matrix.ErrReleased
)

// New allocates a zero-filled rows×cols matrix.
func New(rows, cols int) (*Matrix, error) {
	return matrix.New(rows, cols)
}

// FromSlice creates a rows×cols matrix holding a copy of data.
func FromSlice(rows, cols int, data []float64) (*Matrix, error) {
	return matrix.FromSlice(rows, cols, data)
}

// FromRows creates a matrix from equally sized rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	return matrix.FromRows(rows)
}

// NewView returns numRows rows of parent starting at startRow.
func NewView(parent *Matrix, startRow, numRows int) (*View, error) {
	return matrix.NewView(parent, startRow, numRows)
}

// Clone returns an owned copy of a.
func Clone(a Operand) (*Matrix, error) {
	return matrix.Clone(a)
}

// Execution

// Engine runs matrix operations with a fixed Strategy.
type Engine = matrix.Engine

// EngineConfig configures an Engine.
type EngineConfig = matrix.EngineConfig

// Strategy selects sequential or parallel execution.
type Strategy = matrix.Strategy

// Strategies.
const (
	Sequential = matrix.Sequential
	Parallel   = matrix.Parallel
)

// NewEngine creates an engine.
//
// Example:
//
//	engine := matrix.NewEngine(matrix.EngineConfig{Strategy: matrix.Parallel})
func NewEngine(cfg EngineConfig) *Engine {
	return matrix.NewEngine(cfg)
}

// DefaultEngineConfig returns a sequential configuration.
func DefaultEngineConfig() EngineConfig {
	return matrix.DefaultEngineConfig()
}

// Default returns the shared sequential engine.
func Default() *Engine {
	return matrix.Default()
}

// ParseStrategy maps "sequential" or "parallel" to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	return matrix.ParseStrategy(name)
}
