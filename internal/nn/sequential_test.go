package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/matrix"
)

func buildNetwork(t *testing.T, widths ...int) *Network {
	t.Helper()
	rng := NewRand(42)
	stages := make([]Stage, 0, len(widths)-1)
	for i := 0; i+1 < len(widths); i++ {
		layer := newDense(t, DenseConfig{Inputs: widths[i], Neurons: widths[i+1], Rand: rng})
		var act Activation = NewReLU(ActivationConfig{})
		if i+2 == len(widths) {
			act = NewSoftmax(ActivationConfig{})
		}
		stages = append(stages, Stage{Layer: layer, Activation: act})
	}
	net, err := NewNetwork(stages...)
	require.NoError(t, err)
	return net
}

func TestNewNetwork_Validation(t *testing.T) {
	_, err := NewNetwork()
	assert.Error(t, err)

	_, err = NewNetwork(Stage{Layer: newDense(t, DenseConfig{Inputs: 2, Neurons: 3})})
	assert.Error(t, err)

	_, err = NewNetwork(
		Stage{Layer: newDense(t, DenseConfig{Inputs: 2, Neurons: 3}), Activation: NewReLU(ActivationConfig{})},
		Stage{Layer: newDense(t, DenseConfig{Inputs: 4, Neurons: 2}), Activation: NewSoftmax(ActivationConfig{})},
	)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestNetwork_ForwardBackward(t *testing.T) {
	net := buildNetwork(t, 2, 10, 5)
	assert.Equal(t, 2, net.Len())
	assert.Len(t, net.Layers(), 2)

	x := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	y := mustMatrix(t, [][]float64{{0, 0, 1, 0, 0}, {0, 1, 0, 0, 0}})

	probs, err := net.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, matrix.Shape{Rows: 2, Cols: 5}, probs.Shape())
	assert.Same(t, net.Output(), probs)

	require.NoError(t, net.Backward(y))
	first := net.Layers()[0]
	assert.Equal(t, matrix.Shape{Rows: 2, Cols: 10}, first.DWeights().Shape())
	assert.Equal(t, matrix.Shape{Rows: 2, Cols: 2}, first.DInputs().Shape())
}

func TestNetwork_MatchesManualChain(t *testing.T) {
	net := buildNetwork(t, 3, 4, 2)
	x := mustMatrix(t, [][]float64{{0.5, -1, 2}})
	y := mustMatrix(t, [][]float64{{1, 0}})

	_, err := net.Forward(x)
	require.NoError(t, err)
	require.NoError(t, net.Backward(y))

	hidden, out := net.Stages()[0], net.Stages()[1]
	relu := NewReLU(ActivationConfig{})
	sm := NewSoftmax(ActivationConfig{})

	require.NoError(t, relu.Forward(hidden.Layer.Outputs()))
	require.NoError(t, sm.Forward(out.Layer.Outputs()))
	assert.Equal(t, sm.Outputs().Data(), net.Output().Data())
	assert.Equal(t, relu.Outputs().Data(), hidden.Activation.Outputs().Data())
}

func TestNetwork_Reset(t *testing.T) {
	net := buildNetwork(t, 2, 3, 2)
	_, err := net.Forward(mustMatrix(t, [][]float64{{1, 2}}))
	require.NoError(t, err)

	_, err = net.Forward(mustMatrix(t, [][]float64{{1, 2}, {3, 4}}))
	require.ErrorIs(t, err, matrix.ErrShapeMismatch)

	net.Reset()
	_, err = net.Forward(mustMatrix(t, [][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)
}
