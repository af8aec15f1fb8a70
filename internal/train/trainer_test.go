package train

import (
	"flag"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
)

var update = flag.Bool("update", false, "rewrite testdata/golden.yaml")

var goldenPath = filepath.Join("testdata", "golden.yaml")

// stepRecord captures one training step: the loss, the accuracy and the
// change applied to every parameter.
type stepRecord struct {
	Loss     float64       `yaml:"loss"`
	Accuracy float64       `yaml:"accuracy"`
	Layers   []layerRecord `yaml:"layers"`
}

type layerRecord struct {
	WeightsDelta []float64 `yaml:"weights_delta"`
	BiasesDelta  []float64 `yaml:"biases_delta"`
}

func mustMatrix(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)
	return m
}

func newTrainer(t *testing.T, widths []int, engine *matrix.Engine) *Trainer {
	t.Helper()
	return newAdamTrainer(t, widths, engine, optim.DefaultAdamConfig())
}

func newAdamTrainer(t *testing.T, widths []int, engine *matrix.Engine, cfg optim.AdamConfig) *Trainer {
	t.Helper()
	net, err := NewMLP(MLPConfig{Widths: widths, Seed: 42, Engine: engine})
	require.NoError(t, err)

	tr, err := NewWithKind(net, nn.CategoricalCrossEntropy, optim.AdamKind, optim.Config{
		LR:             cfg.LR,
		Decay:          cfg.Decay,
		Beta1:          cfg.Beta1,
		Beta2:          cfg.Beta2,
		Epsilon:        cfg.Epsilon,
		BiasCorrection: cfg.BiasCorrection,
		Engine:         engine,
	})
	require.NoError(t, err)
	return tr
}

// referenceStep runs the 2→10→5 scenario: inputs [[1,2],[3,4]], one-hot
// targets for classes 2 and 1, layers seeded with 42, Adam with
// lr 0.05, decay 1e-5, betas (0.9, 0.95), epsilon 1e-7.
func referenceStep(t *testing.T, engine *matrix.Engine) stepRecord {
	t.Helper()
	tr := newTrainer(t, []int{2, 10, 5}, engine)

	x := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	y := mustMatrix(t, [][]float64{{0, 0, 1, 0, 0}, {0, 1, 0, 0, 0}})

	layers := tr.Network().Layers()
	before := make([]layerRecord, len(layers))
	for i, l := range layers {
		before[i] = layerRecord{
			WeightsDelta: append([]float64(nil), l.Weights().Data()...),
			BiasesDelta:  append([]float64(nil), l.Biases().Data()...),
		}
	}

	res, err := tr.Step(x, y)
	require.NoError(t, err)

	rec := stepRecord{Loss: res.Loss, Accuracy: res.Accuracy}
	for i, l := range layers {
		rec.Layers = append(rec.Layers, layerRecord{
			WeightsDelta: delta(l.Weights().Data(), before[i].WeightsDelta),
			BiasesDelta:  delta(l.Biases().Data(), before[i].BiasesDelta),
		})
	}
	return rec
}

func delta(after, before []float64) []float64 {
	d := make([]float64, len(after))
	for i := range after {
		d[i] = after[i] - before[i]
	}
	return d
}

func assertRecordsClose(t *testing.T, want, got stepRecord, tol float64) {
	t.Helper()
	assert.InDelta(t, want.Loss, got.Loss, tol*math.Max(1, math.Abs(want.Loss)))
	assert.Equal(t, want.Accuracy, got.Accuracy)
	require.Len(t, got.Layers, len(want.Layers))
	for i := range want.Layers {
		assert.InDeltaSlice(t, want.Layers[i].WeightsDelta, got.Layers[i].WeightsDelta, tol, "layer %d weights", i)
		assert.InDeltaSlice(t, want.Layers[i].BiasesDelta, got.Layers[i].BiasesDelta, tol, "layer %d biases", i)
	}
}

func TestTrainer_Golden(t *testing.T) {
	got := referenceStep(t, nil)

	if *update {
		out, err := yaml.Marshal(got)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(goldenPath, out, 0o600))
		t.Logf("wrote %s", goldenPath)
		return
	}

	raw, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "run with -update to create the golden file")

	var want stepRecord
	require.NoError(t, yaml.Unmarshal(raw, &want))
	assertRecordsClose(t, want, got, 1e-9)
}

func TestTrainer_StepIsDeterministic(t *testing.T) {
	a := referenceStep(t, nil)
	b := referenceStep(t, nil)
	assert.Equal(t, a, b)
}

func TestTrainer_StrategiesAgree(t *testing.T) {
	par := matrix.NewEngine(matrix.EngineConfig{
		Strategy:  matrix.Parallel,
		Parallel:  parallel.Config{NumWorkers: 4, MinChunkSize: 1},
		BlockSize: 4,
	})
	assertRecordsClose(t, referenceStep(t, nil), referenceStep(t, par), 1e-9)
}

// The first Adam step with bias correction moves every parameter by
// lr·g/(|g|+ε), which is just under lr for any gradient far from zero.
func TestTrainer_FirstStepMagnitude(t *testing.T) {
	rec := referenceStep(t, nil)
	for i, l := range rec.Layers {
		for _, d := range append(l.WeightsDelta, l.BiasesDelta...) {
			assert.LessOrEqual(t, math.Abs(d), 0.05, "layer %d", i)
		}
	}
}

func TestTrainer_IterationsAdvance(t *testing.T) {
	tr := newTrainer(t, []int{2, 10, 5}, nil)
	x := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})
	y := mustMatrix(t, [][]float64{{0, 0, 1, 0, 0}, {0, 1, 0, 0, 0}})

	var first, last float64
	for i := 0; i < 50; i++ {
		res, err := tr.Step(x, y)
		require.NoError(t, err)
		if i == 0 {
			first = res.Loss
		}
		last = res.Loss
	}

	for _, o := range tr.Optimizers() {
		assert.Equal(t, 50, o.Iterations())
		assert.Less(t, o.LR(), 0.05)
	}
	assert.Less(t, last, first)
}

func TestTrainer_InvalidLabelStopsStep(t *testing.T) {
	tr := newTrainer(t, []int{2, 3}, nil)
	weights := append([]float64(nil), tr.Network().Layers()[0].Weights().Data()...)

	x := mustMatrix(t, [][]float64{{1, 2}})
	y := mustMatrix(t, [][]float64{{0, 0, 0}})
	_, err := tr.Step(x, y)
	require.ErrorIs(t, err, nn.ErrInvalidLabel)

	assert.Equal(t, weights, tr.Network().Layers()[0].Weights().Data())
	assert.Zero(t, tr.Optimizers()[0].Iterations())
}

func TestNew_OptimizerCount(t *testing.T) {
	net, err := NewMLP(MLPConfig{Widths: []int{2, 3, 2}})
	require.NoError(t, err)
	loss, err := nn.NewLoss(nn.CategoricalCrossEntropy)
	require.NoError(t, err)
	adam, err := optim.NewAdam(optim.DefaultAdamConfig())
	require.NoError(t, err)

	_, err = New(net, loss, []optim.Optimizer{adam})
	assert.Error(t, err)

	_, err = NewWithKind(net, nn.CategoricalCrossEntropy, optim.RMSPropKind, optim.Config{LR: 0.1})
	assert.ErrorIs(t, err, nn.ErrUnsupported)
}

func TestNewMLP(t *testing.T) {
	_, err := NewMLP(MLPConfig{Widths: []int{4}})
	assert.Error(t, err)

	net, err := NewMLP(MLPConfig{Widths: []int{3, 3, 3}, Seed: 7})
	require.NoError(t, err)
	layers := net.Layers()
	assert.Equal(t, layers[0].Weights().Data(), layers[1].Weights().Data(), "each layer reseeds")
	assert.Equal(t, nn.SoftmaxKind, net.Stages()[1].Activation.Kind())

	shared, err := NewMLP(MLPConfig{Widths: []int{3, 3, 3}, Seed: 7, SharedRand: true})
	require.NoError(t, err)
	assert.NotEqual(t, shared.Layers()[0].Weights().Data(), shared.Layers()[1].Weights().Data())
}

func TestTrainer_Fit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data, err := dataset.Blobs(3, 2, 40, 4, rng)
	require.NoError(t, err)

	tr := newTrainer(t, []int{2, 16, 3}, nil)

	var seen []int
	cfg := FitConfig{
		Epochs:    15,
		BatchSize: 16,
		Rand:      rng,
		OnEpoch:   func(r EpochResult) { seen = append(seen, r.Epoch) },
	}
	results, err := tr.Fit(data, cfg)
	require.NoError(t, err)
	require.Len(t, results, 15)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, seen)

	// 120 samples in batches of 16: 7 full batches and one of 8.
	for _, r := range results {
		assert.Equal(t, 8, r.Steps)
		assert.False(t, math.IsNaN(r.Loss))
	}
	assert.Equal(t, 15*8, tr.Optimizers()[0].Iterations())
}

// Corrected moments are written back into the Adam state, so over many
// steps they keep growing by 1/(1-beta^t) and training on Blobs drifts.
// Convergence is checked with the plain moments instead.
func TestTrainer_FitConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data, err := dataset.Blobs(3, 2, 40, 4, rng)
	require.NoError(t, err)

	cfg := optim.DefaultAdamConfig()
	cfg.BiasCorrection = false
	tr := newAdamTrainer(t, []int{2, 16, 3}, nil, cfg)

	results, err := tr.Fit(data, FitConfig{Epochs: 15, BatchSize: 16, Rand: rng})
	require.NoError(t, err)
	require.Len(t, results, 15)
	assert.Less(t, results[14].Loss, results[0].Loss)

	eval, err := tr.Evaluate(data, 32)
	require.NoError(t, err)
	assert.Greater(t, eval.Accuracy, 0.8)
}

func TestTrainer_FitDropLast(t *testing.T) {
	data, err := dataset.Blobs(2, 2, 5, 3, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	tr := newTrainer(t, []int{2, 4, 2}, nil)
	results, err := tr.Fit(data, FitConfig{Epochs: 1, BatchSize: 4, DropLast: true})
	require.NoError(t, err)
	assert.Equal(t, 2, results[0].Steps)

	_, err = tr.Fit(data, FitConfig{Epochs: 1, BatchSize: 20, DropLast: true})
	assert.Error(t, err)

	_, err = tr.Fit(data, FitConfig{})
	assert.Error(t, err)
}
