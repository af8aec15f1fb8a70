package dataset

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/matrix"
)

func TestOneHot(t *testing.T) {
	m, err := OneHot([]int{2, 0, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0, 0, 1, 0}, m.Data())

	_, err = OneHot([]int{0, 3}, 3)
	assert.ErrorIs(t, err, ErrLabel)
	_, err = OneHot([]int{-1}, 3)
	assert.ErrorIs(t, err, ErrLabel)
	_, err = OneHot(nil, 0)
	assert.Error(t, err)
}

func TestNew_RowMismatch(t *testing.T) {
	in, _ := matrix.New(3, 2)
	out, _ := matrix.New(2, 4)
	_, err := New(in, out)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func sequence(t *testing.T, n int) *Dataset {
	t.Helper()
	samples := make([][]float64, n)
	labels := make([]int, n)
	for i := range samples {
		samples[i] = []float64{float64(i), float64(-i)}
		labels[i] = i % 3
	}
	d, err := FromLabels(samples, labels, 3)
	require.NoError(t, err)
	return d
}

func TestBatches(t *testing.T) {
	d := sequence(t, 7)

	batches, err := d.Batches(3, false)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, []int{3, 3, 1}, []int{batches[0].Size(), batches[1].Size(), batches[2].Size()})
	assert.Equal(t, []float64{6, -6}, batches[2].X.Data())
	assert.Equal(t, []float64{1, 0, 0}, batches[2].Y.Data())

	dropped, err := d.Batches(3, true)
	require.NoError(t, err)
	assert.Len(t, dropped, 2)

	_, err = d.Batches(0, false)
	assert.Error(t, err)
}

func TestBatches_AliasDataset(t *testing.T) {
	d := sequence(t, 4)
	batches, err := d.Batches(2, false)
	require.NoError(t, err)

	d.Inputs.Set(2, 0, 99)
	assert.Equal(t, 99.0, batches[1].X.At(0, 0))
}

func TestShuffle_KeepsPairs(t *testing.T) {
	d := sequence(t, 30)
	d.Shuffle(rand.New(rand.NewSource(1)))

	moved := false
	for i := 0; i < d.Len(); i++ {
		x := d.Inputs.Row(i)
		assert.Equal(t, -x[0], x[1])
		label := int(x[0]) % 3
		assert.Equal(t, 1.0, d.Targets.At(i, label), "row %d", i)
		if int(x[0]) != i {
			moved = true
		}
	}
	assert.True(t, moved)
}

func TestSplit(t *testing.T) {
	d := sequence(t, 10)
	train, val, err := d.Split(0.2)
	require.NoError(t, err)

	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, val.Len())
	assert.Equal(t, []float64{8, -8, 9, -9}, val.Inputs.Data())

	val.Inputs.Set(0, 0, 0)
	assert.Equal(t, 8.0, d.Inputs.At(8, 0), "split copies")

	_, _, err = d.Split(1.5)
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	const data = "label,a,b\n1,0,255\n0,51,102\n"

	d, err := ReadCSV(strings.NewReader(data), CSVConfig{Classes: 2, Scale: 255, Header: true})
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 2, d.Features())
	assert.InDeltaSlice(t, []float64{0, 1, 0.2, 0.4}, d.Inputs.Data(), 1e-12)
	assert.Equal(t, []float64{0, 1, 1, 0}, d.Targets.Data())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "label,a\n"},
		{"ragged", "1,2,3\n0,1\n"},
		{"bad label", "x,1\n"},
		{"bad feature", "1,y\n"},
		{"label range", "5,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.name == "empty"
			_, err := ReadCSV(strings.NewReader(tt.data), CSVConfig{Classes: 2, Header: header})
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_MaxSamples(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("0,1\n1,2\n0,3\n"), CSVConfig{Classes: 2, MaxSamples: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func writeIDXImages(t *testing.T, path string, images [][]byte, rows, cols int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{idxImageMagic, uint32(len(images)), uint32(rows), uint32(cols)}))
	for _, img := range images {
		buf.Write(img)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func writeIDXLabels(t *testing.T, path string, labels []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{idxLabelMagic, uint32(len(labels))}))
	buf.Write(labels)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestLoadIDX(t *testing.T) {
	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	labels := filepath.Join(dir, "labels")
	writeIDXImages(t, images, [][]byte{{0, 255, 51, 0}, {255, 255, 0, 0}, {1, 2, 3, 4}}, 2, 2)
	writeIDXLabels(t, labels, []byte{3, 1, 0})

	d, err := LoadIDX(images, labels, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 4, d.Features())
	assert.InDeltaSlice(t, []float64{0, 1, 0.2, 0, 1, 1, 0, 0}, d.Inputs.Data(), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 1, 0, 0}, d.Targets.Data())
}

func TestLoadIDX_Errors(t *testing.T) {
	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	labels := filepath.Join(dir, "labels")
	writeIDXImages(t, images, [][]byte{{1}, {2}}, 1, 1)
	writeIDXLabels(t, labels, []byte{0})

	_, err := LoadIDX(images, labels, 2, 0)
	assert.Error(t, err, "count mismatch")

	_, err = LoadIDX(labels, labels, 2, 0)
	assert.Error(t, err, "wrong magic")

	_, err = LoadIDX(filepath.Join(dir, "missing"), labels, 2, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMNIST_FileNames(t *testing.T) {
	dir := t.TempDir()
	img := make([]byte, MNISTFeatures)
	writeIDXImages(t, filepath.Join(dir, "t10k-images-idx3-ubyte"), [][]byte{img}, MNISTSide, MNISTSide)
	writeIDXLabels(t, filepath.Join(dir, "t10k-labels-idx1-ubyte"), []byte{7})

	d, err := LoadMNIST(dir, false, 0)
	require.NoError(t, err)
	assert.Equal(t, MNISTFeatures, d.Features())
	assert.Equal(t, MNISTClasses, d.Classes())

	_, err = LoadMNIST(dir, true, 0)
	assert.Error(t, err)
}

func TestSyntheticMNIST(t *testing.T) {
	d, err := SyntheticMNIST(2, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 20, d.Len())
	assert.Equal(t, MNISTFeatures, d.Features())
	// digit 3 lights rows 6..13
	assert.Equal(t, 0.8, d.Inputs.At(3, 6*MNISTSide+5))
	assert.Zero(t, d.Inputs.At(3, 5*MNISTSide+5))
	assert.Equal(t, 1.0, d.Targets.At(13, 3))

	noisy, err := SyntheticMNIST(1, 0.1, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	for _, v := range noisy.Inputs.Data() {
		assert.True(t, v >= 0 && v <= 1)
	}
}

func TestBlobs(t *testing.T) {
	d, err := Blobs(3, 2, 5, 4, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, 15, d.Len())
	assert.Equal(t, 3, d.Classes())
}

func TestReadIDX_OversizedHeader(t *testing.T) {
	var images bytes.Buffer
	require.NoError(t, binary.Write(&images, binary.BigEndian, []uint32{idxImageMagic, 1 << 31, 1 << 16, 1 << 16}))
	_, err := ReadIDXImages(&images)
	assert.ErrorIs(t, err, ErrIDXSize)

	images.Reset()
	require.NoError(t, binary.Write(&images, binary.BigEndian, []uint32{idxImageMagic, 1 << 21, 28, 28}))
	_, err = ReadIDXImages(&images)
	assert.ErrorIs(t, err, ErrIDXSize)

	var labels bytes.Buffer
	require.NoError(t, binary.Write(&labels, binary.BigEndian, []uint32{idxLabelMagic, 1<<31 + 1}))
	_, err = ReadIDXLabels(&labels)
	assert.ErrorIs(t, err, ErrIDXSize)

	// A header within the limit but longer than the data fails on read.
	labels.Reset()
	require.NoError(t, binary.Write(&labels, binary.BigEndian, []uint32{idxLabelMagic, 10}))
	labels.Write([]byte{1, 2})
	_, err = ReadIDXLabels(&labels)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
