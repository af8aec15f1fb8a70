package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IDX magic numbers for unsigned-byte image and label files.
const (
	idxImageMagic = 2051
	idxLabelMagic = 2049
)

// MaxIDXBytes bounds the payload an IDX header may declare. The MNIST
// training images take about 47 MB.
const MaxIDXBytes = 1 << 30

// ErrIDXSize is reported for a header declaring more than MaxIDXBytes.
var ErrIDXSize = errors.New("idx payload too large")

// ReadIDXImages reads an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func ReadIDXImages(r io.Reader) ([][]byte, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxImageMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], idxImageMagic)
	}

	numImages, rows, cols := int(header[1]), int(header[2]), int(header[3])
	if numImages > MaxIDXBytes || rows > MaxIDXBytes || cols > MaxIDXBytes ||
		rows*cols > MaxIDXBytes || (rows*cols > 0 && numImages > MaxIDXBytes/(rows*cols)) {
		return nil, fmt.Errorf("%w: %d images of %dx%d", ErrIDXSize, numImages, rows, cols)
	}
	imageSize := rows * cols
	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, nil
}

// ReadIDXLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadIDXLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxLabelMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], idxLabelMagic)
	}

	if int(header[1]) > MaxIDXBytes {
		return nil, fmt.Errorf("%w: %d labels", ErrIDXSize, header[1])
	}
	labels := make([]byte, header[1])
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// LoadIDX loads an image file and its label file, scaling pixels to [0, 1].
// maxSamples limits the number of samples (0 = load all).
func LoadIDX(imagePath, labelPath string, classes, maxSamples int) (*Dataset, error) {
	images, err := readFile(imagePath, ReadIDXImages)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	raw, err := readFile(labelPath, ReadIDXLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if len(images) != len(raw) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images), len(raw))
	}

	n := len(images)
	if maxSamples > 0 && n > maxSamples {
		n = maxSamples
	}

	samples := make([][]float64, n)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		samples[i] = make([]float64, len(images[i]))
		for j, px := range images[i] {
			samples[i][j] = float64(px) / 255.0
		}
		labels[i] = int(raw[i])
	}
	return FromLabels(samples, labels, classes)
}

// LoadMNIST loads the MNIST training or test split from dataDir.
//
// Expected files in dataDir:
//   - train-images-idx3-ubyte (or t10k-images-idx3-ubyte for test)
//   - train-labels-idx1-ubyte (or t10k-labels-idx1-ubyte for test)
func LoadMNIST(dataDir string, train bool, maxSamples int) (*Dataset, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}
	return LoadIDX(
		filepath.Join(dataDir, prefix+"-images-idx3-ubyte"),
		filepath.Join(dataDir, prefix+"-labels-idx1-ubyte"),
		MNISTClasses,
		maxSamples,
	)
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return read(f)
}
