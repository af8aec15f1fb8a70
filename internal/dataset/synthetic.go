package dataset

import (
	"math/rand"
)

// MNIST image geometry.
const (
	MNISTSide     = 28
	MNISTFeatures = MNISTSide * MNISTSide
	MNISTClasses  = 10
)

// SyntheticMNIST generates perClass noisy copies of ten MNIST-shaped
// patterns, one per digit. Pattern i is a horizontal band starting at row
// 2·i. This is not real MNIST data; it exercises the pipeline when no files
// are available.
func SyntheticMNIST(perClass int, noise float64, rng *rand.Rand) (*Dataset, error) {
	n := perClass * MNISTClasses
	samples := make([][]float64, 0, n)
	labels := make([]int, 0, n)

	for c := 0; c < perClass; c++ {
		for digit := 0; digit < MNISTClasses; digit++ {
			img := make([]float64, MNISTFeatures)
			startRow := digit * 2
			for row := startRow; row < startRow+8 && row < MNISTSide; row++ {
				for col := 5; col < 23; col++ {
					img[row*MNISTSide+col] = 0.8
				}
			}
			if noise > 0 {
				for i := range img {
					img[i] = min(1, max(0, img[i]+noise*(rng.Float64()*2-1)))
				}
			}
			samples = append(samples, img)
			labels = append(labels, digit)
		}
	}

	return FromLabels(samples, labels, MNISTClasses)
}

// Blobs generates classes Gaussian clusters in features dimensions, n samples
// per class. Cluster c is centred at spread·c on every axis.
func Blobs(classes, features, n int, spread float64, rng *rand.Rand) (*Dataset, error) {
	samples := make([][]float64, 0, classes*n)
	labels := make([]int, 0, classes*n)

	for i := 0; i < n; i++ {
		for c := 0; c < classes; c++ {
			x := make([]float64, features)
			for j := range x {
				x[j] = spread*float64(c) + rng.NormFloat64()
			}
			samples = append(samples, x)
			labels = append(labels, c)
		}
	}

	return FromLabels(samples, labels, classes)
}
