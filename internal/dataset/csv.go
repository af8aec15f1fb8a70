package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVConfig describes a label-first CSV file.
type CSVConfig struct {
	Classes    int     // Number of label classes.
	Scale      float64 // Features are divided by Scale (0 = leave as is).
	Header     bool    // Skip the first record.
	MaxSamples int     // Maximum number of samples to load (0 = load all).
}

// MNISTCSVConfig returns the configuration of the Kaggle-style MNIST CSV:
//
//	label,pixel0,pixel1,...,pixel783
//	5,0,0,12,...,0
func MNISTCSVConfig() CSVConfig {
	return CSVConfig{Classes: MNISTClasses, Scale: 255, Header: true}
}

// ReadCSV reads records of the form label,feature0,feature1,... . Every
// record must have the same width.
func ReadCSV(r io.Reader, cfg CSVConfig) (*Dataset, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	first := 0
	if cfg.Header {
		first = 1
	}
	if len(records) <= first {
		return nil, errors.New("CSV file is empty or missing header")
	}
	records = records[first:]
	if cfg.MaxSamples > 0 && len(records) > cfg.MaxSamples {
		records = records[:cfg.MaxSamples]
	}

	width := len(records[0])
	if width < 2 {
		return nil, fmt.Errorf("CSV record needs a label and at least one feature, got %d fields", width)
	}

	samples := make([][]float64, len(records))
	labels := make([]int, len(records))
	for i, record := range records {
		row := i + first + 1
		if len(record) != width {
			return nil, fmt.Errorf("invalid record length at row %d: got %d, want %d", row, len(record), width)
		}

		labels[i], err = strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid label at row %d: %w", row, err)
		}

		samples[i] = make([]float64, width-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid feature at row %d, column %d: %w", row, j+2, err)
			}
			if cfg.Scale != 0 {
				v /= cfg.Scale
			}
			samples[i][j] = v
		}
	}

	return FromLabels(samples, labels, cfg.Classes)
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, cfg CSVConfig) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, cfg)
}
