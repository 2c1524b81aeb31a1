// Copyright 2026 PINN ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the public API for derivative sample storage.
package dataset

import (
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Column layout of a derivative sample row.
const (
	ColX    = dataset.ColX
	ColY    = dataset.ColY
	ColT    = dataset.ColT
	ColXIdx = dataset.ColXIdx
	ColYIdx = dataset.ColYIdx
	ColU    = dataset.ColU
	ColUXX  = dataset.ColUXX
	ColUYY  = dataset.ColUYY
	ColUT   = dataset.ColUT

	NumColumns = dataset.NumColumns
)

// DerivativeSet holds derivative samples in a flat row-major buffer.
type DerivativeSet = dataset.DerivativeSet

// New wraps a flat row-major buffer as a DerivativeSet.
func New(data []float32) (*DerivativeSet, error) {
	return dataset.New(data)
}

// FromRows builds a DerivativeSet from per-row slices.
func FromRows(rows [][]float32) (*DerivativeSet, error) {
	return dataset.FromRows(rows)
}

// LoadCSV reads derivative samples from a CSV file.
func LoadCSV(path string) (*DerivativeSet, error) {
	return dataset.LoadCSV(path)
}

// Batcher hands out fixed-size shuffled batches of a DerivativeSet.
type Batcher = dataset.Batcher

// NewBatcher creates a Batcher over set with the given batch size and
// shuffle seed.
func NewBatcher(set *DerivativeSet, batchSize int, seed int64) (*Batcher, error) {
	return dataset.NewBatcher(set, batchSize, seed)
}

// Tensor materializes a DerivativeSet as a [rows, NumColumns] tensor.
func Tensor[B tensor.Backend](d *DerivativeSet, backend B) *tensor.Tensor[float32, B] {
	return dataset.Tensor(d, backend)
}
