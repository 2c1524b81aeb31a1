package dataset

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// DerivativeSet holds derivative samples in a flat row-major buffer,
// NumColumns values per row.
type DerivativeSet struct {
	data []float32
	rows int
}

// New wraps a flat row-major buffer as a DerivativeSet.
//
// The buffer length must be a multiple of NumColumns. The set takes
// ownership of the slice.
func New(data []float32) (*DerivativeSet, error) {
	if len(data)%NumColumns != 0 {
		return nil, fmt.Errorf("dataset: buffer length %d is not a multiple of %d columns",
			len(data), NumColumns)
	}
	return &DerivativeSet{data: data, rows: len(data) / NumColumns}, nil
}

// FromRows builds a DerivativeSet from per-row slices.
//
// Every row must have exactly NumColumns values.
func FromRows(rows [][]float32) (*DerivativeSet, error) {
	data := make([]float32, 0, len(rows)*NumColumns)
	for i, row := range rows {
		if len(row) != NumColumns {
			return nil, fmt.Errorf("dataset: row %d has %d columns, want %d",
				i, len(row), NumColumns)
		}
		data = append(data, row...)
	}
	return &DerivativeSet{data: data, rows: len(rows)}, nil
}

// Len returns the number of rows.
func (d *DerivativeSet) Len() int {
	return d.rows
}

// Row returns row i as a view into the underlying buffer.
func (d *DerivativeSet) Row(i int) []float32 {
	if i < 0 || i >= d.rows {
		panic(fmt.Sprintf("dataset: row %d out of range [0, %d)", i, d.rows))
	}
	return d.data[i*NumColumns : (i+1)*NumColumns]
}

// At returns the value in row i, column col.
func (d *DerivativeSet) At(i, col int) float32 {
	if col < 0 || col >= NumColumns {
		panic(fmt.Sprintf("dataset: column %d out of range [0, %d)", col, NumColumns))
	}
	return d.Row(i)[col]
}

// Select copies the named rows into a new DerivativeSet.
func (d *DerivativeSet) Select(indices []int) *DerivativeSet {
	data := make([]float32, 0, len(indices)*NumColumns)
	for _, i := range indices {
		data = append(data, d.Row(i)...)
	}
	return &DerivativeSet{data: data, rows: len(indices)}
}

// Tensor materializes the whole set as a [rows, NumColumns] tensor.
func Tensor[B tensor.Backend](d *DerivativeSet, backend B) *tensor.Tensor[float32, B] {
	t, err := tensor.FromSlice(d.data, tensor.Shape{d.rows, NumColumns}, backend)
	if err != nil {
		panic(fmt.Sprintf("dataset: %v", err))
	}
	return t
}
