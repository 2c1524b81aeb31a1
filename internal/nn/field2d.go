package nn

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// Field2D is a 2D grid of independently learnable scalars.
//
// Every cell is a trainable coefficient: the grid is stored as a single
// [rows, cols] Parameter initialized from N(0, 1). Cells are read with a
// differentiable gather, so a batch of (i, j) lookups trains exactly the
// cells it touched (duplicate lookups accumulate their gradients).
//
// This is the building block for spatially varying PDE coefficients: one
// field per coefficient, one cell per grid point.
type Field2D[B tensor.Backend] struct {
	rows    int
	cols    int
	param   *Parameter[B] // [rows, cols]
	backend B
}

// NewField2D creates a field of rows×cols learnable scalars, N(0, 1) init.
func NewField2D[B tensor.Backend](name string, rows, cols int, backend B) *Field2D[B] {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("Field2D: invalid grid size %dx%d", rows, cols))
	}

	param := NewParameter(name, Randn(tensor.Shape{rows, cols}, backend))
	return &Field2D[B]{
		rows:    rows,
		cols:    cols,
		param:   param,
		backend: backend,
	}
}

// Rows returns the number of grid rows.
func (f *Field2D[B]) Rows() int {
	return f.rows
}

// Cols returns the number of grid columns.
func (f *Field2D[B]) Cols() int {
	return f.cols
}

// Parameter returns the underlying grid parameter.
func (f *Field2D[B]) Parameter() *Parameter[B] {
	return f.param
}

// At returns the current value of cell (i, j).
func (f *Field2D[B]) At(i, j int) float32 {
	return f.param.Tensor().At(i, j)
}

// FlatIndex converts grid coordinates to the flat row-major index used by
// Gather. Panics on out-of-range coordinates: a bad index means corrupt
// sample data, and silently reading a neighboring cell would train the
// wrong coefficient.
func (f *Field2D[B]) FlatIndex(i, j int) int32 {
	if i < 0 || i >= f.rows {
		panic(fmt.Sprintf("Field2D: row index %d out of range [0, %d)", i, f.rows))
	}
	if j < 0 || j >= f.cols {
		panic(fmt.Sprintf("Field2D: column index %d out of range [0, %d)", j, f.cols))
	}
	return int32(i*f.cols + j)
}

// Gather reads the cells named by flat row-major indices (see FlatIndex)
// and returns them as a [n] tensor.
//
// The grid is viewed as a flat [rows*cols] table and read with Take. Both
// the reshape and the lookup are tape-recorded, so gradients scatter-add
// back into the 2D parameter.
func (f *Field2D[B]) Gather(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	table := f.param.Tensor().Reshape(f.rows * f.cols)
	return table.Take(indices)
}

// Parameters returns the grid parameter.
func (f *Field2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{f.param}
}

// StateDict returns the grid under the field's parameter name.
func (f *Field2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		f.param.Name(): f.param.Tensor().Raw(),
	}
}

// LoadStateDict loads the grid values from a state dictionary.
func (f *Field2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	raw, ok := stateDict[f.param.Name()]
	if !ok {
		return fmt.Errorf("missing %s in state dict", f.param.Name())
	}
	return copyParam(f.param, raw, tensor.Shape{f.rows, f.cols})
}
