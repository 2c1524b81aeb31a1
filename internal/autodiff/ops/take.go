package ops

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// TakeOp represents a differentiable table lookup: output = table[indices].
// The indices are constants; only the table receives a gradient.
//
// Backward pass: scatter-add. Each output row's gradient is added into the
// table row it was read from. Duplicate indices accumulate, which is what
// makes per-cell coefficient grids trainable from batched samples.
type TakeOp struct {
	table   *tensor.RawTensor
	indices *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewTakeOp creates a new TakeOp.
func NewTakeOp(table, indices, output *tensor.RawTensor) *TakeOp {
	return &TakeOp{
		table:   table,
		indices: indices,
		output:  output,
	}
}

// Backward scatter-adds the output gradient into a table-shaped gradient.
func (op *TakeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.table, backend.Device())

	rowLen := 1
	for _, d := range op.table.Shape()[1:] {
		rowLen *= d
	}

	idx := op.indices.AsInt32()
	switch op.table.DType() {
	case tensor.Float32:
		scatterAdd(grad.AsFloat32(), outputGrad.AsFloat32(), idx, rowLen)
	case tensor.Float64:
		scatterAdd(grad.AsFloat64(), outputGrad.AsFloat64(), idx, rowLen)
	default:
		panic(fmt.Sprintf("take backward: unsupported dtype %s", op.table.DType()))
	}

	return []*tensor.RawTensor{grad}
}

func scatterAdd[T tensor.DType](table, grad []T, indices []int32, rowLen int) {
	for i, id := range indices {
		dst := table[int(id)*rowLen : (int(id)+1)*rowLen]
		src := grad[i*rowLen : (i+1)*rowLen]
		for j := range dst {
			dst[j] += src[j]
		}
	}
}

// Inputs returns only the table: indices are not differentiated.
func (op *TakeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.table}
}

// Output returns the gathered tensor.
func (op *TakeOp) Output() *tensor.RawTensor {
	return op.output
}
