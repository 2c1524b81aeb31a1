package ops

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// CatOp represents concatenation along a dimension: output = cat(inputs, dim).
//
// Backward pass: the gradient is split back into slabs matching each
// input's extent along the concatenation dimension.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewCatOp creates a new CatOp.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{
		inputs: inputs,
		output: output,
		dim:    dim,
	}
}

// Backward splits the output gradient back into per-input gradients.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	outShape := op.output.Shape()
	ndim := len(outShape)
	elemSize := op.output.DType().Size()

	outer, inner := 1, 1
	for i := 0; i < op.dim; i++ {
		outer *= outShape[i]
	}
	for i := op.dim + 1; i < ndim; i++ {
		inner *= outShape[i]
	}

	grads := make([]*tensor.RawTensor, len(op.inputs))
	src := outputGrad.Data()
	rowBytes := outShape[op.dim] * inner * elemSize

	dimOffset := 0
	for j, input := range op.inputs {
		grad, err := tensor.NewRaw(input.Shape(), input.DType(), backend.Device())
		if err != nil {
			panic(fmt.Sprintf("cat backward: %v", err))
		}
		dst := grad.Data()
		slabBytes := input.Shape()[op.dim] * inner * elemSize
		for o := 0; o < outer; o++ {
			srcOff := o*rowBytes + dimOffset*inner*elemSize
			copy(dst[o*slabBytes:(o+1)*slabBytes], src[srcOff:srcOff+slabBytes])
		}
		dimOffset += input.Shape()[op.dim]
		grads[j] = grad
	}

	return grads
}

// Inputs returns the concatenated tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated tensor.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}
