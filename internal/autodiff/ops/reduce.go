package ops

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// SumOp represents a full reduction: output = sum(input), shape [1].
//
// Backward pass: every input element contributed with weight 1, so the
// gradient is the scalar output gradient broadcast to the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward fills an input-shaped tensor with the scalar gradient value.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input, backend.Device())

	switch op.input.DType() {
	case tensor.Float32:
		v := outputGrad.AsFloat32()[0]
		out := grad.AsFloat32()
		for i := range out {
			out[i] = v
		}
	case tensor.Float64:
		v := outputGrad.AsFloat64()[0]
		out := grad.AsFloat64()
		for i := range out {
			out[i] = v
		}
	default:
		panic(fmt.Sprintf("sum backward: unsupported dtype %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the shape-[1] sum.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}

// SumDimOp represents a reduction along one dimension.
//
// Backward pass: the gradient is replicated along the reduced dimension.
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{
		input:   input,
		output:  output,
		dim:     dim,
		keepDim: keepDim,
	}
}

// Backward replicates the gradient along the reduced dimension.
// The gradient is first viewed with the reduced dimension kept at size 1,
// then broadcast-added onto a zero tensor of the input's shape.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	keepShape := op.input.Shape().Clone()
	keepShape[op.dim] = 1

	g := outputGrad
	if !g.Shape().Equal(keepShape) {
		g = backend.Reshape(g, keepShape)
	}

	grad := backend.Add(zerosLike(op.input, backend.Device()), g)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced tensor.
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
