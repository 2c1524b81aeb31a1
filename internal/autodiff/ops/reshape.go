package ops

import "github.com/pinn-ml/pinn/internal/tensor"

// ReshapeOp represents a shape change that preserves element order.
// Squeeze and Unsqueeze record this op too: their backward is identical.
//
// Backward pass: reshape the gradient back to the input's shape.
// Recording this op is what lets gradients reach parameters that were
// viewed under a different shape (e.g. a 2D coefficient grid flattened
// for a table lookup).
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		input:  input,
		output: output,
	}
}

// Backward reshapes the gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// Inputs returns the input tensor.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reshaped tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor {
	return op.output
}
