package ops

import "github.com/pinn-ml/pinn/internal/tensor"

// ScalarOp represents an element-wise operation with a scalar constant:
// output = input op scalar.
//
// Recording scalar ops matters: a model output scaled by a constant
// multiplier still needs its gradient to reach the parameters behind it.
//
// Backward pass by kind:
//   - mul: grad_input = outputGrad * scalar
//   - div: grad_input = outputGrad / scalar
//   - add, sub: grad_input = outputGrad (the constant contributes nothing)
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
	kind   ScalarKind
}

// ScalarKind selects which scalar operation was applied.
type ScalarKind int

// Scalar operation kinds.
const (
	ScalarMul ScalarKind = iota
	ScalarDiv
	ScalarAdd
	ScalarSub
)

// NewScalarOp creates a new ScalarOp.
func NewScalarOp(input, output *tensor.RawTensor, scalar any, kind ScalarKind) *ScalarOp {
	return &ScalarOp{
		input:  input,
		output: output,
		scalar: scalar,
		kind:   kind,
	}
}

// Backward computes the input gradient for the scalar operation.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case ScalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case ScalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	case ScalarAdd, ScalarSub:
		return []*tensor.RawTensor{outputGrad.Clone()}
	default:
		panic("scalarOp: unknown kind")
	}
}

// Inputs returns the input tensor.
func (op *ScalarOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor {
	return op.output
}
