package ops

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// ReLUOp represents the rectified linear unit: output = max(0, input).
//
// Backward pass: gradient passes where the input was positive, zero elsewhere.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the gradient by the sign of the input.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input, backend.Device())

	switch op.input.DType() {
	case tensor.Float32:
		in, g, out := op.input.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i, v := range in {
			if v > 0 {
				out[i] = g[i]
			}
		}
	case tensor.Float64:
		in, g, out := op.input.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i, v := range in {
			if v > 0 {
				out[i] = g[i]
			}
		}
	default:
		panic(fmt.Sprintf("relu backward: unsupported dtype %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the activated tensor.
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}

// SigmoidOp represents the logistic function: output = 1 / (1 + exp(-input)).
//
// Backward pass: grad_input = outputGrad * output * (1 - output).
// The derivative is expressed in terms of the saved output, so the
// forward result doubles as the backward cache.
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes grad * out * (1 - out).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input, backend.Device())

	switch op.output.DType() {
	case tensor.Float32:
		o, g, out := op.output.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range o {
			out[i] = g[i] * o[i] * (1 - o[i])
		}
	case tensor.Float64:
		o, g, out := op.output.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range o {
			out[i] = g[i] * o[i] * (1 - o[i])
		}
	default:
		panic(fmt.Sprintf("sigmoid backward: unsupported dtype %s", op.output.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the activated tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor {
	return op.output
}

// TanhOp represents the hyperbolic tangent activation.
//
// Backward pass: grad_input = outputGrad * (1 - output²).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad * (1 - out²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.input, backend.Device())

	switch op.output.DType() {
	case tensor.Float32:
		o, g, out := op.output.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range o {
			out[i] = g[i] * (1 - o[i]*o[i])
		}
	case tensor.Float64:
		o, g, out := op.output.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range o {
			out[i] = g[i] * (1 - o[i]*o[i])
		}
	default:
		panic(fmt.Sprintf("tanh backward: unsupported dtype %s", op.output.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the activated tensor.
func (op *TanhOp) Output() *tensor.RawTensor {
	return op.output
}
