package ops

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// If shapes already match, clone to avoid aliasing issues
	// (prevents inplace operations from modifying shared gradients)
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// NumPy broadcasting aligns shapes from the right.
	// If target has fewer dimensions, sum leading dimensions first.
	gradDims := len(gradShape)
	targetDims := len(targetShape)

	result := grad
	if targetDims < gradDims {
		dimsToSum := gradDims - targetDims
		for i := 0; i < dimsToSum; i++ {
			result = backend.SumDim(result, 0, false)
		}
		gradShape = result.Shape()
	}

	// Now sum along dimensions where target is 1
	for i := 0; i < targetDims; i++ {
		if targetShape[i] == 1 && gradShape[i] > 1 {
			result = backend.SumDim(result, i, true)
			gradShape = result.Shape()
		}
	}

	// Reshape if necessary to match target shape exactly
	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// negateGradient returns -grad.
func negateGradient(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	zeros, err := tensor.NewRaw(grad.Shape(), grad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("negateGradient: failed to create zeros: %v", err))
	}
	return backend.Sub(zeros, grad)
}

// zerosLike creates a zero-filled tensor with the same shape and dtype as t.
func zerosLike(t *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), device)
	if err != nil {
		panic(fmt.Sprintf("zerosLike: %v", err))
	}
	return result
}
