package nn

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// MSELoss computes the mean squared error between prediction and target.
//
// Loss = mean((prediction - target)²)
//
// Every step goes through backend ops (Sub, Mul, Sum, DivScalar) so the
// whole loss is on the tape and gradients flow to the prediction.
// Returns a shape-[1] tensor.
func MSELoss[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !prediction.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("MSELoss: shape mismatch: prediction %v vs target %v",
			prediction.Shape(), target.Shape()))
	}

	diff := prediction.Sub(target)
	return diff.Mul(diff).Mean()
}

// L1Loss computes the mean absolute error between prediction and target.
//
// Loss = mean(|prediction - target|)
//
// Returns a shape-[1] tensor; fully tape-recorded like MSELoss.
func L1Loss[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !prediction.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("L1Loss: shape mismatch: prediction %v vs target %v",
			prediction.Shape(), target.Shape()))
	}

	return prediction.Sub(target).Abs().Mean()
}
