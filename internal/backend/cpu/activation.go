package cpu

import (
	"math"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// ReLU applies the rectified linear unit: max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, "relu")
}

// Sigmoid applies the logistic function: 1 / (1 + exp(-x)).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	}, "sigmoid")
}

// Tanh applies the hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, math.Tanh, "tanh")
}
