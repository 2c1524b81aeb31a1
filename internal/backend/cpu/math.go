package cpu

import (
	"fmt"
	"math"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, math.Exp, "exp")
}

// Log computes the element-wise natural logarithm.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, math.Log, "log")
}

// Sqrt computes the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, math.Sqrt, "sqrt")
}

// Abs computes the element-wise absolute value.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat(x, math.Abs, "abs")
}

// unaryFloat applies fn element-wise. Float dtypes only: the math ops are
// undefined for the integer index tensors.
func (cpu *CPUBackend) unaryFloat(x *tensor.RawTensor, fn func(float64) float64, name string) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i := range dst {
			dst[i] = float32(fn(float64(src[i])))
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i := range dst {
			dst[i] = fn(src[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (float tensors only)", name, x.DType()))
	}
	return result
}
