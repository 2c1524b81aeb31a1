package cpu

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opMul, "mulScalar")
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opAdd, "addScalar")
}

// SubScalar subtracts a scalar from every element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opSub, "subScalar")
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opDiv, "divScalar")
}

func (cpu *CPUBackend) scalarOp(x *tensor.RawTensor, scalar any, op binOp, name string) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(result.AsFloat32(), x.AsFloat32(), toFloat64(scalar, name), op)
	case tensor.Float64:
		scalarKernel(result.AsFloat64(), x.AsFloat64(), toFloat64(scalar, name), op)
	case tensor.Int32:
		scalarKernel(result.AsInt32(), x.AsInt32(), toFloat64(scalar, name), op)
	case tensor.Int64:
		scalarKernel(result.AsInt64(), x.AsInt64(), toFloat64(scalar, name), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}

func scalarKernel[T tensor.DType](dst, src []T, scalar float64, op binOp) {
	s := T(scalar)
	for i := range dst {
		dst[i] = apply(src[i], s, op)
	}
}

// toFloat64 normalizes the accepted scalar types to float64.
// The kernel converts back to the tensor's element type.
func toFloat64(scalar any, name string) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}
