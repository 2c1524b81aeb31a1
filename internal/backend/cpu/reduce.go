package cpu

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// Sum reduces the tensor to its total sum with shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	case tensor.Int32:
		result.AsInt32()[0] = sumKernel(x.AsInt32())
	case tensor.Int64:
		result.AsInt64()[0] = sumKernel(x.AsInt64())
	default:
		panic("sum: unsupported dtype")
	}
	return result
}

// SumDim sums along the given dimension.
// If keepDim is true the reduced dimension is kept with size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumDim: invalid dim %d for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumDim: %v", err))
	}

	// Decompose the source into [outer, dim, inner] blocks
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(result.AsFloat32(), x.AsFloat32(), outer, shape[dim], inner)
	case tensor.Float64:
		sumDimKernel(result.AsFloat64(), x.AsFloat64(), outer, shape[dim], inner)
	case tensor.Int32:
		sumDimKernel(result.AsInt32(), x.AsInt32(), outer, shape[dim], inner)
	case tensor.Int64:
		sumDimKernel(result.AsInt64(), x.AsInt64(), outer, shape[dim], inner)
	default:
		panic("sumDim: unsupported dtype")
	}
	return result
}

func sumKernel[T tensor.DType](src []T) T {
	var total T
	for _, v := range src {
		total += v
	}
	return total
}

func sumDimKernel[T tensor.DType](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var total T
			for d := 0; d < size; d++ {
				total += src[(o*size+d)*inner+i]
			}
			dst[o*inner+i] = total
		}
	}
}
