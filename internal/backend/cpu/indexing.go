package cpu

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// Take gathers rows from a table using an int32 index tensor.
//
// For a 1D table [N] with indices [M] the result is [M]; for a 2D table
// [N, D] the result is [M, D]. Out-of-range indices panic: the coefficient
// grids this feeds are fixed-size, so a bad index is a caller bug, not data.
func (cpu *CPUBackend) Take(table, indices *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("take: indices must be int32, got %s", indices.DType()))
	}
	tShape := indices.Shape()
	if len(tShape) != 1 {
		panic(fmt.Sprintf("take: indices must be 1D, got %v", tShape))
	}

	tableShape := table.Shape()
	n := tableShape[0]
	rowLen := 1
	for _, d := range tableShape[1:] {
		rowLen *= d
	}

	m := tShape[0]
	outShape := make(tensor.Shape, 0, len(tableShape))
	outShape = append(outShape, m)
	outShape = append(outShape, tableShape[1:]...)

	result, err := tensor.NewRaw(outShape, table.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("take: %v", err))
	}

	idx := indices.AsInt32()
	for _, id := range idx {
		if id < 0 || int(id) >= n {
			panic(fmt.Sprintf("take: index %d out of range [0, %d)", id, n))
		}
	}

	switch table.DType() {
	case tensor.Float32:
		takeKernel(result.AsFloat32(), table.AsFloat32(), idx, rowLen)
	case tensor.Float64:
		takeKernel(result.AsFloat64(), table.AsFloat64(), idx, rowLen)
	case tensor.Int32:
		takeKernel(result.AsInt32(), table.AsInt32(), idx, rowLen)
	case tensor.Int64:
		takeKernel(result.AsInt64(), table.AsInt64(), idx, rowLen)
	default:
		panic("take: unsupported dtype")
	}
	return result
}

func takeKernel[T tensor.DType](dst, table []T, indices []int32, rowLen int) {
	for i, id := range indices {
		copy(dst[i*rowLen:(i+1)*rowLen], table[int(id)*rowLen:(int(id)+1)*rowLen])
	}
}
