package cpu

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/tensor"
)

// Cat concatenates tensors along the given dimension.
// All tensors must share dtype and shape except along dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: requires at least one tensor")
	}

	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: invalid dim %d for shape %v", dim, first.Shape()))
	}

	catSize := 0
	for _, t := range tensors {
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch: %s vs %s", first.DType(), t.DType()))
		}
		if len(t.Shape()) != ndim {
			panic(fmt.Sprintf("cat: rank mismatch: %v vs %v", first.Shape(), t.Shape()))
		}
		for i := range t.Shape() {
			if i != dim && t.Shape()[i] != first.Shape()[i] {
				panic(fmt.Sprintf("cat: shapes differ outside dim %d: %v vs %v", dim, first.Shape(), t.Shape()))
			}
		}
		catSize += t.Shape()[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = catSize

	result, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Copy blockwise: for each outer index, append each tensor's slab
	elemSize := first.DType().Size()
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= outShape[i]
	}

	dst := result.Data()
	rowBytes := catSize * inner * elemSize
	for o := 0; o < outer; o++ {
		offset := o * rowBytes
		for _, t := range tensors {
			slabBytes := t.Shape()[dim] * inner * elemSize
			src := t.Data()[o*slabBytes : (o+1)*slabBytes]
			copy(dst[offset:offset+slabBytes], src)
			offset += slabBytes
		}
	}

	return result
}

// Chunk splits the tensor into n equal parts along the given dimension.
// The dimension size must be divisible by n.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("chunk: invalid dim %d for shape %v", dim, shape))
	}
	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d (size %d) not divisible by %d", dim, shape[dim], n))
	}

	partSize := shape[dim] / n
	outShape := shape.Clone()
	outShape[dim] = partSize

	elemSize := x.DType().Size()
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	src := x.Data()
	results := make([]*tensor.RawTensor, n)
	for c := 0; c < n; c++ {
		part, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
		if err != nil {
			panic(fmt.Sprintf("chunk: %v", err))
		}
		dst := part.Data()
		slabBytes := partSize * inner * elemSize
		rowBytes := shape[dim] * inner * elemSize
		for o := 0; o < outer; o++ {
			srcOff := o*rowBytes + c*slabBytes
			copy(dst[o*slabBytes:(o+1)*slabBytes], src[srcOff:srcOff+slabBytes])
		}
		results[c] = part
	}

	return results
}

// Unsqueeze adds a dimension of size 1 at the given position.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("unsqueeze: invalid dim %d for shape %v", dim, shape))
	}

	newShape := make(tensor.Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return cpu.Reshape(x, newShape)
}

// Squeeze removes a dimension of size 1 at the given position.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("squeeze: invalid dim %d for shape %v", dim, shape))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	if len(newShape) == 0 {
		newShape = tensor.Shape{1}
	}

	return cpu.Reshape(x, newShape)
}
