package cpu

import (
	"github.com/pinn-ml/pinn/internal/tensor"
)

// binOp selects which element-wise binary operation a kernel applies.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func apply[T tensor.DType](x, y T, op binOp) T {
	switch op {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	case opMul:
		return x * y
	case opDiv:
		return x / y
	default:
		panic("unknown binary op")
	}
}

// binaryInplace performs a += b style updates (a op= b).
// Requires: len(a) == len(b) and a backed by a unique buffer.
func binaryInplace[T tensor.DType](a, b []T, op binOp) {
	for i := range a {
		a[i] = apply(a[i], b[i], op)
	}
}

// binaryVectorized computes dst = a op b over same-shape flat slices.
func binaryVectorized[T tensor.DType](dst, a, b []T, op binOp) {
	for i := range dst {
		dst[i] = apply(a[i], b[i], op)
	}
}

// binaryBroadcast computes dst = a op b with stride-based broadcasting.
// Broadcast dimensions carry stride 0 so the same source element is reused.
func binaryBroadcast[T tensor.DType](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op binOp) {
	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	for i := range dst {
		aIdx := computeFlatIndex(i, outStrides, aStrides)
		bIdx := computeFlatIndex(i, outStrides, bStrides)
		dst[i] = apply(a[aIdx], b[bIdx], op)
	}
}

func binaryInplaceDispatch(a, b *tensor.RawTensor, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		binaryInplace(a.AsFloat32(), b.AsFloat32(), op)
	case tensor.Float64:
		binaryInplace(a.AsFloat64(), b.AsFloat64(), op)
	case tensor.Int32:
		binaryInplace(a.AsInt32(), b.AsInt32(), op)
	case tensor.Int64:
		binaryInplace(a.AsInt64(), b.AsInt64(), op)
	default:
		panic("binaryInplace: unsupported dtype")
	}
}

func binaryVectorizedDispatch(result, a, b *tensor.RawTensor, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		binaryVectorized(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op)
	case tensor.Float64:
		binaryVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op)
	case tensor.Int32:
		binaryVectorized(result.AsInt32(), a.AsInt32(), b.AsInt32(), op)
	case tensor.Int64:
		binaryVectorized(result.AsInt64(), a.AsInt64(), b.AsInt64(), op)
	default:
		panic("binaryVectorized: unsupported dtype")
	}
}

func binaryBroadcastDispatch(result, a, b *tensor.RawTensor, outShape tensor.Shape, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		binaryBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Float64:
		binaryBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int32:
		binaryBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int64:
		binaryBroadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, op)
	default:
		panic("binaryBroadcast: unsupported dtype")
	}
}

// transposeKernel copies src into dst with dimensions permuted by axes.
func transposeKernel[T tensor.DType](dst, src []T, srcShape tensor.Shape, axes []int) {
	ndim := len(srcShape)
	srcStrides := srcShape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = srcShape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	for dstIdx := range dst {
		// Decompose dst index into coordinates, map through the permutation
		remaining := dstIdx
		srcIdx := 0
		for i := 0; i < ndim; i++ {
			coord := remaining / dstStrides[i]
			remaining %= dstStrides[i]
			srcIdx += coord * srcStrides[axes[i]]
		}
		dst[dstIdx] = src[srcIdx]
	}
}

func transposeDispatch(result, src *tensor.RawTensor, axes []int) {
	switch src.DType() {
	case tensor.Float32:
		transposeKernel(result.AsFloat32(), src.AsFloat32(), src.Shape(), axes)
	case tensor.Float64:
		transposeKernel(result.AsFloat64(), src.AsFloat64(), src.Shape(), axes)
	case tensor.Int32:
		transposeKernel(result.AsInt32(), src.AsInt32(), src.Shape(), axes)
	case tensor.Int64:
		transposeKernel(result.AsInt64(), src.AsInt64(), src.Shape(), axes)
	default:
		panic("transpose: unsupported dtype")
	}
}
