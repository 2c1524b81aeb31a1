package ops

import "github.com/pinn-ml/pinn/internal/tensor"

// ChunkOp represents a split into n equal parts along a dimension.
// It is the module's only multi-output operation: the tape collects
// gradients for every chunk before calling BackwardMulti.
//
// Backward pass: concatenate the chunk gradients back along dim.
type ChunkOp struct {
	input   *tensor.RawTensor
	outputs []*tensor.RawTensor
	dim     int
}

// NewChunkOp creates a new ChunkOp.
func NewChunkOp(input *tensor.RawTensor, outputs []*tensor.RawTensor, dim int) *ChunkOp {
	return &ChunkOp{
		input:   input,
		outputs: outputs,
		dim:     dim,
	}
}

// Backward is unused for multi-output operations; the tape calls BackwardMulti.
func (op *ChunkOp) Backward(_ *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	panic("chunk: use BackwardMulti for multi-output operations")
}

// BackwardMulti concatenates the per-chunk gradients back together.
// Safe to call backend.Cat here: the tape disables recording during backward.
func (op *ChunkOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}

// Inputs returns the split tensor.
func (op *ChunkOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the first chunk.
// The tape identifies multi-output operations via Outputs().
func (op *ChunkOp) Output() *tensor.RawTensor {
	return op.outputs[0]
}

// Outputs returns all chunks.
func (op *ChunkOp) Outputs() []*tensor.RawTensor {
	return op.outputs
}
