package nn

import (
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// They typically represent weights and biases of layers.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // after backward pass
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Gradient tensor (computed during backward pass)
}

// NewParameter creates a new trainable parameter.
//
// The parameter tensor should be initialized before creating the Parameter.
// Gradient will be allocated during the first backward pass.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
		grad:   nil,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet (before backward pass).
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
//
// This is typically called by the optimizer or during backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
//
// This should be called before each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// MoveTo relocates the parameter tensor to the given device.
// Any pending gradient is dropped: gradients are device-resident and
// recomputed on the next backward pass.
func (p *Parameter[B]) MoveTo(device tensor.Device) {
	p.tensor = p.tensor.MoveTo(device)
	p.grad = nil
}

// Buffer is non-trainable module state: tensors a module needs at forward
// time but never trains, such as normalization bounds. Buffers relocate
// with the module (see Move) but are excluded from optimization.
type Buffer[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewBuffer creates a new buffer.
func NewBuffer[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Buffer[B] {
	return &Buffer[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the buffer name.
func (b *Buffer[B]) Name() string {
	return b.name
}

// Tensor returns the buffer tensor.
func (b *Buffer[B]) Tensor() *tensor.Tensor[float32, B] {
	return b.tensor
}

// MoveTo relocates the buffer tensor to the given device.
func (b *Buffer[B]) MoveTo(device tensor.Device) {
	b.tensor = b.tensor.MoveTo(device)
}
