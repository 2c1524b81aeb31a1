// Package nn implements neural network modules for the PINN framework.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Buffer: Non-trainable module state that follows the module across devices
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: MSE, L1
//   - Field2D: 2D grid of learnable scalars with a differentiable gather
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// BufferHolder is implemented by modules that carry non-trainable state
// alongside their parameters (normalization bounds, running statistics).
// Move relocates buffers together with parameters, so modules never need
// device-specific relocation code of their own.
type BufferHolder[B tensor.Backend] interface {
	Buffers() []*Buffer[B]
}

// Move relocates all of a module's parameters, and its buffers if it has
// any, to the given device.
func Move[B tensor.Backend](m Module[B], device tensor.Device) {
	for _, p := range m.Parameters() {
		p.MoveTo(device)
	}
	if holder, ok := any(m).(BufferHolder[B]); ok {
		for _, buf := range holder.Buffers() {
			buf.MoveTo(device)
		}
	}
}
