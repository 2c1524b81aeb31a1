// Copyright 2026 PINN ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network building blocks.
package nn

import (
	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Buffer is non-trainable module state that relocates with the module.
type Buffer[B tensor.Backend] = nn.Buffer[B]

// NewBuffer creates a new buffer with the given name and tensor.
func NewBuffer[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Buffer[B] {
	return nn.NewBuffer(name, t)
}

// BufferHolder is implemented by modules that carry buffers.
type BufferHolder[B tensor.Backend] = nn.BufferHolder[B]

// Move relocates a module's parameters and buffers to the given device.
func Move[B tensor.Backend](m Module[B], device tensor.Device) {
	nn.Move(m, device)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(3, 500, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Field2D is a 2D grid of independently learnable scalars with a
// differentiable gather, for spatially varying coefficients.
type Field2D[B tensor.Backend] = nn.Field2D[B]

// NewField2D creates a rows×cols field of learnable scalars.
//
// Example:
//
//	backend := cpu.New()
//	field := nn.NewField2D("a_conv", 640, 480, backend)
func NewField2D[B tensor.Backend](name string, rows, cols int, backend B) *Field2D[B] {
	return nn.NewField2D(name, rows, cols, backend)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid represents the Sigmoid activation function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh represents the Tanh activation function.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a new Tanh activation layer.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Loss Functions

// MSELoss computes the mean squared error between prediction and target.
//
// Example:
//
//	loss := nn.MSELoss(predictions, targets)
func MSELoss[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return nn.MSELoss(prediction, target)
}

// L1Loss computes the mean absolute error between prediction and target.
func L1Loss[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return nn.L1Loss(prediction, target)
}

// Sequential

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential model.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(3, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 1, backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization functions

// Xavier initializes a tensor using Xavier/Glorot initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros initializes a tensor with zeros (for biases).
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones initializes a tensor with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn initializes a tensor with random values from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}
