// Copyright 2026 PINN ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pinn provides the public API for physics-informed neural
// network components.
package pinn

import (
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/pinn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Norm reduces a prediction/target pair to a scalar loss tensor.
type Norm[B tensor.Backend] = pinn.Norm[B]

// L2Norm is the mean squared error.
func L2Norm[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return pinn.L2Norm(prediction, target)
}

// L1Norm is the mean absolute error.
func L1Norm[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return pinn.L1Norm(prediction, target)
}

// ResolveNorm maps "L1" or "L2" to the corresponding norm.
func ResolveNorm[B tensor.Backend](name string) (Norm[B], error) {
	return pinn.ResolveNorm[B](name)
}

// LossTerm binds a dataset to the norm and weight used to score a model
// against it.
type LossTerm[B tensor.Backend] = pinn.LossTerm[B]

// NewLossTerm creates a loss term over ds scored by norm and scaled by
// weight.
func NewLossTerm[B tensor.Backend](ds *dataset.DerivativeSet, norm Norm[B], weight float32) (*LossTerm[B], error) {
	return pinn.NewLossTerm(ds, norm, weight)
}

// FingerNet is a multi-branch interpolation network: one subnetwork per
// input coordinate feeding a shared trunk.
type FingerNet[B tensor.Backend] = pinn.FingerNet[B]

// FingerNetConfig configures a FingerNet.
type FingerNetConfig[B tensor.Backend] = pinn.FingerNetConfig[B]

// DefaultFingerNetConfig returns the standard FingerNet configuration.
func DefaultFingerNetConfig[B tensor.Backend](inputSize, outputSize int, lb, ub []float32) FingerNetConfig[B] {
	return pinn.DefaultFingerNetConfig[B](inputSize, outputSize, lb, ub)
}

// NewFingerNet builds a FingerNet from cfg.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	cfg := pinn.DefaultFingerNetConfig[Backend](3, 1,
//	    []float32{0, 0, 0}, []float32{1, 1, 10})
//	model, err := pinn.NewFingerNet(cfg, backend)
func NewFingerNet[B tensor.Backend](cfg FingerNetConfig[B], backend B) (*FingerNet[B], error) {
	return pinn.NewFingerNet(cfg, backend)
}

// PennesHPM is the Pennes bioheat equation with learnable, spatially
// varying coefficient grids.
type PennesHPM[B tensor.Backend] = pinn.PennesHPM[B]

// PennesConfig selects the terms and grid dimensions of a PennesHPM.
type PennesConfig = pinn.PennesConfig

// NewPennesHPM creates the hidden physics model with the coefficient
// grids the config enables.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	hpm := pinn.NewPennesHPM(pinn.PennesConfig{
//	    Convection: true,
//	    LinearU:    true,
//	}, backend)
func NewPennesHPM[B tensor.Backend](cfg PennesConfig, backend B) *PennesHPM[B] {
	return pinn.NewPennesHPM(cfg, backend)
}
