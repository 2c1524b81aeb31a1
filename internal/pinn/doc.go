// Package pinn implements physics-informed neural network components for
// learning hidden physical models from observation data.
//
// The package provides:
//   - LossTerm: a dataset paired with a norm and a weight, the unit the
//     trainer combines into a total loss
//   - FingerNet: a multi-branch network that embeds each input coordinate
//     through its own subnetwork before a shared trunk
//   - PennesHPM: the Pennes bioheat equation with spatially varying
//     learnable coefficient grids
//
// A typical setup trains a FingerNet to interpolate temperature
// measurements while a PennesHPM term constrains the fit to satisfy the
// bioheat equation, recovering the tissue coefficients in the process.
package pinn
