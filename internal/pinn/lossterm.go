package pinn

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Norm reduces a prediction/target pair to a scalar loss tensor of
// shape [1], computed through tape-recorded ops so gradients flow.
type Norm[B tensor.Backend] func(prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

// L2Norm is the mean squared error.
func L2Norm[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return nn.MSELoss(prediction, target)
}

// L1Norm is the mean absolute error.
func L1Norm[B tensor.Backend](prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return nn.L1Loss(prediction, target)
}

// ResolveNorm maps a norm name to its implementation. Recognized names
// are "L1" and "L2"; anything else is an error.
func ResolveNorm[B tensor.Backend](name string) (Norm[B], error) {
	switch name {
	case "L2":
		return L2Norm[B], nil
	case "L1":
		return L1Norm[B], nil
	default:
		return nil, fmt.Errorf("unknown norm %q (want \"L1\" or \"L2\")", name)
	}
}

// LossTerm binds a dataset to the norm and weight used to score a model
// against it. Terms are combined by the trainer; a LossTerm on its own
// only knows how to score one prediction/target pair.
type LossTerm[B tensor.Backend] struct {
	dataset *dataset.DerivativeSet
	norm    Norm[B]
	weight  float32
}

// NewLossTerm creates a loss term over ds scored by norm and scaled by
// weight when combined.
func NewLossTerm[B tensor.Backend](ds *dataset.DerivativeSet, norm Norm[B], weight float32) (*LossTerm[B], error) {
	if ds == nil {
		return nil, fmt.Errorf("loss term: dataset is nil")
	}
	if norm == nil {
		return nil, fmt.Errorf("loss term: norm is nil")
	}
	return &LossTerm[B]{dataset: ds, norm: norm, weight: weight}, nil
}

// Dataset returns the samples this term scores against.
func (lt *LossTerm[B]) Dataset() *dataset.DerivativeSet {
	return lt.dataset
}

// Weight returns the term's weight in the combined loss.
func (lt *LossTerm[B]) Weight() float32 {
	return lt.weight
}

// Loss applies the norm and scales by the term weight. The scaling is a
// recorded scalar op, so the weight attenuates gradients too.
func (lt *LossTerm[B]) Loss(prediction, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return lt.norm(prediction, target).MulScalar(lt.weight)
}
