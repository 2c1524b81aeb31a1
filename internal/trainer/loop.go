// Package trainer runs physics-informed training: a data loss term fits
// the interpolation network to measurements while a physics loss term
// fits the hidden physics model to the precomputed derivatives.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pinn-ml/pinn/internal/autodiff"
	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/config"
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/metrics"
	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/optim"
	"github.com/pinn-ml/pinn/internal/pinn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// Backend is the training backend: autodiff recording over the CPU
// implementation.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// RunConfig captures everything one training run needs.
type RunConfig struct {
	Data      *dataset.DerivativeSet
	Steps     int
	BatchSize int
	LogEvery  int
	Seed      int64
	LR        float32
	Optimizer string // "adam" or "sgd"

	Model   pinn.FingerNetConfig[Backend]
	Physics pinn.PennesConfig

	DataWeight    float32
	DataNorm      string
	PhysicsWeight float32
	PhysicsNorm   string
}

// NewRunConfig assembles a RunConfig from a validated file config and a
// loaded dataset. Missing model bounds are derived from the data.
func NewRunConfig(cfg *config.Config, data *dataset.DerivativeSet) RunConfig {
	lb, ub := cfg.Model.LowerBound, cfg.Model.UpperBound
	if len(lb) == 0 {
		lb, ub = coordinateBounds(data)
	}

	model := pinn.DefaultFingerNetConfig[Backend](3, 1, lb, ub)
	model.NumFeatures = cfg.Model.NumFeatures
	model.FingerDepth = cfg.Model.FingerDepth
	model.TrunkDepth = cfg.Model.TrunkDepth
	model.Scaling = cfg.Model.Scaling

	return RunConfig{
		Data:      data,
		Steps:     cfg.Steps,
		BatchSize: cfg.BatchSize,
		LogEvery:  cfg.LogEvery,
		Seed:      cfg.Seed,
		LR:        cfg.LR,
		Optimizer: cfg.Optimizer,
		Model:     model,
		Physics: pinn.PennesConfig{
			Convection: cfg.Physics.Convection,
			LinearU:    cfg.Physics.LinearU,
			GridW:      cfg.Physics.GridW,
			GridH:      cfg.Physics.GridH,
			UBlood:     cfg.Physics.UBlood,
		},
		DataWeight:    cfg.Model.DataWeight,
		DataNorm:      cfg.Model.DataNorm,
		PhysicsWeight: cfg.Physics.PhysicsWeight,
		PhysicsNorm:   cfg.Physics.PhysicsNorm,
	}
}

// coordinateBounds computes the per-coordinate (x, y, t) range of the
// dataset for input normalization.
func coordinateBounds(data *dataset.DerivativeSet) (lb, ub []float32) {
	lb = []float32{data.At(0, dataset.ColX), data.At(0, dataset.ColY), data.At(0, dataset.ColT)}
	ub = append([]float32(nil), lb...)
	cols := [3]int{dataset.ColX, dataset.ColY, dataset.ColT}
	for i := 1; i < data.Len(); i++ {
		for c, col := range cols {
			v := data.At(i, col)
			if v < lb[c] {
				lb[c] = v
			}
			if v > ub[c] {
				ub[c] = v
			}
		}
	}
	return lb, ub
}

// Run executes the training workload until the step budget is spent or
// ctx is cancelled.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Data == nil {
		return errors.New("trainer: dataset is nil")
	}
	if cfg.Steps <= 0 {
		return errors.New("trainer: steps must be > 0")
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}

	backend := autodiff.New(cpu.New())

	model, err := pinn.NewFingerNet(cfg.Model, backend)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	hpm := pinn.NewPennesHPM(cfg.Physics, backend)

	dataNorm, err := pinn.ResolveNorm[Backend](cfg.DataNorm)
	if err != nil {
		return fmt.Errorf("trainer: data norm: %w", err)
	}
	physicsNorm, err := pinn.ResolveNorm[Backend](cfg.PhysicsNorm)
	if err != nil {
		return fmt.Errorf("trainer: physics norm: %w", err)
	}
	dataTerm, err := pinn.NewLossTerm(cfg.Data, dataNorm, cfg.DataWeight)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	physicsTerm, err := pinn.NewLossTerm(cfg.Data, physicsNorm, cfg.PhysicsWeight)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}

	params := append(model.Parameters(), hpm.Parameters()...)
	optimizer, err := newOptimizer(cfg, params, backend)
	if err != nil {
		return err
	}

	batcher, err := dataset.NewBatcher(cfg.Data, cfg.BatchSize, cfg.Seed)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}

	log.Printf("training start steps=%d batch_size=%d lr=%g optimizer=%s params=%d",
		cfg.Steps, cfg.BatchSize, cfg.LR, cfg.Optimizer, len(params))

	var window metrics.Window
	for step := 1; step <= cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		startData := time.Now()
		batch := batcher.Next()
		derivs := dataset.Tensor(batch, backend)
		inputs, targets, ut := splitBatch(batch, backend)
		dataTime := time.Since(startData)

		startCompute := time.Now()
		loss := trainStep(backend, optimizer, func() *tensor.Tensor[float32, Backend] {
			dataLoss := dataTerm.Loss(model.Forward(inputs), targets)
			physicsLoss := physicsTerm.Loss(hpm.Forward(derivs), ut)
			return dataLoss.Add(physicsLoss)
		})
		computeTime := time.Since(startCompute)

		window.Record(cfg.BatchSize, dataTime, computeTime, float64(loss))

		if step%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			log.Printf("step=%d samples_per_sec=%.1f data_ms=%.2f compute_ms=%.2f loss=%.4f loss_std=%.4f",
				step, snap.SamplesPerSec, snap.AvgDataMS, snap.AvgComputeMS,
				snap.MeanLoss, snap.StdLoss)
		}
	}

	return nil
}

// trainStep runs one forward/backward/update cycle and returns the loss
// value.
func trainStep(backend Backend, optimizer optim.Optimizer, forward func() *tensor.Tensor[float32, Backend]) float32 {
	tape := backend.Tape()
	tape.StartRecording()
	loss := forward()
	grads := autodiff.Backward(loss, backend)
	tape.StopRecording()

	optimizer.Step(grads)
	optimizer.ZeroGrad()
	tape.Clear()

	return loss.Item()
}

// splitBatch extracts the network inputs [n, 3], the measurement targets
// [n, 1] and the temporal derivative targets [n] from a batch.
func splitBatch(batch *dataset.DerivativeSet, backend Backend) (inputs, targets, ut *tensor.Tensor[float32, Backend]) {
	n := batch.Len()
	in := make([]float32, 0, n*3)
	u := make([]float32, 0, n)
	dudt := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		row := batch.Row(i)
		in = append(in, row[dataset.ColX], row[dataset.ColY], row[dataset.ColT])
		u = append(u, row[dataset.ColU])
		dudt = append(dudt, row[dataset.ColUT])
	}

	inputs = mustTensor(in, tensor.Shape{n, 3}, backend)
	targets = mustTensor(u, tensor.Shape{n, 1}, backend)
	ut = mustTensor(dudt, tensor.Shape{n}, backend)
	return inputs, targets, ut
}

func mustTensor(data []float32, shape tensor.Shape, backend Backend) *tensor.Tensor[float32, Backend] {
	t, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		panic(fmt.Sprintf("trainer: %v", err))
	}
	return t
}

func newOptimizer(cfg RunConfig, params []*nn.Parameter[Backend], backend Backend) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: 0.9}, backend), nil
	case "adam", "":
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR}, backend), nil
	default:
		return nil, fmt.Errorf("trainer: unknown optimizer %q", cfg.Optimizer)
	}
}
