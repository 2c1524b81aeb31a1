package trainer_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinn-ml/pinn/internal/config"
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/pinn"
	"github.com/pinn-ml/pinn/internal/trainer"
)

// syntheticSet generates samples consistent with a linear perfusion
// model on a small grid.
func syntheticSet(t *testing.T, n, gridW, gridH int) *dataset.DerivativeSet {
	t.Helper()
	rng := rand.New(rand.NewSource(3))

	rows := make([][]float32, n)
	for i := range rows {
		ix := rng.Intn(gridW)
		iy := rng.Intn(gridH)
		x := float32(ix) / float32(gridW)
		y := float32(iy) / float32(gridH)
		tt := rng.Float32()
		u := 37 + 2*float32(math.Sin(float64(x+y)))
		ut := -0.5*(u-37) + 0.1
		rows[i] = []float32{x, y, tt, float32(ix), float32(iy), u, 0, 0, ut}
	}

	set, err := dataset.FromRows(rows)
	require.NoError(t, err)
	return set
}

func smallRunConfig(data *dataset.DerivativeSet) trainer.RunConfig {
	model := pinn.DefaultFingerNetConfig[trainer.Backend](3, 1,
		[]float32{0, 0, 0}, []float32{1, 1, 1})
	model.NumFeatures = 4
	model.FingerDepth = 1
	model.TrunkDepth = 1

	return trainer.RunConfig{
		Data:          data,
		Steps:         5,
		BatchSize:     16,
		LogEvery:      2,
		Seed:          1,
		LR:            0.01,
		Optimizer:     "adam",
		Model:         model,
		Physics:       pinn.PennesConfig{LinearU: true, GridW: 8, GridH: 8, UBlood: 37},
		DataWeight:    1,
		DataNorm:      "L2",
		PhysicsWeight: 1,
		PhysicsNorm:   "L2",
	}
}

func TestRunCompletes(t *testing.T) {
	data := syntheticSet(t, 64, 8, 8)
	err := trainer.Run(context.Background(), smallRunConfig(data))
	assert.NoError(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	data := syntheticSet(t, 64, 8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := smallRunConfig(data)
	cfg.Steps = 10000
	err := trainer.Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsBadConfig(t *testing.T) {
	data := syntheticSet(t, 64, 8, 8)

	cfg := smallRunConfig(data)
	cfg.Steps = 0
	assert.Error(t, trainer.Run(context.Background(), cfg))

	cfg = smallRunConfig(data)
	cfg.Data = nil
	assert.Error(t, trainer.Run(context.Background(), cfg))

	cfg = smallRunConfig(data)
	cfg.DataNorm = "Linf"
	assert.Error(t, trainer.Run(context.Background(), cfg))

	cfg = smallRunConfig(data)
	cfg.Optimizer = "lbfgs"
	assert.Error(t, trainer.Run(context.Background(), cfg))
}

func TestNewRunConfigDerivesBounds(t *testing.T) {
	data := syntheticSet(t, 32, 8, 8)

	fileCfg := &config.Config{
		DataPath:  "d.csv",
		Steps:     10,
		BatchSize: 8,
		Physics:   config.PhysicsConfig{LinearU: true, GridW: 8, GridH: 8},
	}
	require.NoError(t, fileCfg.Validate())

	cfg := trainer.NewRunConfig(fileCfg, data)

	require.Len(t, cfg.Model.LowerBound, 3)
	require.Len(t, cfg.Model.UpperBound, 3)
	for c := 0; c < 3; c++ {
		assert.LessOrEqual(t, cfg.Model.LowerBound[c], cfg.Model.UpperBound[c])
	}
	assert.Equal(t, 8, cfg.Physics.GridW)
	assert.Equal(t, "L2", cfg.DataNorm)
	assert.Equal(t, float32(1), cfg.PhysicsWeight)
}
