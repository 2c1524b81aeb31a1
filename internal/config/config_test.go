package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinn-ml/pinn/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
data_path: samples.csv
steps: 1000
batch_size: 128
seed: 42
lr: 0.005
optimizer: sgd
model:
  num_features: 64
  finger_depth: 2
  trunk_depth: 4
  lower_bound: [0, 0, 0]
  upper_bound: [1, 1, 10]
physics:
  convection: true
  linear_u: true
  grid_w: 64
  grid_h: 48
  u_blood: 37
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "samples.csv", cfg.DataPath)
	assert.Equal(t, 1000, cfg.Steps)
	assert.Equal(t, 128, cfg.BatchSize)
	assert.Equal(t, float32(0.005), cfg.LR)
	assert.Equal(t, "sgd", cfg.Optimizer)
	assert.Equal(t, 64, cfg.Model.NumFeatures)
	assert.Equal(t, []float32{0, 0, 0}, cfg.Model.LowerBound)
	assert.True(t, cfg.Physics.Convection)
	assert.Equal(t, 48, cfg.Physics.GridH)

	// Defaults for omitted knobs
	assert.Equal(t, 50, cfg.LogEvery)
	assert.Equal(t, float32(1), cfg.Model.DataWeight)
	assert.Equal(t, "L2", cfg.Model.DataNorm)
	assert.Equal(t, "L2", cfg.Physics.PhysicsNorm)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "open config")
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "steps: [not an int\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing data path", "steps: 10\nbatch_size: 4\n", "data_path"},
		{"zero steps", "data_path: d.csv\nbatch_size: 4\n", "steps"},
		{"zero batch", "data_path: d.csv\nsteps: 10\n", "batch_size"},
		{"bad optimizer", "data_path: d.csv\nsteps: 10\nbatch_size: 4\noptimizer: lbfgs\n", "optimizer"},
		{"bound mismatch", "data_path: d.csv\nsteps: 10\nbatch_size: 4\nmodel:\n  lower_bound: [0]\n  upper_bound: [1, 2]\n", "bound"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.yaml))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.ApplyOverrides(config.Overrides{
		DataPath: "other.csv",
		Steps:    5,
		LR:       0.1,
	})

	assert.Equal(t, "other.csv", cfg.DataPath)
	assert.Equal(t, 5, cfg.Steps)
	assert.Equal(t, float32(0.1), cfg.LR)
	// Untouched values survive
	assert.Equal(t, 128, cfg.BatchSize)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestZeroOverridesAreIgnored(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.ApplyOverrides(config.Overrides{})

	assert.Equal(t, "samples.csv", cfg.DataPath)
	assert.Equal(t, 1000, cfg.Steps)
}
