// Package config loads and validates training run configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataPath  string  `yaml:"data_path"`
	Steps     int     `yaml:"steps"`
	BatchSize int     `yaml:"batch_size"`
	Seed      int64   `yaml:"seed"`
	LogEvery  int     `yaml:"log_every"`
	LR        float32 `yaml:"lr"`
	Optimizer string  `yaml:"optimizer"` // "adam" or "sgd"

	Model   ModelConfig   `yaml:"model"`
	Physics PhysicsConfig `yaml:"physics"`
}

// ModelConfig configures the interpolation network.
type ModelConfig struct {
	NumFeatures int       `yaml:"num_features"`
	FingerDepth int       `yaml:"finger_depth"`
	TrunkDepth  int       `yaml:"trunk_depth"`
	Scaling     float32   `yaml:"scaling"`
	LowerBound  []float32 `yaml:"lower_bound"`
	UpperBound  []float32 `yaml:"upper_bound"`
	DataWeight  float32   `yaml:"data_weight"`
	DataNorm    string    `yaml:"data_norm"`
}

// PhysicsConfig configures the hidden physics model.
type PhysicsConfig struct {
	Convection    bool    `yaml:"convection"`
	LinearU       bool    `yaml:"linear_u"`
	GridW         int     `yaml:"grid_w"`
	GridH         int     `yaml:"grid_h"`
	UBlood        float32 `yaml:"u_blood"`
	PhysicsWeight float32 `yaml:"physics_weight"`
	PhysicsNorm   string  `yaml:"physics_norm"`
}

// Overrides captures CLI supplied values. Zero values leave the config
// untouched.
type Overrides struct {
	DataPath  string
	Steps     int
	BatchSize int
	Seed      int64
	LogEvery  int
	LR        float32
}

// Load reads and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
	if o.Steps > 0 {
		c.Steps = o.Steps
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.LR > 0 {
		c.LR = o.LR
	}
}

// Validate verifies the config is runnable, filling defaults for
// optional knobs.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DataPath == "" {
		return errors.New("data_path must be set")
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be > 0 (got %d)", c.Steps)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Optimizer == "" {
		c.Optimizer = "adam"
	}
	if c.Optimizer != "adam" && c.Optimizer != "sgd" {
		return fmt.Errorf("optimizer must be \"adam\" or \"sgd\" (got %q)", c.Optimizer)
	}
	if len(c.Model.LowerBound) != len(c.Model.UpperBound) {
		return fmt.Errorf("lower_bound has %d values, upper_bound %d",
			len(c.Model.LowerBound), len(c.Model.UpperBound))
	}
	if c.Model.DataWeight == 0 {
		c.Model.DataWeight = 1
	}
	if c.Model.DataNorm == "" {
		c.Model.DataNorm = "L2"
	}
	if c.Physics.PhysicsWeight == 0 {
		c.Physics.PhysicsWeight = 1
	}
	if c.Physics.PhysicsNorm == "" {
		c.Physics.PhysicsNorm = "L2"
	}
	return nil
}
