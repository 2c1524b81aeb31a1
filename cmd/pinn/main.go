// Package main provides the pinn training CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinn-ml/pinn/internal/config"
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/trainer"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("pinn %s\n", version)
		return
	}

	cfgPath := flag.String("config", "configs/bioheat.yaml", "Path to YAML config")
	dataPath := flag.String("data", "", "Override derivative sample CSV path")
	steps := flag.Int("steps", 0, "Number of training steps")
	batchSize := flag.Int("batch-size", 0, "Batch size")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N steps")
	lr := flag.Float64("lr", 0, "Learning rate")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		DataPath:  *dataPath,
		Steps:     *steps,
		BatchSize: *batchSize,
		Seed:      *seed,
		LogEvery:  *logEvery,
		LR:        float32(*lr),
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	data, err := dataset.LoadCSV(cfg.DataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("dataset=%s samples=%d", cfg.DataPath, data.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := trainer.Run(ctx, trainer.NewRunConfig(cfg, data)); err != nil {
		log.Fatalf("training failed: %v", err)
	}
}
