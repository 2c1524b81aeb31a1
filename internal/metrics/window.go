// Package metrics accumulates training statistics over a logging window.
package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Window accumulates per-step measurements between log lines.
type Window struct {
	samples int
	data    time.Duration
	compute time.Duration
	losses  []float64
}

// Record adds one training step to the window.
func (w *Window) Record(batchSize int, dataTime, computeTime time.Duration, loss float64) {
	w.samples += batchSize
	w.data += dataTime
	w.compute += computeTime
	w.losses = append(w.losses, loss)
}

// Snapshot aggregates the window and resets it.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	total := w.data + w.compute
	if total > 0 {
		snap.SamplesPerSec = float64(w.samples) / total.Seconds()
	}
	if steps := len(w.losses); steps > 0 {
		snap.AvgDataMS = (w.data.Seconds() * 1000) / float64(steps)
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(steps)
		snap.MeanLoss = stat.Mean(w.losses, nil)
		if steps > 1 {
			// stat.StdDev returns NaN for a single sample
			snap.StdLoss = stat.StdDev(w.losses, nil)
		}
		snap.LastLoss = w.losses[steps-1]
	}

	w.samples = 0
	w.data = 0
	w.compute = 0
	w.losses = w.losses[:0]
	return snap
}

// Snapshot is one window's worth of loggable metrics.
type Snapshot struct {
	SamplesPerSec float64
	AvgDataMS     float64
	AvgComputeMS  float64
	MeanLoss      float64
	StdLoss       float64
	LastLoss      float64
}
