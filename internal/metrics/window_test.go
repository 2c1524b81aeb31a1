package metrics_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pinn-ml/pinn/internal/metrics"
)

func TestWindowAggregates(t *testing.T) {
	var w metrics.Window

	w.Record(10, 20*time.Millisecond, 80*time.Millisecond, 4)
	w.Record(10, 40*time.Millisecond, 60*time.Millisecond, 2)

	snap := w.Snapshot()

	// 20 samples over 200ms total
	assert.InDelta(t, 100, snap.SamplesPerSec, 1e-6)
	assert.InDelta(t, 30, snap.AvgDataMS, 1e-6)
	assert.InDelta(t, 70, snap.AvgComputeMS, 1e-6)
	assert.InDelta(t, 3, snap.MeanLoss, 1e-6)
	assert.InDelta(t, 2, snap.LastLoss, 1e-6)
	assert.Greater(t, snap.StdLoss, 0.0)
}

func TestSingleStepWindowHasZeroStd(t *testing.T) {
	var w metrics.Window

	w.Record(8, time.Millisecond, time.Millisecond, 1.5)
	snap := w.Snapshot()

	assert.InDelta(t, 1.5, snap.MeanLoss, 1e-9)
	assert.Zero(t, snap.StdLoss)
	assert.False(t, math.IsNaN(snap.StdLoss))
}

func TestSnapshotResetsWindow(t *testing.T) {
	var w metrics.Window

	w.Record(5, time.Millisecond, time.Millisecond, 1)
	_ = w.Snapshot()

	empty := w.Snapshot()
	assert.Zero(t, empty.SamplesPerSec)
	assert.Zero(t, empty.MeanLoss)
	assert.Zero(t, empty.LastLoss)
}

func TestEmptyWindowSnapshot(t *testing.T) {
	var w metrics.Window
	snap := w.Snapshot()

	assert.Zero(t, snap.SamplesPerSec)
	assert.Zero(t, snap.AvgDataMS)
	assert.Zero(t, snap.StdLoss)
}
