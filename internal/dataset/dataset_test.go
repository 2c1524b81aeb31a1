package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/tensor"
)

func row(base float32) []float32 {
	r := make([]float32, dataset.NumColumns)
	for i := range r {
		r[i] = base + float32(i)
	}
	return r
}

func TestColumnLayout(t *testing.T) {
	// The storage order is relied on by the physics models
	assert.Equal(t, 0, dataset.ColX)
	assert.Equal(t, 1, dataset.ColY)
	assert.Equal(t, 2, dataset.ColT)
	assert.Equal(t, 3, dataset.ColXIdx)
	assert.Equal(t, 4, dataset.ColYIdx)
	assert.Equal(t, 5, dataset.ColU)
	assert.Equal(t, 6, dataset.ColUXX)
	assert.Equal(t, 7, dataset.ColUYY)
	assert.Equal(t, 8, dataset.ColUT)
	assert.Equal(t, 9, dataset.NumColumns)
}

func TestNewValidatesLength(t *testing.T) {
	_, err := dataset.New(make([]float32, dataset.NumColumns+1))
	assert.Error(t, err)

	set, err := dataset.New(make([]float32, 2*dataset.NumColumns))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestFromRowsAndAccess(t *testing.T) {
	set, err := dataset.FromRows([][]float32{row(0), row(100)})
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, float32(5), set.At(0, dataset.ColU))
	assert.Equal(t, float32(105), set.At(1, dataset.ColU))

	_, err = dataset.FromRows([][]float32{{1, 2, 3}})
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	set, err := dataset.FromRows([][]float32{row(0), row(100), row(200)})
	require.NoError(t, err)

	sub := set.Select([]int{2, 0})
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, float32(200), sub.At(0, dataset.ColX))
	assert.Equal(t, float32(0), sub.At(1, dataset.ColX))
}

func TestTensorShape(t *testing.T) {
	backend := cpu.New()
	set, err := dataset.FromRows([][]float32{row(0), row(100)})
	require.NoError(t, err)

	tens := dataset.Tensor(set, backend)
	assert.True(t, tens.Shape().Equal(tensor.Shape{2, dataset.NumColumns}))
	assert.Equal(t, float32(108), tens.At(1, dataset.ColUT))
}

func TestReadCSVWithHeader(t *testing.T) {
	csv := "x,y,t,x_idx,y_idx,u,u_xx,u_yy,u_t\n" +
		"0.1,0.2,1,3,4,37.5,-0.1,-0.2,0.05\n" +
		"0.3,0.4,2,5,6,38,0.1,0.2,-0.05\n"

	set, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.InDelta(t, 37.5, set.At(0, dataset.ColU), 1e-6)
	assert.InDelta(t, 5, set.At(1, dataset.ColXIdx), 1e-6)
}

func TestReadCSVWithoutHeader(t *testing.T) {
	csv := "0.1,0.2,1,3,4,37.5,-0.1,-0.2,0.05\n"

	set, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "no samples")

	_, err = dataset.ReadCSV(strings.NewReader("1,2,3\n"))
	assert.Error(t, err)

	_, err = dataset.ReadCSV(strings.NewReader(
		"0.1,0.2,1,3,4,bad,-0.1,-0.2,0.05\n"))
	assert.ErrorContains(t, err, "u")
}

func TestBatcherShapesAndCoverage(t *testing.T) {
	rows := make([][]float32, 10)
	for i := range rows {
		rows[i] = row(float32(i * 10))
	}
	set, err := dataset.FromRows(rows)
	require.NoError(t, err)

	batcher, err := dataset.NewBatcher(set, 4, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, batcher.BatchesPerEpoch())

	seen := map[float32]bool{}
	for i := 0; i < 2; i++ {
		batch := batcher.Next()
		require.Equal(t, 4, batch.Len())
		for r := 0; r < batch.Len(); r++ {
			seen[batch.At(r, dataset.ColX)] = true
		}
	}
	// Two full batches of a 10-row epoch never repeat a row
	assert.Len(t, seen, 8)
}

func TestBatcherReshufflesAcrossEpochs(t *testing.T) {
	rows := make([][]float32, 6)
	for i := range rows {
		rows[i] = row(float32(i))
	}
	set, err := dataset.FromRows(rows)
	require.NoError(t, err)

	batcher, err := dataset.NewBatcher(set, 6, 1)
	require.NoError(t, err)

	for epoch := 0; epoch < 3; epoch++ {
		batch := batcher.Next()
		seen := map[float32]bool{}
		for r := 0; r < batch.Len(); r++ {
			seen[batch.At(r, dataset.ColX)] = true
		}
		assert.Len(t, seen, 6, "epoch %d lost rows", epoch)
	}
}

func TestBatcherRejectsBadSizes(t *testing.T) {
	set, err := dataset.FromRows([][]float32{row(0)})
	require.NoError(t, err)

	_, err = dataset.NewBatcher(set, 0, 1)
	assert.Error(t, err)

	_, err = dataset.NewBatcher(set, 2, 1)
	assert.Error(t, err)
}
