package autodiff_test

import (
	"testing"

	"github.com/pinn-ml/pinn/internal/autodiff"
	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newBackend() testBackend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, backend testBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return x
}

func expectGrad(t *testing.T, grads map[*tensor.RawTensor]*tensor.RawTensor, of *tensor.Tensor[float32, testBackend], want []float32) {
	t.Helper()
	grad, ok := grads[of.Raw()]
	if !ok {
		t.Fatal("no gradient recorded")
	}
	got := grad.AsFloat32()
	if len(got) != len(want) {
		t.Fatalf("gradient length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !floatEqual(got[i], want[i], 1e-4) {
			t.Errorf("gradient[%d]: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestGradientOfSquare(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{2, 3}, tensor.Shape{2})
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)

	// d(x*x)/dx = 2x
	expectGrad(t, grads, x, []float32{4, 6})
}

func TestGradientAccumulation(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{5}, tensor.Shape{1})
	// y = x + x => dy/dx = 2
	y := x.Add(x)

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{2})
}

func TestSubAndDivGradients(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, backend, []float32{6}, tensor.Shape{1})
	b := fromSlice(t, backend, []float32{2}, tensor.Shape{1})
	y := a.Div(b)

	grads := autodiff.Backward(y, backend)
	// d(a/b)/da = 1/b, d(a/b)/db = -a/b²
	expectGrad(t, grads, a, []float32{0.5})
	expectGrad(t, grads, b, []float32{-1.5})
}

func TestBroadcastReducesGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := fromSlice(t, backend, []float32{10, 20, 30}, tensor.Shape{1, 3})
	y := a.Add(row).Sum()

	grads := autodiff.Backward(y, backend)

	// The broadcast row participates in both output rows
	expectGrad(t, grads, row, []float32{2, 2, 2})
	expectGrad(t, grads, a, []float32{1, 1, 1, 1, 1, 1})
}

func TestMatMulGradients(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	y := a.MatMul(b).Sum()

	grads := autodiff.Backward(y, backend)

	// dL/dA = ones @ Bᵀ, dL/dB = Aᵀ @ ones
	expectGrad(t, grads, a, []float32{11, 15, 11, 15})
	expectGrad(t, grads, b, []float32{4, 4, 6, 6})
}

func TestScalarOpsRecorded(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{3}, tensor.Shape{1})
	y := x.MulScalar(4).AddScalar(1)

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{4})
}

func TestMeanGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{4})
	y := x.Mean()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{0.25, 0.25, 0.25, 0.25})
}

func TestReLUGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{-1, 2, -3, 4}, tensor.Shape{4})
	y := x.ReLU().Sum()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{0, 1, 0, 1})
}

func TestExpLogSqrtGradients(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{4}, tensor.Shape{1})
	y := x.Sqrt().Sum()

	grads := autodiff.Backward(y, backend)
	// d(sqrt(x))/dx = 1/(2*sqrt(x)) = 0.25
	expectGrad(t, grads, x, []float32{0.25})
}

func TestAbsGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{-3, 5}, tensor.Shape{2})
	y := x.Abs().Sum()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{-1, 1})
}

func TestReshapeAndTransposeGradients(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := x.T().Reshape(6).Sum()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{1, 1, 1, 1, 1, 1})
}

func TestChunkCatGradients(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	parts := x.Chunk(2, 1)
	// Scale one half so the two halves get distinct gradients
	scaled := parts[0].MulScalar(3)
	y := tensor.Cat([]*tensor.Tensor[float32, testBackend]{scaled, parts[1]}, 1).Sum()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{3, 1, 3, 1})
}

func TestTakeScatterAdd(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	table := fromSlice(t, backend, []float32{10, 20, 30}, tensor.Shape{3})
	indices, err := tensor.FromSlice([]int32{1, 1, 2}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	y := table.Take(indices).Sum()

	grads := autodiff.Backward(y, backend)

	// Duplicate index 1 accumulates twice, index 0 never touched
	expectGrad(t, grads, table, []float32{0, 2, 1})
}

func TestSumDimGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := x.SumDim(1, false).Sum()

	grads := autodiff.Backward(y, backend)
	expectGrad(t, grads, x, []float32{1, 1, 1, 1, 1, 1})
}

func TestTapeClear(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	x := fromSlice(t, backend, []float32{1}, tensor.Shape{1})
	_ = x.Mul(x)

	if tape.NumOps() == 0 {
		t.Fatal("tape should have recorded operations")
	}
	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("tape should be empty after Clear, has %d ops", tape.NumOps())
	}
}

func TestNoRecordingWithoutStart(t *testing.T) {
	backend := newBackend()

	x := fromSlice(t, backend, []float32{1}, tensor.Shape{1})
	_ = x.Mul(x)

	if backend.Tape().NumOps() != 0 {
		t.Error("ops recorded without StartRecording")
	}
}
