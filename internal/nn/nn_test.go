package nn_test

import (
	"testing"

	"github.com/pinn-ml/pinn/internal/autodiff"
	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/nn"
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

func TestLinearForwardShape(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(3, 5, backend)

	input := fromSlice(t, backend, make([]float32, 2*3), tensor.Shape{2, 3})
	output := layer.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 5}) {
		t.Errorf("output shape: got %v, want [2 5]", output.Shape())
	}
}

func TestLinearKnownValues(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 1, backend)

	// Set weight to [1, 2] and bias to [0.5]
	copy(layer.Weight().Tensor().Raw().AsFloat32(), []float32{1, 2})
	copy(layer.Bias().Tensor().Raw().AsFloat32(), []float32{0.5})

	input := fromSlice(t, backend, []float32{3, 4}, tensor.Shape{1, 2})
	output := layer.Forward(input)

	// y = 1*3 + 2*4 + 0.5
	if !floatEqual(output.At(0, 0), 11.5, 1e-5) {
		t.Errorf("output: got %f, want 11.5", output.At(0, 0))
	}
}

func TestLinearStateDictRoundTrip(t *testing.T) {
	backend := newBackend()
	src := nn.NewLinear(4, 2, backend)
	dst := nn.NewLinear(4, 2, backend)

	if err := dst.LoadStateDict(src.StateDict()); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	srcW := src.Weight().Tensor().Raw().AsFloat32()
	dstW := dst.Weight().Tensor().Raw().AsFloat32()
	for i := range srcW {
		if srcW[i] != dstW[i] {
			t.Fatalf("weight %d differs after load", i)
		}
	}
}

func TestLinearGradientFlow(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 1, backend)

	backend.Tape().StartRecording()
	input := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{1, 2})
	loss := layer.Forward(input).Sum()
	grads := autodiff.Backward(loss, backend)
	backend.Tape().StopRecording()

	if grads[layer.Weight().Tensor().Raw()] == nil {
		t.Error("no gradient for weight")
	}
	if grads[layer.Bias().Tensor().Raw()] == nil {
		t.Error("no gradient for bias")
	}
}

func TestSequentialChains(t *testing.T) {
	backend := newBackend()
	model := nn.NewSequential[testBackend](
		nn.NewLinear(3, 8, backend),
		nn.NewReLU[testBackend](),
		nn.NewLinear(8, 1, backend),
	)

	input := fromSlice(t, backend, make([]float32, 4*3), tensor.Shape{4, 3})
	output := model.Forward(input)

	if !output.Shape().Equal(tensor.Shape{4, 1}) {
		t.Errorf("output shape: got %v, want [4 1]", output.Shape())
	}
	if len(model.Parameters()) != 4 {
		t.Errorf("parameters: got %d, want 4", len(model.Parameters()))
	}
}

func TestMSELossValue(t *testing.T) {
	backend := newBackend()
	pred := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})
	target := fromSlice(t, backend, []float32{2, 2, 5}, tensor.Shape{3})

	loss := nn.MSELoss(pred, target)
	// mean([1, 0, 4]) = 5/3
	if !floatEqual(loss.Item(), 5.0/3.0, 1e-5) {
		t.Errorf("MSE: got %f, want %f", loss.Item(), 5.0/3.0)
	}
}

func TestL1LossValue(t *testing.T) {
	backend := newBackend()
	pred := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})
	target := fromSlice(t, backend, []float32{2, 2, 5}, tensor.Shape{3})

	loss := nn.L1Loss(pred, target)
	// mean([1, 0, 2]) = 1
	if !floatEqual(loss.Item(), 1, 1e-5) {
		t.Errorf("L1: got %f, want 1", loss.Item())
	}
}

func TestLossGradientReachesPrediction(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	pred := fromSlice(t, backend, []float32{3}, tensor.Shape{1})
	target := fromSlice(t, backend, []float32{1}, tensor.Shape{1})
	loss := nn.MSELoss(pred, target)

	grads := autodiff.Backward(loss, backend)
	grad := grads[pred.Raw()]
	if grad == nil {
		t.Fatal("no gradient for prediction")
	}
	// d(mean((p-t)²))/dp = 2(p-t)/n = 4
	if !floatEqual(grad.AsFloat32()[0], 4, 1e-5) {
		t.Errorf("gradient: got %f, want 4", grad.AsFloat32()[0])
	}
}

func TestField2DGatherMatchesAt(t *testing.T) {
	backend := newBackend()
	field := nn.NewField2D("coeff", 4, 5, backend)

	pairs := [][2]int{{0, 0}, {3, 4}, {1, 2}, {3, 4}}
	indices := make([]int32, len(pairs))
	for i, p := range pairs {
		indices[i] = field.FlatIndex(p[0], p[1])
	}
	idx, err := tensor.FromSlice(indices, tensor.Shape{len(indices)}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	got := field.Gather(idx)
	for i, p := range pairs {
		want := field.At(p[0], p[1])
		if !floatEqual(got.At(i), want, 1e-6) {
			t.Errorf("gather[%d]: got %f, want %f", i, got.At(i), want)
		}
	}
}

func TestField2DScatterAddAccumulates(t *testing.T) {
	backend := newBackend()
	field := nn.NewField2D("coeff", 2, 2, backend)

	backend.Tape().StartRecording()
	indices, _ := tensor.FromSlice([]int32{
		field.FlatIndex(0, 1),
		field.FlatIndex(0, 1),
		field.FlatIndex(1, 0),
	}, tensor.Shape{3}, backend)
	loss := field.Gather(indices).Sum()
	grads := autodiff.Backward(loss, backend)
	backend.Tape().StopRecording()

	grad := grads[field.Parameter().Tensor().Raw()]
	if grad == nil {
		t.Fatal("no gradient for field parameter")
	}
	got := grad.AsFloat32()
	want := []float32{0, 2, 1, 0}
	for i := range want {
		if !floatEqual(got[i], want[i], 1e-6) {
			t.Errorf("grad[%d]: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestField2DFlatIndexBounds(t *testing.T) {
	backend := newBackend()
	field := nn.NewField2D("coeff", 3, 4, backend)

	if got := field.FlatIndex(2, 3); got != 11 {
		t.Errorf("FlatIndex(2,3): got %d, want 11", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("out of range coordinates should panic")
		}
	}()
	field.FlatIndex(3, 0)
}

func TestMoveRelocatesParametersAndBuffers(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 2, backend)

	nn.Move[testBackend](layer, tensor.CPU)

	for _, p := range layer.Parameters() {
		if p.Tensor().Device() != tensor.CPU {
			t.Errorf("parameter %s on %v, want CPU", p.Name(), p.Tensor().Device())
		}
	}
}
