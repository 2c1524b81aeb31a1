package tensor_test

import (
	"testing"

	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/tensor"
)

func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func TestZeros(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape: got %v, want [2 3]", x.Shape())
	}
	for i, v := range x.Data() {
		if v != 0 {
			t.Errorf("element %d: got %f, want 0", i, v)
		}
	}
}

func TestOnesAndFull(t *testing.T) {
	backend := cpu.New()

	ones := tensor.Ones[float32](tensor.Shape{4}, backend)
	for i, v := range ones.Data() {
		if v != 1 {
			t.Errorf("ones element %d: got %f", i, v)
		}
	}

	full := tensor.Full[float32](tensor.Shape{3}, 2.5, backend)
	for i, v := range full.Data() {
		if v != 2.5 {
			t.Errorf("full element %d: got %f", i, v)
		}
	}
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1,2): got %f, want 6", x.At(1, 2))
	}

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3}, backend)
	if err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestAtSet(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)

	x.Set(3.5, 0, 1)
	if x.At(0, 1) != 3.5 {
		t.Errorf("At(0,1): got %f, want 3.5", x.At(0, 1))
	}
	if x.At(1, 0) != 0 {
		t.Errorf("At(1,0): got %f, want 0", x.At(1, 0))
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{42}, tensor.Shape{1}, backend)
	if x.Item() != 42 {
		t.Errorf("Item: got %f, want 42", x.Item())
	}

	defer func() {
		if recover() == nil {
			t.Error("Item on multi-element tensor should panic")
		}
	}()
	y := tensor.Zeros[float32](tensor.Shape{2}, backend)
	y.Item()
}

func TestRandnRange(t *testing.T) {
	backend := cpu.New()
	x := tensor.Randn[float32](tensor.Shape{1000}, backend)

	var sum float32
	for _, v := range x.Data() {
		sum += v
	}
	mean := sum / 1000
	if mean < -0.2 || mean > 0.2 {
		t.Errorf("sample mean %f too far from 0", mean)
	}
}

func TestArange(t *testing.T) {
	backend := cpu.New()
	x := tensor.Arange[int32](2, 6, backend)

	want := []int32{2, 3, 4, 5}
	got := x.Data()
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEye(t *testing.T) {
	backend := cpu.New()
	x := tensor.Eye[float32](3, backend)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if x.At(i, j) != want {
				t.Errorf("At(%d,%d): got %f, want %f", i, j, x.At(i, j), want)
			}
		}
	}
}

func TestDetach(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	x.RequireGrad()

	d := x.Detach()
	if d.RequiresGrad() {
		t.Error("detached tensor should not require grad")
	}
	if d.Raw() != x.Raw() {
		t.Error("detach should share the raw tensor")
	}
}

func TestMoveToSameDevice(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	moved := x.MoveTo(tensor.CPU)
	if moved.Device() != tensor.CPU {
		t.Errorf("device: got %v, want CPU", moved.Device())
	}
	if !floatEqual(moved.At(1), 2, 1e-6) {
		t.Errorf("moved data: got %f, want 2", moved.At(1))
	}
}

func TestMeanEqualsLiteral(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)

	mean := x.Mean()
	if !mean.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("mean shape: got %v, want [1]", mean.Shape())
	}
	if !floatEqual(mean.Item(), 2.5, 1e-6) {
		t.Errorf("mean: got %f, want 2.5", mean.Item())
	}
}

func TestBroadcastShapes(t *testing.T) {
	shape, needed, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	if err != nil {
		t.Fatalf("BroadcastShapes: %v", err)
	}
	if !shape.Equal(tensor.Shape{3, 4}) {
		t.Errorf("shape: got %v, want [3 4]", shape)
	}
	if !needed {
		t.Error("broadcast should be needed")
	}

	_, _, err = tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{4, 3})
	if err == nil {
		t.Error("incompatible shapes should error")
	}
}
