package cpu_test

import (
	"math"
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

func fromSlice(t *testing.T, backend *cpu.CPUBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *cpu.CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return x
}

func expectData(t *testing.T, got []float32, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !floatEqual(got[i], want[i], 1e-5) {
			t.Errorf("element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})
	b := fromSlice(t, backend, []float32{10, 20, 30}, tensor.Shape{3})

	expectData(t, a.Add(b).Data(), []float32{11, 22, 33})
}

func TestAddBroadcast(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := fromSlice(t, backend, []float32{10, 20, 30}, tensor.Shape{1, 3})

	c := a.Add(row)
	if !c.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape: got %v, want [2 3]", c.Shape())
	}
	expectData(t, c.Data(), []float32{11, 22, 33, 14, 25, 36})
}

func TestSubMulDiv(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{4, 9, 16}, tensor.Shape{3})
	b := fromSlice(t, backend, []float32{2, 3, 4}, tensor.Shape{3})

	expectData(t, a.Sub(b).Data(), []float32{2, 6, 12})
	expectData(t, a.Mul(b).Data(), []float32{8, 27, 64})
	expectData(t, a.Div(b).Data(), []float32{2, 3, 4})
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, backend, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	c := a.MatMul(b)
	if !c.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape: got %v, want [2 2]", c.Shape())
	}
	expectData(t, c.Data(), []float32{58, 64, 139, 154})
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Error("MatMul with mismatched inner dims should panic")
		}
	}()
	a.MatMul(b)
}

func TestTranspose(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	at := a.T()
	if !at.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape: got %v, want [3 2]", at.Shape())
	}
	expectData(t, at.Data(), []float32{1, 4, 2, 5, 3, 6})
}

func TestScalarOps(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})

	expectData(t, a.MulScalar(2).Data(), []float32{2, 4, 6})
	expectData(t, a.AddScalar(1).Data(), []float32{2, 3, 4})
	expectData(t, a.SubScalar(1).Data(), []float32{0, 1, 2})
	expectData(t, a.DivScalar(2).Data(), []float32{0.5, 1, 1.5})
}

func TestMathOps(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 4, 9}, tensor.Shape{3})

	expectData(t, a.Sqrt().Data(), []float32{1, 2, 3})

	b := fromSlice(t, backend, []float32{-2, 0, 3}, tensor.Shape{3})
	expectData(t, b.Abs().Data(), []float32{2, 0, 3})

	e := fromSlice(t, backend, []float32{0, 1}, tensor.Shape{2})
	expectData(t, e.Exp().Data(), []float32{1, float32(math.E)})
	expectData(t, e.Exp().Log().Data(), []float32{0, 1})
}

func TestActivations(t *testing.T) {
	backend := cpu.New()
	x := fromSlice(t, backend, []float32{-2, 0, 3}, tensor.Shape{3})

	expectData(t, x.ReLU().Data(), []float32{0, 0, 3})

	sig := x.Sigmoid().Data()
	if !floatEqual(sig[1], 0.5, 1e-6) {
		t.Errorf("sigmoid(0): got %f, want 0.5", sig[1])
	}
	if sig[0] >= 0.5 || sig[2] <= 0.5 {
		t.Errorf("sigmoid monotonicity violated: %v", sig)
	}

	tanh := x.Tanh().Data()
	if !floatEqual(tanh[1], 0, 1e-6) {
		t.Errorf("tanh(0): got %f, want 0", tanh[1])
	}
}

func TestSum(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	s := a.Sum()
	if !s.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("sum shape: got %v, want [1]", s.Shape())
	}
	if !floatEqual(s.Item(), 10, 1e-6) {
		t.Errorf("sum: got %f, want 10", s.Item())
	}
}

func TestSumDim(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := a.SumDim(1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape: got %v, want [2]", rows.Shape())
	}
	expectData(t, rows.Data(), []float32{6, 15})

	cols := a.SumDim(0, true)
	if !cols.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("shape: got %v, want [1 3]", cols.Shape())
	}
	expectData(t, cols.Data(), []float32{5, 7, 9})
}

func TestCatChunk(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	c := tensor.Cat([]*tensor.Tensor[float32, *cpu.CPUBackend]{a, b}, 1)
	if !c.Shape().Equal(tensor.Shape{2, 4}) {
		t.Fatalf("cat shape: got %v, want [2 4]", c.Shape())
	}
	expectData(t, c.Data(), []float32{1, 2, 5, 6, 3, 4, 7, 8})

	parts := c.Chunk(2, 1)
	if len(parts) != 2 {
		t.Fatalf("chunk count: got %d, want 2", len(parts))
	}
	expectData(t, parts[0].Data(), a.Data())
	expectData(t, parts[1].Data(), b.Data())
}

func TestSqueezeUnsqueeze(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})

	u := a.Unsqueeze(0)
	if !u.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("unsqueeze shape: got %v, want [1 3]", u.Shape())
	}

	s := u.Squeeze(0)
	if !s.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("squeeze shape: got %v, want [3]", s.Shape())
	}
}

func TestTake(t *testing.T) {
	backend := cpu.New()
	table := fromSlice(t, backend, []float32{10, 20, 30, 40}, tensor.Shape{4})
	indices, err := tensor.FromSlice([]int32{3, 0, 3}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	got := table.Take(indices)
	expectData(t, got.Data(), []float32{40, 10, 40})
}

func TestTake2DRows(t *testing.T) {
	backend := cpu.New()
	table := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	indices, _ := tensor.FromSlice([]int32{2, 0}, tensor.Shape{2}, backend)

	got := table.Take(indices)
	if !got.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape: got %v, want [2 2]", got.Shape())
	}
	expectData(t, got.Data(), []float32{5, 6, 1, 2})
}

func TestTakeOutOfRangePanics(t *testing.T) {
	backend := cpu.New()
	table := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})
	indices, _ := tensor.FromSlice([]int32{2}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("out of range index should panic")
		}
	}()
	table.Take(indices)
}

func TestCast(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1.7, -2.2, 3}, tensor.Shape{3})

	ints := tensor.Cast[int32](a)
	got := ints.Data()
	want := []int32{1, -2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	r := a.Reshape(3, 2)
	if !r.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape: got %v, want [3 2]", r.Shape())
	}
	expectData(t, r.Data(), a.Data())
}
