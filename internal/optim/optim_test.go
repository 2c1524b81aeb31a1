package optim_test

import (
	"math"
	"testing"

	"github.com/pinn-ml/pinn/internal/autodiff"
	"github.com/pinn-ml/pinn/internal/backend/cpu"
	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/optim"
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

func newParam(t *testing.T, backend testBackend, values ...float32) *nn.Parameter[testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return nn.NewParameter("x", x)
}

func gradFor(t *testing.T, backend testBackend, param *nn.Parameter[testBackend], values ...float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{len(values)}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(grad.AsFloat32(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1}, backend)

	optimizer.Step(gradFor(t, backend, param, 1.0))

	// x_new = 2.0 - 0.1 * 1.0
	got := param.Tensor().Raw().AsFloat32()[0]
	if !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
}

func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	// v_1 = 1.0, x_1 = 1.0 - 0.1 = 0.9
	optimizer.Step(gradFor(t, backend, param, 1.0))
	got := param.Tensor().Raw().AsFloat32()[0]
	if !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("momentum step 1: got %f, want 0.9", got)
	}

	// v_2 = 0.9 + 1.0 = 1.9, x_2 = 0.9 - 0.19 = 0.71
	optimizer.Step(gradFor(t, backend, param, 1.0))
	got = param.Tensor().Raw().AsFloat32()[0]
	if !floatEqual(got, 0.71, 1e-5) {
		t.Errorf("momentum step 2: got %f, want 0.71", got)
	}
}

func TestSGD_SkipsParamsWithoutGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 5.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1}, backend)

	optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	got := param.Tensor().Raw().AsFloat32()[0]
	if got != 5.0 {
		t.Errorf("param without gradient changed: got %f, want 5.0", got)
	}
}

func TestSGD_ZeroGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 1.0)

	grad, _ := tensor.FromSlice([]float32{5.0}, tensor.Shape{1}, backend)
	param.SetGrad(grad)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1}, backend)
	optimizer.ZeroGrad()

	if param.Grad() != nil {
		t.Error("Grad should be nil after ZeroGrad")
	}
}

func TestSGD_StateDictRoundTrip(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 1.0, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	optimizer.Step(gradFor(t, backend, param, 1.0, -1.0))

	state := optimizer.StateDict()
	if len(state) != 1 {
		t.Fatalf("state dict entries: got %d, want 1", len(state))
	}
	velocity, ok := state["velocity.0"]
	if !ok {
		t.Fatal("missing velocity.0 in state dict")
	}
	if !floatEqual(velocity.AsFloat32()[0], 1.0, 1e-6) {
		t.Errorf("velocity[0]: got %f, want 1.0", velocity.AsFloat32()[0])
	}

	restored := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	if err := restored.LoadStateDict(state); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}
	if len(restored.StateDict()) != 1 {
		t.Error("restored optimizer lost velocity state")
	}
}

func TestAdam_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param},
		optim.AdamConfig{LR: 0.001}, backend)

	optimizer.Step(gradFor(t, backend, param, 1.0))

	// Bias correction makes the first step exactly lr in magnitude:
	// m_hat = v_hat = 1, x_new = 1.0 - 0.001 * 1 / (1 + eps)
	got := param.Tensor().Raw().AsFloat32()[0]
	if !floatEqual(got, 0.999, 1e-5) {
		t.Errorf("Adam first step: got %f, want 0.999", got)
	}
}

func TestAdam_TimestepAdvances(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param},
		optim.AdamConfig{LR: 0.01}, backend)

	if optimizer.GetTimestep() != 0 {
		t.Errorf("initial timestep: got %d, want 0", optimizer.GetTimestep())
	}

	for i := 1; i <= 3; i++ {
		optimizer.Step(gradFor(t, backend, param, 1.0))
		if optimizer.GetTimestep() != i {
			t.Errorf("after step %d: timestep %d", i, optimizer.GetTimestep())
		}
	}

	if got := param.Tensor().Raw().AsFloat32()[0]; got >= 1.0 {
		t.Errorf("parameter should decrease under positive gradient: got %f", got)
	}
}

func TestConvergence_Quadratic(t *testing.T) {
	// f(x) = x², df/dx = 2x, minimum at 0
	run := func(t *testing.T, makeOpt func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer) {
		backend := autodiff.New(cpu.New())
		param := newParam(t, backend, 3.0)
		optimizer := makeOpt(param, backend)

		for i := 0; i < 100; i++ {
			x := param.Tensor().Raw().AsFloat32()[0]
			optimizer.Step(gradFor(t, backend, param, 2*x))
		}

		final := param.Tensor().Raw().AsFloat32()[0]
		if math.Abs(float64(final)) > 0.1 {
			t.Errorf("x = %f, expected close to 0", final)
		}
	}

	t.Run("SGD", func(t *testing.T) {
		run(t, func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter[testBackend]{param},
				optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
		})
	})
	t.Run("Adam", func(t *testing.T) {
		run(t, func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer {
			return optim.NewAdam([]*nn.Parameter[testBackend]{param},
				optim.AdamConfig{LR: 0.1}, backend)
		})
	})
}

func TestMultipleParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param1 := newParam(t, backend, 1.0, 2.0)
	param2 := newParam(t, backend, 3.0)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param1, param2},
		optim.SGDConfig{LR: 0.1}, backend)

	grads := gradFor(t, backend, param1, 1.0, 2.0)
	for k, v := range gradFor(t, backend, param2, 0.5) {
		grads[k] = v
	}
	optimizer.Step(grads)

	p1 := param1.Tensor().Raw().AsFloat32()
	if !floatEqual(p1[0], 0.9, 1e-6) || !floatEqual(p1[1], 1.8, 1e-6) {
		t.Errorf("param1: got [%f, %f], want [0.9, 1.8]", p1[0], p1[1])
	}
	p2 := param2.Tensor().Raw().AsFloat32()
	if !floatEqual(p2[0], 2.95, 1e-6) {
		t.Errorf("param2: got %f, want 2.95", p2[0])
	}
}
