package pinn

import (
	"fmt"
	"strings"

	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// FingerNetConfig configures a FingerNet.
//
// LowerBound and UpperBound give the per-feature input domain used for
// normalization and must each have InputSize values. Zero-valued numeric
// fields fall back to defaults (NumFeatures 500, FingerDepth 3,
// TrunkDepth 8, Scaling 1); a nil Activation means ReLU. Normalize is
// taken as given, see DefaultFingerNetConfig for the usual setup.
type FingerNetConfig[B tensor.Backend] struct {
	LowerBound []float32
	UpperBound []float32
	InputSize  int
	OutputSize int

	NumFeatures int // Width of finger embeddings and trunk layers
	FingerDepth int // Layers per finger stack
	TrunkDepth  int // Hidden trunk layers; the trunk has TrunkDepth+1 linears

	Activation nn.Module[B] // Stateless activation shared across layers
	Normalize  bool         // Map inputs to [-1, 1] before the fingers
	Scaling    float32      // Multiplier on the final output
}

// DefaultFingerNetConfig returns the usual starting configuration with
// normalization on. The numeric fields are left zero and resolved by
// NewFingerNet (500 features, 3 finger layers, 8 trunk layers, ReLU,
// scaling 1).
func DefaultFingerNetConfig[B tensor.Backend](inputSize, outputSize int, lb, ub []float32) FingerNetConfig[B] {
	return FingerNetConfig[B]{
		LowerBound: lb,
		UpperBound: ub,
		InputSize:  inputSize,
		OutputSize: outputSize,
		Normalize:  true,
	}
}

// FingerNet is a multi-branch interpolation network.
//
// Each input coordinate is embedded through its own "finger", a stack of
// narrow fully connected layers, before the per-coordinate embeddings
// are concatenated and mixed by a shared trunk. Splitting the input this
// way lets each coordinate develop its own feature basis, which suits
// physical fields whose variation along space and time differs by orders
// of magnitude.
type FingerNet[B tensor.Backend] struct {
	cfg     FingerNetConfig[B]
	lb      *nn.Buffer[B]
	ub      *nn.Buffer[B]
	fingers []*nn.Sequential[B]
	trunk   *nn.Sequential[B]
	backend B
}

// NewFingerNet builds a FingerNet from cfg. Weights are Xavier uniform,
// biases zero.
func NewFingerNet[B tensor.Backend](cfg FingerNetConfig[B], backend B) (*FingerNet[B], error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("fingernet: input size must be > 0 (got %d)", cfg.InputSize)
	}
	if cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("fingernet: output size must be > 0 (got %d)", cfg.OutputSize)
	}
	if len(cfg.LowerBound) != cfg.InputSize || len(cfg.UpperBound) != cfg.InputSize {
		return nil, fmt.Errorf("fingernet: bounds must have %d values (got %d lower, %d upper)",
			cfg.InputSize, len(cfg.LowerBound), len(cfg.UpperBound))
	}
	for i := range cfg.LowerBound {
		if cfg.LowerBound[i] >= cfg.UpperBound[i] {
			return nil, fmt.Errorf("fingernet: bound %d is empty: lower %v >= upper %v",
				i, cfg.LowerBound[i], cfg.UpperBound[i])
		}
	}

	if cfg.NumFeatures == 0 {
		cfg.NumFeatures = 500
	}
	if cfg.FingerDepth == 0 {
		cfg.FingerDepth = 3
	}
	if cfg.TrunkDepth == 0 {
		cfg.TrunkDepth = 8
	}
	if cfg.Scaling == 0 {
		cfg.Scaling = 1
	}
	if cfg.Activation == nil {
		cfg.Activation = nn.NewReLU[B]()
	}

	lbTensor, err := tensor.FromSlice(append([]float32(nil), cfg.LowerBound...),
		tensor.Shape{1, cfg.InputSize}, backend)
	if err != nil {
		return nil, fmt.Errorf("fingernet: %w", err)
	}
	ubTensor, err := tensor.FromSlice(append([]float32(nil), cfg.UpperBound...),
		tensor.Shape{1, cfg.InputSize}, backend)
	if err != nil {
		return nil, fmt.Errorf("fingernet: %w", err)
	}

	fingers := make([]*nn.Sequential[B], cfg.InputSize)
	for i := range fingers {
		finger := nn.NewSequential[B]()
		in := 1
		for d := 0; d < cfg.FingerDepth; d++ {
			finger.Add(nn.NewLinear(in, cfg.NumFeatures, backend))
			finger.Add(cfg.Activation)
			in = cfg.NumFeatures
		}
		fingers[i] = finger
	}

	trunk := nn.NewSequential[B]()
	in := cfg.InputSize * cfg.NumFeatures
	for d := 0; d < cfg.TrunkDepth; d++ {
		trunk.Add(nn.NewLinear(in, cfg.NumFeatures, backend))
		trunk.Add(cfg.Activation)
		in = cfg.NumFeatures
	}
	trunk.Add(nn.NewLinear(in, cfg.OutputSize, backend))

	return &FingerNet[B]{
		cfg:     cfg,
		lb:      nn.NewBuffer("lower_bound", lbTensor),
		ub:      nn.NewBuffer("upper_bound", ubTensor),
		fingers: fingers,
		trunk:   trunk,
		backend: backend,
	}, nil
}

// Forward maps a [batch, InputSize] coordinate tensor to a
// [batch, OutputSize] prediction.
func (f *FingerNet[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != f.cfg.InputSize {
		panic(fmt.Sprintf("fingernet: input shape %v, want [batch, %d]", shape, f.cfg.InputSize))
	}

	x := input
	if f.cfg.Normalize {
		x = f.normalize(x)
	}

	columns := x.Chunk(f.cfg.InputSize, 1)
	embeddings := make([]*tensor.Tensor[float32, B], f.cfg.InputSize)
	for i, finger := range f.fingers {
		embeddings[i] = finger.Forward(columns[i])
	}

	out := f.trunk.Forward(tensor.Cat(embeddings, 1))
	return out.MulScalar(f.cfg.Scaling)
}

// normalize maps each feature from [lb, ub] onto [-1, 1]. The lower
// bound lands exactly on -1 and the upper bound exactly on +1: the
// difference is taken first, so x = lb gives 0 before the affine step
// and x = ub cancels against the same ub - lb range.
func (f *FingerNet[B]) normalize(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	span := f.ub.Tensor().Sub(f.lb.Tensor())
	return x.Sub(f.lb.Tensor()).MulScalar(2).Div(span).SubScalar(1)
}

// Parameters returns the parameters of every finger and the trunk.
func (f *FingerNet[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, finger := range f.fingers {
		params = append(params, finger.Parameters()...)
	}
	return append(params, f.trunk.Parameters()...)
}

// Buffers returns the normalization bounds so device relocation moves
// them with the parameters.
func (f *FingerNet[B]) Buffers() []*nn.Buffer[B] {
	return []*nn.Buffer[B]{f.lb, f.ub}
}

// Config returns the resolved configuration, defaults applied.
func (f *FingerNet[B]) Config() FingerNetConfig[B] {
	return f.cfg
}

// StateDict returns all weights keyed "finger.{i}.{layer}.{name}" and
// "trunk.{layer}.{name}", plus the normalization bounds.
func (f *FingerNet[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, finger := range f.fingers {
		for name, raw := range finger.StateDict() {
			stateDict[fmt.Sprintf("finger.%d.%s", i, name)] = raw
		}
	}
	for name, raw := range f.trunk.StateDict() {
		stateDict["trunk."+name] = raw
	}
	stateDict[f.lb.Name()] = f.lb.Tensor().Raw()
	stateDict[f.ub.Name()] = f.ub.Tensor().Raw()
	return stateDict
}

// LoadStateDict loads weights saved by StateDict. The normalization
// bound entries are ignored if present; bounds come from the config.
func (f *FingerNet[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, finger := range f.fingers {
		prefix := fmt.Sprintf("finger.%d.", i)
		sub := subDict(stateDict, prefix)
		if len(sub) == 0 {
			return fmt.Errorf("fingernet: missing weights for finger %d", i)
		}
		if err := finger.LoadStateDict(sub); err != nil {
			return fmt.Errorf("fingernet: finger %d: %w", i, err)
		}
	}
	sub := subDict(stateDict, "trunk.")
	if len(sub) == 0 {
		return fmt.Errorf("fingernet: missing trunk weights")
	}
	if err := f.trunk.LoadStateDict(sub); err != nil {
		return fmt.Errorf("fingernet: trunk: %w", err)
	}
	return nil
}

func subDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if strings.HasPrefix(key, prefix) {
			sub[key[len(prefix):]] = raw
		}
	}
	return sub
}
