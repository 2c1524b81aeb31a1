package pinn

import (
	"fmt"

	"github.com/pinn-ml/pinn/internal/dataset"
	"github.com/pinn-ml/pinn/internal/nn"
	"github.com/pinn-ml/pinn/internal/tensor"
)

// PennesConfig selects which terms of the Pennes bioheat equation the
// model carries and sizes its coefficient grids.
//
// Zero-valued GridW, GridH and UBlood fall back to 640, 480 and 37.
type PennesConfig struct {
	Convection bool    // Learn a diffusion coefficient grid
	LinearU    bool    // Learn perfusion weight and offset grids
	GridW      int     // Grid width, indexed by a sample's x index
	GridH      int     // Grid height, indexed by a sample's y index
	UBlood     float32 // Arterial blood temperature in degrees Celsius
}

// PennesHPM is the Pennes bioheat equation with learnable, spatially
// varying coefficients:
//
//	u_t = a_conv · (u_xx + u_yy) + w · (u - u_blood) + b
//
// Each coefficient is a GridW×GridH grid of independent scalars
// (nn.Field2D), so the model recovers a per-pixel map of tissue
// properties. Terms are enabled individually through PennesConfig;
// a model with no terms predicts an identically zero u_t.
//
// Inputs are derivative sample tensors of shape [n, dataset.NumColumns]
// whose u_xx, u_yy and u_t columns were precomputed by the data
// pipeline.
type PennesHPM[B tensor.Backend] struct {
	cfg     PennesConfig
	aConv   *nn.Field2D[B] // nil unless cfg.Convection
	aLinW   *nn.Field2D[B] // nil unless cfg.LinearU
	aLinB   *nn.Field2D[B] // nil unless cfg.LinearU
	backend B
}

// NewPennesHPM creates the model with exactly the coefficient grids the
// config enables, each initialized from N(0, 1).
func NewPennesHPM[B tensor.Backend](cfg PennesConfig, backend B) *PennesHPM[B] {
	if cfg.GridW == 0 {
		cfg.GridW = 640
	}
	if cfg.GridH == 0 {
		cfg.GridH = 480
	}
	if cfg.UBlood == 0 {
		cfg.UBlood = 37
	}

	m := &PennesHPM[B]{cfg: cfg, backend: backend}
	if cfg.Convection {
		m.aConv = nn.NewField2D("a_conv", cfg.GridW, cfg.GridH, backend)
	}
	if cfg.LinearU {
		m.aLinW = nn.NewField2D("a_linear_u_w", cfg.GridW, cfg.GridH, backend)
		m.aLinB = nn.NewField2D("a_linear_u_b", cfg.GridW, cfg.GridH, backend)
	}
	return m
}

// Config returns the resolved configuration, defaults applied.
func (m *PennesHPM[B]) Config() PennesConfig {
	return m.cfg
}

// Forward predicts u_t for each derivative sample row as the sum of the
// enabled terms. With no terms enabled the result is a zero [n] tensor.
func (m *PennesHPM[B]) Forward(derivs *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	n := m.numSamples(derivs)
	out := tensor.Zeros[float32](tensor.Shape{n}, m.backend)
	if m.cfg.Convection {
		out = out.Add(m.ConvectionTerm(derivs))
	}
	if m.cfg.LinearU {
		out = out.Add(m.LinearUTerm(derivs))
	}
	return out
}

// ConvectionTerm computes a_conv · (u_xx + u_yy) per row, with the
// gathered coefficient clamped through ReLU so diffusion can never run
// backwards. Panics if the convection term is disabled.
func (m *PennesHPM[B]) ConvectionTerm(derivs *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !m.cfg.Convection {
		panic("pennes: convection term is disabled")
	}
	coeff := m.aConv.Gather(m.gridIndices(derivs, m.aConv)).ReLU()
	laplacian := m.column(derivs, dataset.ColUXX).Add(m.column(derivs, dataset.ColUYY))
	return coeff.Mul(laplacian)
}

// LinearUTerm computes w · (u - u_blood) + b per row from the gathered
// perfusion grids. Panics if the linear term is disabled.
func (m *PennesHPM[B]) LinearUTerm(derivs *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !m.cfg.LinearU {
		panic("pennes: linear u term is disabled")
	}
	indices := m.gridIndices(derivs, m.aLinW)
	w := m.aLinW.Gather(indices)
	b := m.aLinB.Gather(indices)
	u := m.column(derivs, dataset.ColU)
	return w.Mul(u.SubScalar(m.cfg.UBlood)).Add(b)
}

// ConvectionField returns the diffusion coefficient grid, nil when the
// term is disabled.
func (m *PennesHPM[B]) ConvectionField() *nn.Field2D[B] {
	return m.aConv
}

// LinearUFields returns the perfusion weight and offset grids, both nil
// when the term is disabled.
func (m *PennesHPM[B]) LinearUFields() (w, b *nn.Field2D[B]) {
	return m.aLinW, m.aLinB
}

func (m *PennesHPM[B]) numSamples(derivs *tensor.Tensor[float32, B]) int {
	shape := derivs.Shape()
	if len(shape) != 2 || shape[1] != dataset.NumColumns {
		panic(fmt.Sprintf("pennes: derivative tensor shape %v, want [n, %d]",
			shape, dataset.NumColumns))
	}
	return shape[0]
}

// column extracts one derivative column as a plain [n] data tensor.
// Columns are observations, not parameters, so host-side extraction
// keeps them off the tape.
func (m *PennesHPM[B]) column(derivs *tensor.Tensor[float32, B], col int) *tensor.Tensor[float32, B] {
	n := m.numSamples(derivs)
	data := derivs.Raw().AsFloat32()
	values := make([]float32, n)
	for i := range values {
		values[i] = data[i*dataset.NumColumns+col]
	}
	t, err := tensor.FromSlice(values, tensor.Shape{n}, m.backend)
	if err != nil {
		panic(fmt.Sprintf("pennes: %v", err))
	}
	return t
}

// gridIndices converts each row's (x_idx, y_idx) pair into a flat grid
// index. FlatIndex validates bounds, so a sample pointing outside the
// grid fails loudly instead of training a neighboring cell.
func (m *PennesHPM[B]) gridIndices(derivs *tensor.Tensor[float32, B], field *nn.Field2D[B]) *tensor.Tensor[int32, B] {
	n := m.numSamples(derivs)
	data := derivs.Raw().AsFloat32()
	indices := make([]int32, n)
	for i := range indices {
		x := int(data[i*dataset.NumColumns+dataset.ColXIdx])
		y := int(data[i*dataset.NumColumns+dataset.ColYIdx])
		indices[i] = field.FlatIndex(x, y)
	}
	t, err := tensor.FromSlice(indices, tensor.Shape{n}, m.backend)
	if err != nil {
		panic(fmt.Sprintf("pennes: %v", err))
	}
	return t
}

// Parameters returns the grids of every enabled term.
func (m *PennesHPM[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	if m.aConv != nil {
		params = append(params, m.aConv.Parameters()...)
	}
	if m.aLinW != nil {
		params = append(params, m.aLinW.Parameters()...)
		params = append(params, m.aLinB.Parameters()...)
	}
	return params
}

// StateDict returns the enabled coefficient grids keyed by field name.
func (m *PennesHPM[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for _, field := range m.enabledFields() {
		for name, raw := range field.StateDict() {
			stateDict[name] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads the enabled coefficient grids.
func (m *PennesHPM[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for _, field := range m.enabledFields() {
		if err := field.LoadStateDict(stateDict); err != nil {
			return fmt.Errorf("pennes: %w", err)
		}
	}
	return nil
}

func (m *PennesHPM[B]) enabledFields() []*nn.Field2D[B] {
	var fields []*nn.Field2D[B]
	if m.aConv != nil {
		fields = append(fields, m.aConv)
	}
	if m.aLinW != nil {
		fields = append(fields, m.aLinW, m.aLinB)
	}
	return fields
}
