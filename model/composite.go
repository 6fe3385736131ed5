package model

import (
	"fmt"
	"strings"
)

// SerialConfig carries the optional constructor arguments for a serial
// composite. InMap and OutMap give, per child, the container labels to gather
// inputs from and to write outputs to; both are required for labeled
// evaluation and must have one entry per child. NInputs/NOutputs override the
// derived arity and must be set together.
type SerialConfig struct {
	InMap  [][]string
	OutMap [][]string

	NInputs  *int
	NOutputs *int
}

// SerialComposite evaluates its children as a pipeline: each child's outputs
// become the next child's inputs, positionally or by label.
type SerialComposite struct {
	transforms []Transform
	inmap      [][]string
	outmap     [][]string
	nInputs    int
	nOutputs   int
	paramNames []string
}

// NewSerialComposite builds a pipeline over the given transforms, in execution
// order. cfg may be nil. When the arity is not overridden, the composite takes
// as many inputs as its widest child and produces the last child's outputs.
func NewSerialComposite(transforms []Transform, cfg *SerialConfig) (*SerialComposite, error) {
	if len(transforms) == 0 {
		return nil, fmt.Errorf("%w: a serial composite requires at least one transform", ErrInputParameter)
	}
	if cfg == nil {
		cfg = &SerialConfig{}
	}
	var nInputs, nOutputs int
	switch {
	case cfg.NInputs == nil && cfg.NOutputs == nil:
		for _, tr := range transforms {
			if tr.NInputs() > nInputs {
				nInputs = tr.NInputs()
			}
		}
		nOutputs = transforms[len(transforms)-1].NOutputs()
	case cfg.NInputs != nil && cfg.NOutputs != nil:
		nInputs = *cfg.NInputs
		nOutputs = *cfg.NOutputs
	default:
		return nil, fmt.Errorf("%w: expected both NInputs and NOutputs, or neither", ErrInputParameter)
	}

	if cfg.InMap != nil || cfg.OutMap != nil {
		if len(cfg.InMap) != len(transforms) || len(cfg.OutMap) != len(transforms) {
			return nil, fmt.Errorf("%w: expected sequences of transforms (%d), InMap (%d) and OutMap (%d) to have the same length",
				ErrInputParameter, len(transforms), len(cfg.InMap), len(cfg.OutMap))
		}
	}

	return &SerialComposite{
		transforms: transforms,
		inmap:      cfg.InMap,
		outmap:     cfg.OutMap,
		nInputs:    nInputs,
		nOutputs:   nOutputs,
		paramNames: compositeParamNames(transforms),
	}, nil
}

// NInputs returns the composite input arity.
func (c *SerialComposite) NInputs() int { return c.nInputs }

// NOutputs returns the composite output arity.
func (c *SerialComposite) NOutputs() int { return c.nOutputs }

// Transforms returns the children in execution order.
func (c *SerialComposite) Transforms() []Transform {
	return append([]Transform(nil), c.transforms...)
}

// ParamNames returns the concatenated child parameter names, for diagnostics.
func (c *SerialComposite) ParamNames() []string {
	return append([]string(nil), c.paramNames...)
}

// Parameters is not supported: parameter semantics are not well-defined
// across heterogeneous children.
func (c *SerialComposite) Parameters() ([]float64, error) {
	return nil, fmt.Errorf("%w: the parameters array is not supported for composite models", ErrUnsupported)
}

// ParamSets is not supported for composite models.
func (c *SerialComposite) ParamSets() (*ParamSetValues, error) {
	return nil, fmt.Errorf("%w: parameter sets are not supported for composite models", ErrUnsupported)
}

// Eval evaluates the pipeline positionally. With a single input the first
// child must take exactly one input and child outputs chain directly; with
// multiple inputs the argument count must match the composite arity, the
// first child consumes all of them, and the remaining children thread the
// result tuple.
func (c *SerialComposite) Eval(inputs ...*Array) ([]*Array, error) {
	if len(inputs) == 1 {
		if c.transforms[0].NInputs() != 1 {
			return nil, fmt.Errorf("%w: first transform expects %d inputs, 1 given",
				ErrInputParameter, c.transforms[0].NInputs())
		}
	} else if len(inputs) != c.nInputs {
		return nil, fmt.Errorf("%w: this transform expects %d inputs, got %d",
			ErrInputParameter, c.nInputs, len(inputs))
	}
	result := inputs
	for _, tr := range c.transforms {
		out, err := tr.Eval(result...)
		if err != nil {
			return nil, err
		}
		result = out
	}
	return result, nil
}

// EvalLabeled evaluates the pipeline over a labeled container. Each child
// gathers its inputs by label and writes its outputs back under the mapped
// labels into a copy of the container; the caller's container is never
// mutated. The fully updated copy is returned so that downstream composites
// can read intermediate labels.
func (c *SerialComposite) EvalLabeled(in *LabeledContainer) (*LabeledContainer, error) {
	if c.inmap == nil {
		return nil, fmt.Errorf("%w: InMap must be provided when input is a labeled container", ErrUnsupported)
	}
	if c.outmap == nil {
		return nil, fmt.Errorf("%w: OutMap must be provided when input is a labeled container", ErrUnsupported)
	}
	labeled := in.Copy()
	for i, tr := range c.transforms {
		inlist := make([]*Array, len(c.inmap[i]))
		for j, label := range c.inmap[i] {
			v, err := labeled.Get(label)
			if err != nil {
				return nil, err
			}
			inlist[j] = v
		}
		outputs, err := tr.Eval(inlist...)
		if err != nil {
			return nil, err
		}
		if len(outputs) != len(c.outmap[i]) {
			return nil, fmt.Errorf("%w: transform %d produced %d output(s) for %d output label(s)",
				ErrInputParameter, i, len(outputs), len(c.outmap[i]))
		}
		for j, label := range c.outmap[i] {
			labeled.Set(label, outputs[j])
		}
	}
	return labeled, nil
}

// Inverse returns a serial composite of the children's inverses in reverse
// order, with the label maps reversed to match. The error wraps ErrUnsupported
// when any child lacks an analytical inverse.
func (c *SerialComposite) Inverse() (Transform, error) {
	inverted := make([]Transform, 0, len(c.transforms))
	for i := len(c.transforms) - 1; i >= 0; i-- {
		inv, err := c.transforms[i].Inverse()
		if err != nil {
			return nil, fmt.Errorf("serial composite has no analytical inverse (transform %d): %w", i, err)
		}
		inverted = append(inverted, inv)
	}
	cfg := &SerialConfig{}
	if c.inmap != nil {
		cfg.InMap = reverseMaps(c.inmap)
		cfg.OutMap = reverseMaps(c.outmap)
	}
	return NewSerialComposite(inverted, cfg)
}

func (c *SerialComposite) String() string {
	return compositeString("SerialComposite", c.transforms)
}

// SummedConfig carries the label maps for labeled evaluation of a summed
// composite: the labels to gather the shared inputs from and the labels to
// write the accumulated deltas to.
type SummedConfig struct {
	InMap  []string
	OutMap []string
}

// SummedComposite evaluates its children in parallel against the same inputs
// and sums their outputs elementwise. Every child must have matching input
// and output arity.
type SummedComposite struct {
	transforms []Transform
	inmap      []string
	outmap     []string
	nInputs    int
	paramNames []string
}

// NewSummedComposite builds a parallel (summed) composite. cfg may be nil
// when labeled evaluation is not used.
func NewSummedComposite(transforms []Transform, cfg *SummedConfig) (*SummedComposite, error) {
	if len(transforms) == 0 {
		return nil, fmt.Errorf("%w: a summed composite requires at least one transform", ErrInputParameter)
	}
	nInputs := transforms[0].NInputs()
	for i, tr := range transforms {
		if tr.NInputs() != nInputs || tr.NOutputs() != nInputs {
			return nil, fmt.Errorf("%w: a summed composite expects n_inputs = n_outputs = %d for all transforms (transform %d has %d in, %d out)",
				ErrInputParameter, nInputs, i, tr.NInputs(), tr.NOutputs())
		}
	}
	if cfg == nil {
		cfg = &SummedConfig{}
	}
	return &SummedComposite{
		transforms: transforms,
		inmap:      cfg.InMap,
		outmap:     cfg.OutMap,
		nInputs:    nInputs,
		paramNames: compositeParamNames(transforms),
	}, nil
}

// NInputs returns the shared input arity.
func (c *SummedComposite) NInputs() int { return c.nInputs }

// NOutputs returns the shared output arity.
func (c *SummedComposite) NOutputs() int { return c.nInputs }

// Transforms returns the children.
func (c *SummedComposite) Transforms() []Transform {
	return append([]Transform(nil), c.transforms...)
}

// ParamNames returns the concatenated child parameter names, for diagnostics.
func (c *SummedComposite) ParamNames() []string {
	return append([]string(nil), c.paramNames...)
}

// Parameters is not supported for composite models.
func (c *SummedComposite) Parameters() ([]float64, error) {
	return nil, fmt.Errorf("%w: the parameters array is not supported for composite models", ErrUnsupported)
}

// ParamSets is not supported for composite models.
func (c *SummedComposite) ParamSets() (*ParamSetValues, error) {
	return nil, fmt.Errorf("%w: parameter sets are not supported for composite models", ErrUnsupported)
}

// Eval evaluates every child against the same inputs and accumulates the
// results elementwise.
func (c *SummedComposite) Eval(inputs ...*Array) ([]*Array, error) {
	if len(inputs) != c.nInputs {
		return nil, fmt.Errorf("%w: this transform expects %d inputs, got %d",
			ErrInputParameter, c.nInputs, len(inputs))
	}
	result, err := c.transforms[0].Eval(inputs...)
	if err != nil {
		return nil, err
	}
	for _, tr := range c.transforms[1:] {
		out, err := tr.Eval(inputs...)
		if err != nil {
			return nil, err
		}
		for i := range result {
			sum, err := result[i].Add(out[i])
			if err != nil {
				return nil, err
			}
			result[i] = sum
		}
	}
	return result, nil
}

// EvalLabeled gathers the shared inputs once by label, accumulates per-output
// deltas starting from zero arrays shaped like each gathered input, and
// writes the accumulated deltas back under the mapped output labels into a
// copy of the container.
func (c *SummedComposite) EvalLabeled(in *LabeledContainer) (*LabeledContainer, error) {
	if c.inmap == nil {
		return nil, fmt.Errorf("%w: InMap must be provided when input is a labeled container", ErrUnsupported)
	}
	if c.outmap == nil {
		return nil, fmt.Errorf("%w: OutMap must be provided when input is a labeled container", ErrUnsupported)
	}
	labeled := in.Copy()
	inlist := make([]*Array, len(c.inmap))
	for i, label := range c.inmap {
		v, err := labeled.Get(label)
		if err != nil {
			return nil, err
		}
		inlist[i] = v
	}
	deltas := make([]*Array, len(inlist))
	for i, v := range inlist {
		deltas[i] = ZerosLike(v)
	}
	for _, tr := range c.transforms {
		outputs, err := tr.Eval(inlist...)
		if err != nil {
			return nil, err
		}
		for i := range deltas {
			sum, err := deltas[i].Add(outputs[i])
			if err != nil {
				return nil, err
			}
			deltas[i] = sum
		}
	}
	if len(c.outmap) != len(deltas) {
		return nil, fmt.Errorf("%w: %d output label(s) for %d accumulated output(s)",
			ErrInputParameter, len(c.outmap), len(deltas))
	}
	for i, label := range c.outmap {
		labeled.Set(label, deltas[i])
	}
	return labeled, nil
}

// Inverse is not defined for a summed composite.
func (c *SummedComposite) Inverse() (Transform, error) {
	return nil, fmt.Errorf("%w: an analytical inverse has not been implemented for summed composites", ErrUnsupported)
}

func (c *SummedComposite) String() string {
	return compositeString("SummedComposite", c.transforms)
}

func compositeParamNames(transforms []Transform) []string {
	var names []string
	for _, tr := range transforms {
		if p, ok := tr.(interface{ ParamNames() []string }); ok {
			names = append(names, p.ParamNames()...)
		}
	}
	return names
}

func compositeString(kind string, transforms []Transform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", kind)
	for _, tr := range transforms {
		s := fmt.Sprintf("%v", tr)
		for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	return b.String()
}

func reverseMaps(maps [][]string) [][]string {
	out := make([][]string, len(maps))
	for i, m := range maps {
		out[len(maps)-1-i] = append([]string(nil), m...)
	}
	return out
}
