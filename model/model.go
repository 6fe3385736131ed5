package model

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Transform is the capability set shared by models and composites: arity plus
// broadcast evaluation. Inverse returns the analytical inverse transform, or
// an ErrUnsupported-wrapped error when none exists; callers branch on the
// error rather than treating it as exceptional.
type Transform interface {
	NInputs() int
	NOutputs() int
	Eval(inputs ...*Array) ([]*Array, error)
	Inverse() (Transform, error)
}

// Config carries the constructor arguments for New. Positional values are
// matched to the family's canonical parameter order; Values supplies them by
// name. A nil entry in either means "use the declared default". Fixed, Tied
// and Bounds override the declared constraint defaults per parameter; EqCons
// and IneqCons replace the model-level constraint lists. ModelSetAxis
// designates which axis of each supplied parameter value indexes distinct
// model sets (nil means a single set).
type Config struct {
	Positional []*Array
	Values     map[string]*Array

	Fixed  map[string]bool
	Tied   map[string]TiedFunc
	Bounds map[string]Bounds

	EqCons   []ConstraintFunc
	IneqCons []ConstraintFunc

	ModelSetAxis *int
}

// Model is one instance of a Family: the family's schema bound to a
// ParameterStore and a ConstraintTable. Models are constructed with New and
// evaluated through Eval; fitters mutate the flat buffer via Parameters and
// read constraints via the live constraint maps.
//
// A Model is not safe for concurrent use: named parameter views alias the
// flat buffer, so callers must serialize access.
type Model struct {
	family      *Family
	store       *ParameterStore
	constraints *ConstraintTable
}

// New constructs a model instance of the given family. cfg may be nil when
// every parameter has a declared default.
func New(f *Family, cfg *Config) (*Model, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	names := f.paramNames()

	if len(cfg.Positional) > len(names) {
		return nil, fmt.Errorf("%w: family %q takes at most %d positional parameter values (%d given)",
			ErrInputParameter, f.Name, len(names), len(cfg.Positional))
	}
	values := make(map[string]*Array, len(names))
	for i, v := range cfg.Positional {
		if v == nil {
			// nil means use the default, if one exists
			continue
		}
		values[names[i]] = v
	}
	declared := make(map[string]bool, len(names))
	for _, name := range names {
		declared[name] = true
	}
	for name, v := range cfg.Values {
		if !declared[name] {
			return nil, fmt.Errorf("%w: family %q got an unrecognized parameter %q",
				ErrInputParameter, f.Name, name)
		}
		if v == nil {
			continue
		}
		if _, dup := values[name]; dup {
			return nil, fmt.Errorf("%w: family %q got multiple values for parameter %q",
				ErrInputParameter, f.Name, name)
		}
		values[name] = v
	}

	store, err := newParameterStore(f, names, values, cfg.ModelSetAxis)
	if err != nil {
		return nil, err
	}
	constraints, err := newConstraintTable(f, names, cfg)
	if err != nil {
		return nil, err
	}
	return &Model{family: f, store: store, constraints: constraints}, nil
}

// Family returns the model's static definition.
func (m *Model) Family() *Family { return m.family }

// Name returns the family name.
func (m *Model) Name() string { return m.family.Name }

// ParamNames returns the canonical parameter ordering.
func (m *Model) ParamNames() []string { return m.store.Names() }

// NInputs returns the number of independent variables.
func (m *Model) NInputs() int { return m.family.NInputs }

// NOutputs returns the number of outputs per evaluation.
func (m *Model) NOutputs() int { return m.family.NOutputs }

// NModels returns the number of simultaneous parameter sets.
func (m *Model) NModels() int { return m.store.NModels() }

// Fittable reports whether a fitter may optimize this model's parameters.
func (m *Model) Fittable() bool { return m.family.Fittable }

// Linear reports whether the model is linear in its parameters.
func (m *Model) Linear() bool { return m.family.Linear }

// Store returns the parameter store.
func (m *Model) Store() *ParameterStore { return m.store }

// Constraints returns the constraint table.
func (m *Model) Constraints() *ConstraintTable { return m.constraints }

// Fixed returns the live name→fixed constraint map.
func (m *Model) Fixed() map[string]bool { return m.constraints.Fixed() }

// Tied returns the live name→tied constraint map.
func (m *Model) Tied() map[string]TiedFunc { return m.constraints.Tied() }

// Bounds returns the live name→bounds constraint map.
func (m *Model) Bounds() map[string]Bounds { return m.constraints.Bounds() }

// EqCons returns the model-level equality constraints.
func (m *Model) EqCons() []ConstraintFunc { return m.constraints.EqCons() }

// IneqCons returns the model-level inequality constraints.
func (m *Model) IneqCons() []ConstraintFunc { return m.constraints.IneqCons() }

// Param returns a write-through view of one parameter's values.
func (m *Model) Param(name string) (*Array, error) { return m.store.Value(name) }

// SetParam writes a parameter's values through to the flat buffer.
func (m *Model) SetParam(name string, v *Array) error { return m.store.SetValue(name, v) }

// Parameters returns the live flat buffer of all parameter values across all
// parameter sets. Fitters maintain this slice in place.
func (m *Model) Parameters() []float64 { return m.store.Flat() }

// SetParameters replaces the flat buffer contents in place. The length must
// match the total parameter size.
func (m *Model) SetParameters(values []float64) error { return m.store.SetFlat(values) }

// ParamSets returns the parameter-set view of the store.
func (m *Model) ParamSets() (*ParamSetValues, error) { return m.store.ParamSets() }

// Inverse returns the analytical inverse of this model, or an
// ErrUnsupported-wrapped error when the family declares none.
func (m *Model) Inverse() (Transform, error) {
	if m.family.Inverse == nil {
		return nil, fmt.Errorf("%w: an analytical inverse transform has not been implemented for %q models",
			ErrUnsupported, m.family.Name)
	}
	return m.family.Inverse(m)
}

// Copy returns a deep copy of the model: parameter values and constraint
// entries are independent of the receiver (constraint functions are shared).
func (m *Model) Copy() *Model {
	return &Model{
		family:      m.family,
		store:       m.store.copyStore(),
		constraints: m.constraints.copyTable(),
	}
}

// AddModel combines this model with another transform. mode is "serial" (or
// "s") for a pipeline, "parallel" (or "p") for summed outputs.
func (m *Model) AddModel(other Transform, mode string) (Transform, error) {
	switch mode {
	case "parallel", "p":
		return NewSummedComposite([]Transform{m, other}, nil)
	case "serial", "s":
		return NewSerialComposite([]Transform{m, other}, nil)
	default:
		return nil, fmt.Errorf("%w: unrecognized combination mode %q", ErrInputParameter, mode)
	}
}

// Eval evaluates the model on the given independent variables, one argument
// per declared input, and returns one array per declared output.
//
// Broadcasting across parameter sets follows the model-set rules: with a
// single parameter set every input passes through unchanged and 1-element
// results from scalar inputs unwrap back to rank 0. With N parameter sets,
// inputs of rank < 2 become column vectors so outputs take shape (M, N); rank-2
// inputs must already have a trailing axis of size N; inputs of higher rank
// must have a leading axis of size N and are transposed around the evaluation.
func (m *Model) Eval(inputs ...*Array) ([]*Array, error) {
	if len(inputs) != m.NInputs() {
		return nil, fmt.Errorf("%w: family %q expects %d input(s), got %d",
			ErrInputParameter, m.family.Name, m.NInputs(), len(inputs))
	}

	n := m.NModels()
	converted := make([]*Array, len(inputs))
	// The flags reset per argument: only the last argument's classification
	// drives output post-processing.
	transposed := false
	scalar := false
	for i, arg := range inputs {
		transposed = false
		scalar = false
		if arg == nil {
			return nil, fmt.Errorf("%w: input %d is nil", ErrInputParameter, i)
		}
		if n == 1 {
			if arg.NDim() == 0 {
				scalar = true
			}
			converted[i] = arg
			continue
		}
		switch {
		case arg.NDim() < 2:
			converted[i] = asColumn(arg)
		case arg.NDim() == 2:
			sh := arg.Shape()
			if sh[1] != n {
				return nil, fmt.Errorf("%w: cannot broadcast with shape (%d, %d)",
					ErrShapeMismatch, sh[0], sh[1])
			}
			converted[i] = arg
		default:
			sh := arg.Shape()
			if sh[0] != n {
				return nil, fmt.Errorf("%w: cannot broadcast with shape (%d, %d, %d)",
					ErrShapeMismatch, sh[0], sh[1], sh[2])
			}
			logrus.Debugf("eval %s: transposing %d-d input %d so the model-set axis is last",
				m.family.Name, arg.NDim(), i)
			transposed = true
			converted[i] = arg.Transpose()
		}
	}

	psets, err := m.store.ParamSets()
	if err != nil {
		return nil, err
	}
	outputs, err := m.family.Eval(converted, psets.Rows())
	if err != nil {
		return nil, err
	}
	if len(outputs) != m.NOutputs() {
		return nil, fmt.Errorf("%w: family %q produced %d output(s), %d declared",
			ErrDefinition, m.family.Name, len(outputs), m.NOutputs())
	}

	if transposed {
		for i, r := range outputs {
			outputs[i] = r.Transpose()
		}
	} else if scalar {
		for i, r := range outputs {
			// best effort: results that are not 1-element stay as-is
			if v, ok := r.Scalar(); ok {
				outputs[i] = Scalar(v)
			}
		}
	}
	return outputs, nil
}

// asColumn reinterprets a rank-0 or rank-1 input as a column vector so that
// the model-set index lands on the trailing axis.
func asColumn(a *Array) *Array {
	if a.NDim() == 0 {
		r, _ := a.Reshape(1)
		return r
	}
	r, _ := a.Reshape(a.Size(), 1)
	return r
}

// String renders a human-readable summary with a parameter table. This is a
// diagnostic format, not a machine format.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", m.Name())
	fmt.Fprintf(&b, "Inputs: %d\n", m.NInputs())
	fmt.Fprintf(&b, "Outputs: %d\n", m.NOutputs())
	fmt.Fprintf(&b, "Model set size: %d\n", m.NModels())
	b.WriteString("Parameters:\n")
	b.WriteString(m.paramTable("    "))
	return b.String()
}

// paramTable formats one column per parameter and one row per model set when
// every parameter is scalar per set; otherwise one "name = values" line per
// parameter.
func (m *Model) paramTable(indent string) string {
	names := m.store.Names()
	psets, err := m.store.ParamSets()
	if err != nil || psets.Matrix == nil {
		var b strings.Builder
		for _, name := range names {
			v, verr := m.store.Value(name)
			if verr != nil {
				continue
			}
			fmt.Fprintf(&b, "%s%s = %s\n", indent, name, v)
		}
		return b.String()
	}

	rows, cols := psets.Matrix.Dims()
	cells := make([][]string, rows)
	widths := make([]int, rows)
	for i := 0; i < rows; i++ {
		widths[i] = len(names[i])
		cells[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			cells[i][j] = fmt.Sprintf("%g", psets.Matrix.At(i, j))
			if len(cells[i][j]) > widths[i] {
				widths[i] = len(cells[i][j])
			}
		}
	}

	var b strings.Builder
	b.WriteString(indent)
	for i, name := range names {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%*s", widths[i], name)
	}
	b.WriteString("\n")
	b.WriteString(indent)
	for i := range names {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteString("\n")
	for j := 0; j < cols; j++ {
		b.WriteString(indent)
		for i := range names {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%*s", widths[i], cells[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}
