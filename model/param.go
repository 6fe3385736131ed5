package model

import "fmt"

// TiedFunc computes a parameter's value from the rest of the model. A tied
// parameter is not fit independently; fitters call the function after each
// update of the free parameters.
type TiedFunc func(m *Model) *Array

// ConstraintFunc is a model-level constraint over the flat parameter buffer.
// For an equality constraint the optimum satisfies f(params) == 0; for an
// inequality constraint, f(params) >= 0.
type ConstraintFunc func(params []float64) float64

// Bounds is an optional lower/upper bound pair for one parameter. A nil side
// means unbounded on that side.
type Bounds struct {
	Min *float64
	Max *float64
}

// Parameter describes one named parameter of a model family: its default value
// and its default constraints. A nil Default marks the parameter as required
// at construction time.
type Parameter struct {
	Name        string
	Description string
	Default     *Array
	Fixed       bool
	Tied        TiedFunc
	Bounds      *Bounds
}

// EvalFunc implements the mathematical function of a model family. It receives
// the independent-variable arrays followed by the name-ordered parameter-set
// rows and returns one array per declared output.
type EvalFunc func(inputs []*Array, params []*Array) ([]*Array, error)

// DerivFunc computes the model's derivatives with respect to its parameters,
// for use by fitting algorithms. Same calling convention as EvalFunc, returning
// one array per parameter.
type DerivFunc func(inputs []*Array, params []*Array) ([]*Array, error)

// InverseFunc constructs the analytical inverse of a model instance.
type InverseFunc func(m *Model) (Transform, error)

// Family is the static definition of a model type: its ordered parameter
// schema, arity, and evaluation function. Families are declared once (typically
// as package-level values) and registered for bundle/CLI use via Register.
type Family struct {
	// Name identifies the family in the registry and in diagnostics.
	Name string

	// Params declares the parameters. Declaration order is the canonical
	// parameter ordering unless ParamNames overrides it.
	Params []Parameter

	// ParamNames optionally fixes an explicit parameter ordering. Every listed
	// name must be declared in Params.
	ParamNames []string

	NInputs  int
	NOutputs int

	// Fittable marks families whose parameters a fitter may optimize.
	Fittable bool
	// Linear marks families linear in their parameters.
	Linear bool

	Eval EvalFunc

	// Deriv, when set, provides parameter derivatives for fitters.
	// ColFitDeriv reports whether derivatives are given in columns.
	Deriv       DerivFunc
	ColFitDeriv bool

	// Inverse, when set, constructs the analytical inverse of an instance.
	Inverse InverseFunc
}

// Validate checks the family definition. All violations are ErrDefinition.
func (f *Family) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: family has no name", ErrDefinition)
	}
	if f.NInputs < 0 || f.NOutputs < 0 {
		return fmt.Errorf("%w: family %q has negative arity (%d in, %d out)",
			ErrDefinition, f.Name, f.NInputs, f.NOutputs)
	}
	if f.Eval == nil {
		return fmt.Errorf("%w: family %q has no Eval function", ErrDefinition, f.Name)
	}
	declared := make(map[string]bool, len(f.Params))
	for i, p := range f.Params {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter %d of family %q must be defined with a name",
				ErrDefinition, i, f.Name)
		}
		if declared[p.Name] {
			return fmt.Errorf("%w: parameter %q declared twice in family %q",
				ErrDefinition, p.Name, f.Name)
		}
		declared[p.Name] = true
	}
	for _, name := range f.ParamNames {
		if !declared[name] {
			return fmt.Errorf("%w: parameter %q listed in %s.ParamNames was not declared",
				ErrDefinition, name, f.Name)
		}
	}
	return nil
}

// paramNames returns the canonical parameter ordering: the explicit ParamNames
// list when given, else declaration order.
func (f *Family) paramNames() []string {
	if len(f.ParamNames) > 0 {
		out := make([]string, len(f.ParamNames))
		copy(out, f.ParamNames)
		return out
	}
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Name
	}
	return out
}

// param looks up a declared parameter by name.
func (f *Family) param(name string) (*Parameter, bool) {
	for i := range f.Params {
		if f.Params[i].Name == name {
			return &f.Params[i], true
		}
	}
	return nil, false
}
