package model

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// paramMetric locates one parameter inside the flat buffer: its slice and the
// full per-instance shape (including the model-set axis when one is set).
type paramMetric struct {
	offset int
	size   int
	shape  []int
}

// ParameterStore owns the single contiguous buffer holding every parameter
// value for every model set. Named parameter views alias slices of the buffer,
// so a fitter writing through Flat() is immediately visible through Value().
// The buffer identity never changes after construction: SetFlat copies in
// place, keeping existing views valid.
type ParameterStore struct {
	names   []string
	buf     []float64
	metrics map[string]paramMetric
	nModels int
	axis    *int
}

// newParameterStore lays out and fills the flat buffer. names is the canonical
// parameter ordering; values maps names to supplied initial values (missing
// entries fall back to the family's declared default). modelSetAxis designates
// the axis of each supplied value that indexes distinct model sets; nil means a
// single model set.
func newParameterStore(f *Family, names []string, values map[string]*Array, modelSetAxis *int) (*ParameterStore, error) {
	nModels := 1
	if modelSetAxis != nil {
		axis := *modelSetAxis
		if axis < 0 {
			return nil, fmt.Errorf("%w: model_set_axis must be a non-negative integer (got %d)",
				ErrInputParameter, axis)
		}
		nModels = 0
		for _, name := range names {
			value, ok := values[name]
			if !ok {
				continue
			}
			if value.NDim() < axis+1 {
				return nil, fmt.Errorf(
					"%w: all parameter values must be arrays of dimension at least %d for model_set_axis=%d (the value given for %q is only %d-dimensional)",
					ErrInputParameter, axis+1, axis, name, value.NDim())
			}
			n := value.Shape()[axis]
			if nModels == 0 {
				nModels = n
			} else if n != nModels {
				return nil, fmt.Errorf(
					"%w: inconsistent dimensions for parameter %q: the length of axis %d must be the same for all parameter values when model_set_axis=%d",
					ErrInputParameter, name, axis, axis)
			}
		}
		if nModels == 0 {
			// model_set_axis given but every parameter left to its default
			nModels = 1
		}
	}

	s := &ParameterStore{
		names:   names,
		metrics: make(map[string]paramMetric, len(names)),
		nModels: nModels,
		axis:    modelSetAxis,
	}

	resolved := make([]*Array, len(names))
	total := 0
	for i, name := range names {
		value, ok := values[name]
		if !ok || value == nil {
			p, declared := f.param(name)
			if !declared || p.Default == nil {
				return nil, fmt.Errorf("%w: family %q requires a value for parameter %q",
					ErrInputParameter, f.Name, name)
			}
			value = p.Default
		}
		resolved[i] = value
		s.metrics[name] = paramMetric{offset: total, size: value.Size(), shape: value.Shape()}
		total += value.Size()
	}

	s.buf = make([]float64, total)
	for i, name := range names {
		m := s.metrics[name]
		copy(s.buf[m.offset:m.offset+m.size], resolved[i].Data())
	}
	logrus.Debugf("parameter store: %d values across %d parameters, %d model set(s)",
		total, len(names), nModels)
	return s, nil
}

// Names returns the canonical parameter ordering.
func (s *ParameterStore) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// NModels returns the number of simultaneous parameter sets.
func (s *ParameterStore) NModels() int { return s.nModels }

// ModelSetAxis returns the designated model-set axis, or nil for a single set.
func (s *ParameterStore) ModelSetAxis() *int {
	if s.axis == nil {
		return nil
	}
	a := *s.axis
	return &a
}

// Value returns a write-through view of one parameter, reshaped to its
// recorded shape. Mutating the view mutates the flat buffer.
func (s *ParameterStore) Value(name string) (*Array, error) {
	m, ok := s.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: no parameter named %q", ErrInputParameter, name)
	}
	return view(s.buf[m.offset:m.offset+m.size], m.shape), nil
}

// SetValue writes v through to the parameter's slice of the flat buffer.
// The value must match the parameter's recorded shape.
func (s *ParameterStore) SetValue(name string, v *Array) error {
	m, ok := s.metrics[name]
	if !ok {
		return fmt.Errorf("%w: no parameter named %q", ErrInputParameter, name)
	}
	if !shapeEqual(m.shape, v.shape) {
		return fmt.Errorf("%w: value of shape %v is incompatible with parameter %q of shape %v",
			ErrInputParameter, v.shape, name, m.shape)
	}
	copy(s.buf[m.offset:m.offset+m.size], v.Data())
	return nil
}

// Flat returns the live flat buffer. Fitters mutate it in place.
func (s *ParameterStore) Flat() []float64 { return s.buf }

// SetFlat replaces the buffer contents in place. The length must match the
// total parameter size; the buffer identity is preserved so existing named
// views remain valid.
func (s *ParameterStore) SetFlat(values []float64) error {
	if len(values) != len(s.buf) {
		return fmt.Errorf("%w: input parameter values not compatible with the model parameters array: got %d values, need %d",
			ErrInputParameter, len(values), len(s.buf))
	}
	copy(s.buf, values)
	return nil
}

// copyStore returns an independent deep copy, used by Model.Copy.
func (s *ParameterStore) copyStore() *ParameterStore {
	out := &ParameterStore{
		names:   append([]string(nil), s.names...),
		buf:     append([]float64(nil), s.buf...),
		metrics: make(map[string]paramMetric, len(s.metrics)),
		nModels: s.nModels,
		axis:    s.ModelSetAxis(),
	}
	for name, m := range s.metrics {
		out.metrics[name] = paramMetric{offset: m.offset, size: m.size, shape: copyShape(m.shape)}
	}
	return out
}

// ParamSetValues is the parameter-set view of a store. For a parameterless
// family all fields are nil; otherwise exactly one of the three representation
// fields is set:
//   - Matrix when every parameter is at most 1-dimensional: an
//     n_params × n_models matrix, one row per parameter;
//   - Stacked when higher-dimensional parameter shapes are all identical;
//   - Ragged when higher-dimensional shapes are heterogeneous. This is the
//     escape hatch for ragged parameter shapes and is deliberately kept as a
//     separate representation rather than being coerced.
type ParamSetValues struct {
	Matrix  *mat.Dense
	Stacked *Array
	Ragged  []*Array

	rows []*Array
}

// Rows returns the name-ordered per-parameter rows handed to a family's Eval:
// length-n_models vectors in the matrix case, full parameter arrays otherwise.
func (p *ParamSetValues) Rows() []*Array { return p.rows }

// ParamSets builds the parameter-set view from the current buffer contents.
func (s *ParameterStore) ParamSets() (*ParamSetValues, error) {
	if len(s.names) == 0 {
		return &ParamSetValues{}, nil
	}
	values := make([]*Array, len(s.names))
	maxDim := 0
	scalarSeen := false
	for i, name := range s.names {
		m := s.metrics[name]
		values[i] = view(s.buf[m.offset:m.offset+m.size], m.shape).Copy()
		if values[i].NDim() > maxDim {
			maxDim = values[i].NDim()
		}
		if values[i].NDim() == 0 {
			scalarSeen = true
		}
	}

	if maxDim > 1 {
		homogeneous := true
		for _, v := range values[1:] {
			if !shapeEqual(values[0].shape, v.shape) {
				homogeneous = false
				break
			}
		}
		if scalarSeen || !homogeneous {
			return &ParamSetValues{Ragged: values, rows: values}, nil
		}
		stackedShape := append([]int{len(values)}, values[0].shape...)
		stacked := Zeros(stackedShape...)
		for i, v := range values {
			copy(stacked.data[i*v.Size():(i+1)*v.Size()], v.data)
		}
		return &ParamSetValues{Stacked: stacked, rows: values}, nil
	}

	rows := make([]*Array, len(values))
	data := make([]float64, 0, len(values)*s.nModels)
	for i, v := range values {
		if v.Size() != s.nModels {
			return nil, fmt.Errorf("%w: cannot arrange parameter %q with %d value(s) into %d model set(s)",
				ErrInputParameter, s.names[i], v.Size(), s.nModels)
		}
		row, err := v.Reshape(s.nModels)
		if err != nil {
			return nil, err
		}
		rows[i] = row
		data = append(data, row.data...)
	}
	return &ParamSetValues{
		Matrix: mat.NewDense(len(values), s.nModels, data),
		rows:   rows,
	}, nil
}
