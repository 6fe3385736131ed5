package model

import "fmt"

// ConstraintTable registers per-parameter constraints (fixed, tied, bounds)
// and model-level constraint functions (eqcons, ineqcons). Per-parameter
// entries are seeded from the declared Parameter defaults and then overridden
// by constructor-supplied maps. The accessor methods return the live maps and
// slices: mutating through them is the supported way to adjust constraints on
// an existing model.
type ConstraintTable struct {
	fixed    map[string]bool
	tied     map[string]TiedFunc
	bounds   map[string]Bounds
	eqcons   []ConstraintFunc
	ineqcons []ConstraintFunc
}

// newConstraintTable seeds the table from the family's declared defaults and
// applies the constructor overrides on top. Override keys must name declared
// parameters.
func newConstraintTable(f *Family, names []string, cfg *Config) (*ConstraintTable, error) {
	t := &ConstraintTable{
		fixed:  make(map[string]bool, len(names)),
		tied:   make(map[string]TiedFunc),
		bounds: make(map[string]Bounds),
	}

	for _, name := range names {
		p, ok := f.param(name)
		if !ok {
			continue
		}
		t.fixed[name] = p.Fixed
		if p.Tied != nil {
			t.tied[name] = p.Tied
		}
		if p.Bounds != nil {
			t.bounds[name] = *p.Bounds
		}
	}

	if cfg != nil {
		for name, v := range cfg.Fixed {
			if err := checkConstraintName(f, name, "fixed"); err != nil {
				return nil, err
			}
			t.fixed[name] = v
		}
		for name, fn := range cfg.Tied {
			if err := checkConstraintName(f, name, "tied"); err != nil {
				return nil, err
			}
			t.tied[name] = fn
		}
		for name, b := range cfg.Bounds {
			if err := checkConstraintName(f, name, "bounds"); err != nil {
				return nil, err
			}
			t.bounds[name] = b
		}
		if cfg.EqCons != nil {
			t.eqcons = append([]ConstraintFunc(nil), cfg.EqCons...)
		}
		if cfg.IneqCons != nil {
			t.ineqcons = append([]ConstraintFunc(nil), cfg.IneqCons...)
		}
	}
	return t, nil
}

func checkConstraintName(f *Family, name, kind string) error {
	if _, ok := f.param(name); !ok {
		return fmt.Errorf("%w: %s constraint given for parameter %q, which family %q does not declare",
			ErrInputParameter, kind, name, f.Name)
	}
	return nil
}

// Fixed returns the live name→fixed map. Every declared parameter has an entry.
func (t *ConstraintTable) Fixed() map[string]bool { return t.fixed }

// Tied returns the live name→tied-function map.
func (t *ConstraintTable) Tied() map[string]TiedFunc { return t.tied }

// Bounds returns the live name→bounds map.
func (t *ConstraintTable) Bounds() map[string]Bounds { return t.bounds }

// EqCons returns the model-level equality constraint functions.
func (t *ConstraintTable) EqCons() []ConstraintFunc { return t.eqcons }

// IneqCons returns the model-level inequality constraint functions.
func (t *ConstraintTable) IneqCons() []ConstraintFunc { return t.ineqcons }

// SetEqCons replaces the equality constraint list.
func (t *ConstraintTable) SetEqCons(fns []ConstraintFunc) { t.eqcons = fns }

// SetIneqCons replaces the inequality constraint list.
func (t *ConstraintTable) SetIneqCons(fns []ConstraintFunc) { t.ineqcons = fns }

// copyTable returns a copy of the table. Tied and constraint functions are
// shared by reference.
func (t *ConstraintTable) copyTable() *ConstraintTable {
	out := &ConstraintTable{
		fixed:    make(map[string]bool, len(t.fixed)),
		tied:     make(map[string]TiedFunc, len(t.tied)),
		bounds:   make(map[string]Bounds, len(t.bounds)),
		eqcons:   append([]ConstraintFunc(nil), t.eqcons...),
		ineqcons: append([]ConstraintFunc(nil), t.ineqcons...),
	}
	for k, v := range t.fixed {
		out.fixed[k] = v
	}
	for k, v := range t.tied {
		out.tied[k] = v
	}
	for k, v := range t.bounds {
		out.bounds[k] = v
	}
	return out
}
