package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bundle is a YAML model definition: a registered family name plus parameter
// values and constraint overrides. Tied and model-level constraint functions
// are code-only and not expressible in a bundle.
//
// Example:
//
//	family: gaussian1d
//	parameters:
//	  amplitude: 10
//	  mean: 5
//	  stddev: 0.3
//	fixed:
//	  stddev: true
//	bounds:
//	  stddev: {min: 0}
type Bundle struct {
	Family       string                `yaml:"family"`
	ModelSetAxis *int                  `yaml:"model_set_axis"`
	Parameters   map[string]any        `yaml:"parameters"`
	Fixed        map[string]bool       `yaml:"fixed"`
	Bounds       map[string]BoundsSpec `yaml:"bounds"`
}

// BoundsSpec is the YAML form of a Bounds pair. Nil sides are unbounded.
type BoundsSpec struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// LoadBundle reads and parses a YAML model definition file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model bundle: %w", err)
	}
	return ParseBundle(data)
}

// ParseBundle parses a YAML model definition.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing model bundle: %w", err)
	}
	return &b, nil
}

// Validate checks the bundle against the family registry: the family must be
// registered and every referenced parameter name declared, with values
// convertible to numeric arrays.
func (b *Bundle) Validate() error {
	if b.Family == "" {
		return fmt.Errorf("%w: bundle does not name a family", ErrInputParameter)
	}
	f, ok := Lookup(b.Family)
	if !ok {
		return fmt.Errorf("%w: unknown family %q", ErrInputParameter, b.Family)
	}
	for name, raw := range b.Parameters {
		if _, declared := f.param(name); !declared {
			return fmt.Errorf("%w: family %q does not declare parameter %q",
				ErrInputParameter, f.Name, name)
		}
		if _, err := FromNested(raw); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	for name := range b.Fixed {
		if _, declared := f.param(name); !declared {
			return fmt.Errorf("%w: fixed constraint names undeclared parameter %q", ErrInputParameter, name)
		}
	}
	for name := range b.Bounds {
		if _, declared := f.param(name); !declared {
			return fmt.Errorf("%w: bounds constraint names undeclared parameter %q", ErrInputParameter, name)
		}
	}
	return nil
}

// Build constructs a model from the bundle via the family registry.
func (b *Bundle) Build() (*Model, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	f, _ := Lookup(b.Family)

	cfg := &Config{ModelSetAxis: b.ModelSetAxis}
	if len(b.Parameters) > 0 {
		cfg.Values = make(map[string]*Array, len(b.Parameters))
		for name, raw := range b.Parameters {
			v, err := FromNested(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			cfg.Values[name] = v
		}
	}
	if len(b.Fixed) > 0 {
		cfg.Fixed = make(map[string]bool, len(b.Fixed))
		for name, v := range b.Fixed {
			cfg.Fixed[name] = v
		}
	}
	if len(b.Bounds) > 0 {
		cfg.Bounds = make(map[string]Bounds, len(b.Bounds))
		for name, spec := range b.Bounds {
			cfg.Bounds[name] = Bounds{Min: spec.Min, Max: spec.Max}
		}
	}
	return New(f, cfg)
}
