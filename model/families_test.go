package model

import (
	"fmt"
	"math"
)

// Concrete families used across the package tests. The core ships none; these
// are defined through the public contract the way an external consumer would.

var gaussianFamily = &Family{
	Name: "gaussian1d",
	Params: []Parameter{
		{Name: "amplitude", Default: Scalar(1)},
		{Name: "mean", Default: Scalar(0)},
		{Name: "stddev", Default: Scalar(1)},
	},
	NInputs:  1,
	NOutputs: 1,
	Fittable: true,
	Eval: func(inputs, params []*Array) ([]*Array, error) {
		x, amp, mean, stddev := inputs[0], params[0], params[1], params[2]
		d, err := x.Sub(mean)
		if err != nil {
			return nil, err
		}
		r, err := d.Div(stddev)
		if err != nil {
			return nil, err
		}
		sq, err := r.Mul(r)
		if err != nil {
			return nil, err
		}
		g := sq.Apply(func(v float64) float64 { return math.Exp(-0.5 * v) })
		out, err := g.Mul(amp)
		if err != nil {
			return nil, err
		}
		return []*Array{out}, nil
	},
}

var lineFamily = &Family{
	Name: "line",
	Params: []Parameter{
		{Name: "slope", Default: Scalar(1)},
		{Name: "intercept", Default: Scalar(0)},
	},
	NInputs:  1,
	NOutputs: 1,
	Fittable: true,
	Linear:   true,
	Eval: func(inputs, params []*Array) ([]*Array, error) {
		scaled, err := inputs[0].Mul(params[0])
		if err != nil {
			return nil, err
		}
		out, err := scaled.Add(params[1])
		if err != nil {
			return nil, err
		}
		return []*Array{out}, nil
	},
}

// sinCosFamily exercises multi-output evaluation.
var sinCosFamily = &Family{
	Name: "sincos",
	Params: []Parameter{
		{Name: "freq", Default: Scalar(1)},
	},
	NInputs:  1,
	NOutputs: 2,
	Eval: func(inputs, params []*Array) ([]*Array, error) {
		scaled, err := inputs[0].Mul(params[0])
		if err != nil {
			return nil, err
		}
		return []*Array{
			scaled.Apply(math.Sin),
			scaled.Apply(math.Cos),
		}, nil
	},
}

// offsetFamily is an invertible shift used by the composite tests.
var offsetFamily = &Family{
	Name: "offset",
	Params: []Parameter{
		{Name: "delta", Default: Scalar(0)},
	},
	NInputs:  1,
	NOutputs: 1,
	Fittable: true,
	Linear:   true,
	Eval: func(inputs, params []*Array) ([]*Array, error) {
		out, err := inputs[0].Add(params[0])
		if err != nil {
			return nil, err
		}
		return []*Array{out}, nil
	},
}

// Inverse is assigned in init to avoid an initialization cycle: the closure
// refers back to offsetFamily.
func init() {
	offsetFamily.Inverse = func(m *Model) (Transform, error) {
		delta, err := m.Param("delta")
		if err != nil {
			return nil, err
		}
		inv, err := New(offsetFamily, &Config{
			Positional:   []*Array{delta.Apply(func(v float64) float64 { return -v })},
			ModelSetAxis: m.Store().ModelSetAxis(),
		})
		if err != nil {
			return nil, err
		}
		return inv, nil
	}
}

// requiredFamily declares a parameter with no default.
var requiredFamily = &Family{
	Name: "required",
	Params: []Parameter{
		{Name: "value"},
	},
	NInputs:  1,
	NOutputs: 1,
	Eval: func(inputs, params []*Array) ([]*Array, error) {
		out, err := inputs[0].Mul(params[0])
		if err != nil {
			return nil, err
		}
		return []*Array{out}, nil
	},
}

func mustModel(f *Family, cfg *Config) *Model {
	m, err := New(f, cfg)
	if err != nil {
		panic(fmt.Sprintf("building test model %s: %v", f.Name, err))
	}
	return m
}
