package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelfit/modelfit/model"
)

// The core ships no concrete model families; this package registers two basic
// coordinate transforms through the public contract so the CLI has something
// to build and evaluate.

// shiftFamily adds a constant offset to its input.
var shiftFamily = &model.Family{
	Name: "shift",
	Params: []model.Parameter{
		{Name: "offset", Description: "additive offset", Default: model.Scalar(0)},
	},
	NInputs:  1,
	NOutputs: 1,
	Fittable: true,
	Linear:   true,
	Eval: func(inputs, params []*model.Array) ([]*model.Array, error) {
		out, err := inputs[0].Add(params[0])
		if err != nil {
			return nil, err
		}
		return []*model.Array{out}, nil
	},
}

// Inverse is assigned in init to avoid an initialization cycle: the closure
// refers back to shiftFamily.
func init() {
	shiftFamily.Inverse = func(m *model.Model) (model.Transform, error) {
		offset, err := m.Param("offset")
		if err != nil {
			return nil, err
		}
		neg := offset.Apply(func(v float64) float64 { return -v })
		inv, err := model.New(shiftFamily, &model.Config{
			Positional:   []*model.Array{neg},
			ModelSetAxis: m.Store().ModelSetAxis(),
		})
		if err != nil {
			return nil, err
		}
		return inv, nil
	}
}

// scaleFamily multiplies its input by a constant factor.
var scaleFamily = &model.Family{
	Name: "scale",
	Params: []model.Parameter{
		{Name: "factor", Description: "multiplicative factor", Default: model.Scalar(1)},
	},
	NInputs:  1,
	NOutputs: 1,
	Fittable: true,
	Linear:   true,
	Eval: func(inputs, params []*model.Array) ([]*model.Array, error) {
		out, err := inputs[0].Mul(params[0])
		if err != nil {
			return nil, err
		}
		return []*model.Array{out}, nil
	},
}

// Inverse is assigned in init to avoid an initialization cycle: the closure
// refers back to scaleFamily.
func init() {
	scaleFamily.Inverse = func(m *model.Model) (model.Transform, error) {
		factor, err := m.Param("factor")
		if err != nil {
			return nil, err
		}
		recip := factor.Apply(func(v float64) float64 { return 1 / v })
		inv, err := model.New(scaleFamily, &model.Config{
			Positional:   []*model.Array{recip},
			ModelSetAxis: m.Store().ModelSetAxis(),
		})
		if err != nil {
			return nil, err
		}
		return inv, nil
	}
}

func init() {
	model.MustRegister(shiftFamily)
	model.MustRegister(scaleFamily)
	rootCmd.AddCommand(familiesCmd)
}

// familiesCmd lists the registered model families.
var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List registered model families",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range model.Families() {
			f, _ := model.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d in, %d out): %s\n",
				name, f.NInputs, f.NOutputs, strings.Join(paramNames(f), ", "))
		}
	},
}

func paramNames(f *model.Family) []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}
