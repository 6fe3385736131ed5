package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/modelfit/modelfit/model"
)

// evalCmd evaluates a bundle-defined model. Each positional argument supplies
// one independent variable as a comma-separated value list; a single value is
// treated as a scalar input.
var evalCmd = &cobra.Command{
	Use:   "eval [values ...]",
	Short: "Evaluate the model defined by a bundle file",
	Run: func(cmd *cobra.Command, args []string) {
		m := mustBuildBundle()
		if len(args) != m.NInputs() {
			logrus.Fatalf("model %s expects %d input(s), got %d", m.Name(), m.NInputs(), len(args))
		}
		inputs := make([]*model.Array, len(args))
		for i, arg := range args {
			in, err := parseInputArg(arg)
			if err != nil {
				logrus.Fatalf("invalid input %d: %v", i, err)
			}
			inputs[i] = in
		}
		outputs, err := m.Eval(inputs...)
		if err != nil {
			logrus.Fatalf("evaluation failed: %v", err)
		}
		for _, out := range outputs {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
	},
}

func init() {
	evalCmd.Flags().StringVarP(&bundlePath, "file", "f", "", "Path to the model bundle YAML")
	_ = evalCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(evalCmd)
}

// parseInputArg converts "1,2,3" to a vector and "5" to a scalar.
func parseInputArg(arg string) (*model.Array, error) {
	parts := strings.Split(arg, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if len(vals) == 1 && !strings.Contains(arg, ",") {
		return model.Scalar(vals[0]), nil
	}
	return model.Vector(vals...), nil
}
