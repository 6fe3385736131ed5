package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/modelfit/modelfit/model"
)

// describeCmd builds the model defined by a bundle file and prints its
// human-readable summary.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the model defined by a bundle file",
	Run: func(cmd *cobra.Command, args []string) {
		m := mustBuildBundle()
		fmt.Fprint(cmd.OutOrStdout(), m)
	},
}

func init() {
	describeCmd.Flags().StringVarP(&bundlePath, "file", "f", "", "Path to the model bundle YAML")
	_ = describeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(describeCmd)
}

// mustBuildBundle loads, validates and builds the bundle named by -f,
// exiting on failure.
func mustBuildBundle() *model.Model {
	bundle, err := model.LoadBundle(bundlePath)
	if err != nil {
		logrus.Fatalf("unable to read model bundle: %v", err)
	}
	m, err := bundle.Build()
	if err != nil {
		logrus.Fatalf("unable to build model from %s: %v", bundlePath, err)
	}
	return m
}
