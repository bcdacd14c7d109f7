package internal

import (
	"os"

	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps [option=value ...]",
	Short: "Print the resolved dependency list",
	Long: `Deps resolves the options and prints the dependencies the external
dependency manager must fetch, in declaration order, with their sub-option
overrides.`,
	RunE: runDeps,
}

func init() {
	addPassFlags(depsCmd)
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}
	ov, err := loadOverrides(args)
	if err != nil {
		return err
	}
	res, err := r.Run(environment(), ov)
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, depsNode(res.Dependencies))
}
