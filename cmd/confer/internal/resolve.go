package internal

import (
	"os"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [option=value ...]",
	Short: "Resolve options into dependencies and build variables",
	Long: `Resolve validates the toolchain, overlays overrides onto the declared
defaults and prints the resolved options, the dependency list and the build
variable map as YAML.`,
	RunE: runResolve,
}

func init() {
	addPassFlags(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}
	ov, err := loadOverrides(args)
	if err != nil {
		return err
	}
	logger.Debug().Int("overrides", len(ov)).Msg("starting resolution pass")

	res, err := r.Run(environment(), ov)
	if err != nil {
		return err
	}
	logger.Debug().
		Int("dependencies", len(res.Dependencies)).
		Int("variables", len(res.Variables)).
		Msg("resolution pass complete")

	return writeResult(os.Stdout, res)
}
