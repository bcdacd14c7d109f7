package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configureDryRun bool

var configureCmd = &cobra.Command{
	Use:   "configure [option=value ...]",
	Short: "Resolve and run the cmake configure step",
	Long: `Configure runs a full resolution pass and hands the produced variable
map to cmake. With --dry-run it prints the cmake invocation instead.`,
	RunE: runConfigure,
}

func init() {
	addPassFlags(configureCmd)
	addCMakeFlags(configureCmd)
	configureCmd.Flags().BoolVarP(&configureDryRun, "dry-run", "n", false, "Print the cmake invocation without running it")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
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

	c := newCMake(res.Variables)
	if configureDryRun {
		fmt.Println("cmake " + strings.Join(c.ConfigureArgs(), " "))
		return nil
	}
	logger.Info().
		Str("source", cmakeSourceDir).
		Str("build", cmakeBuildDir).
		Msg("running cmake configure")
	if err := c.Configure(); err != nil {
		return fmt.Errorf("cmake configure failed: %w", err)
	}
	return nil
}
