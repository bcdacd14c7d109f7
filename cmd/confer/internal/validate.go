package internal

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check toolchain constraints against the ambient environment",
	RunE:  runValidate,
}

func init() {
	addPassFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}
	env := environment()
	if err := r.Validate(env); err != nil {
		return err
	}
	logger.Info().
		Str("compiler", env.Compiler).
		Int("std", env.Std).
		Str("cmake", env.CMakeVersion).
		Msg("toolchain constraints satisfied")
	return nil
}
