package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var varsCmd = &cobra.Command{
	Use:   "vars [option=value ...]",
	Short: "Print the build variable map",
	Long: `Vars resolves the options and prints the build variables as KEY=VALUE
lines, in mapping order, ready for the native build invocation.`,
	RunE: runVars,
}

func init() {
	addPassFlags(varsCmd)
	rootCmd.AddCommand(varsCmd)
}

func runVars(cmd *cobra.Command, args []string) error {
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
	for _, v := range res.Variables {
		fmt.Printf("%s=%s\n", v.Key, v.Value)
	}
	return nil
}
