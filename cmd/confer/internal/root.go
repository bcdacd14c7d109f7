package internal

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

// logger writes human-readable progress to stderr; results go to stdout.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var rootCmd = &cobra.Command{
	Use:   "confer",
	Short: "confer resolves build configuration for native builds",
	Long: `confer resolves a declared option schema plus user overrides into the
dependency list and variable set for a native (CMake) build invocation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger = logger.Level(zerolog.DebugLevel)
		} else {
			logger = logger.Level(zerolog.InfoLevel)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Msg(err.Error())
		os.Exit(1)
	}
}
