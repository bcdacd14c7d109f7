package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	buildInstall bool
	buildDryRun  bool
)

var buildCmd = &cobra.Command{
	Use:   "build [option=value ...]",
	Short: "Resolve, configure and build via cmake",
	Long: `Build runs a full resolution pass, hands the produced variable map to
cmake, then runs the configure and build steps. With --install the install
step runs afterwards; with --dry-run the invocations are printed instead.`,
	RunE: runBuild,
}

func init() {
	addPassFlags(buildCmd)
	addCMakeFlags(buildCmd)
	flags := buildCmd.Flags()
	flags.BoolVar(&buildInstall, "install", false, "Run the cmake install step after building")
	flags.BoolVarP(&buildDryRun, "dry-run", "n", false, "Print the cmake invocations without running them")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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
	for _, d := range res.Dependencies {
		logger.Debug().Stringer("dep", d.Version).Msg("dependency required")
	}

	c := newCMake(res.Variables)
	if buildDryRun {
		fmt.Println("cmake " + strings.Join(c.ConfigureArgs(), " "))
		fmt.Println("cmake " + strings.Join(c.BuildArgs(), " "))
		if buildInstall {
			fmt.Println("cmake " + strings.Join(c.InstallArgs(), " "))
		}
		return nil
	}

	logger.Info().
		Str("source", cmakeSourceDir).
		Str("build", cmakeBuildDir).
		Msg("running cmake configure")
	if err := c.Configure(); err != nil {
		return fmt.Errorf("cmake configure failed: %w", err)
	}
	logger.Info().Str("build", cmakeBuildDir).Msg("running cmake build")
	if err := c.Build(); err != nil {
		return fmt.Errorf("cmake build failed: %w", err)
	}
	if buildInstall {
		logger.Info().Str("prefix", c.OutputDir()).Msg("running cmake install")
		if err := c.Install(); err != nil {
			return fmt.Errorf("cmake install failed: %w", err)
		}
	}
	return nil
}
