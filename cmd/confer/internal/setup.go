package internal

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/confbuild/confer/buildvars"
	"github.com/confbuild/confer/formula"
	"github.com/confbuild/confer/internal/overrides"
	"github.com/confbuild/confer/mod/versions"
	"github.com/confbuild/confer/resolver"
	"github.com/confbuild/confer/toolchain"
	"github.com/confbuild/confer/x/cmake"
)

// Flags shared by the commands that run a resolution pass.
var (
	optionsFile  string
	versionsFile string

	envCompiler        string
	envCompilerVersion string
	envStd             int
	envCMakeVersion    string
	envOS              string
)

// Flags shared by the commands that drive cmake.
var (
	cmakeSourceDir  string
	cmakeBuildDir   string
	cmakeInstallDir string
	cmakeGenerator  string
	cmakeToolchain  string
)

const defaultVersionsFile = "versions.json"

func addPassFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&optionsFile, "options-file", "f", "", "YAML file with option overrides")
	flags.StringVar(&versionsFile, "versions", "", "Dependency pin file (default versions.json if present)")
	flags.StringVar(&envCompiler, "compiler", "", "Ambient compiler (e.g. gcc, clang, msvc)")
	flags.StringVar(&envCompilerVersion, "compiler-version", "", "Ambient compiler version")
	flags.IntVar(&envStd, "std", 17, "Active language standard")
	flags.StringVar(&envCMakeVersion, "cmake-version", "3.25.3", "Ambient cmake version")
	flags.StringVar(&envOS, "os", runtime.GOOS, "Target operating system")
}

func addCMakeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&cmakeSourceDir, "source-dir", "S", ".", "CMake source directory")
	flags.StringVarP(&cmakeBuildDir, "build-dir", "B", "build", "CMake build directory")
	flags.StringVar(&cmakeInstallDir, "install-dir", "", "Install prefix")
	flags.StringVarP(&cmakeGenerator, "generator", "G", "", "CMake generator")
	flags.StringVar(&cmakeToolchain, "toolchain", "", "CMake toolchain file")
}

// newCMake builds the executor wrapper from the shared cmake flags and the
// resolved variable map.
func newCMake(vars buildvars.Map) *cmake.CMake {
	c := cmake.New(cmakeSourceDir, cmakeBuildDir, cmakeInstallDir)
	if cmakeGenerator != "" {
		c.Generator(cmakeGenerator)
	}
	if cmakeToolchain != "" {
		c.Toolchain(cmakeToolchain)
	}
	c.Apply(vars)
	return c
}

// newResolver builds the resolver from the declared formula, applying the
// pin file when one is configured or present in the working directory.
func newResolver() (*resolver.Resolver, error) {
	profile := formula.Default()

	path := versionsFile
	if path == "" {
		if _, err := os.Stat(defaultVersionsFile); err == nil {
			path = defaultVersionsFile
		}
	}
	if path != "" {
		pins, err := versions.Parse(path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		logger.Debug().Str("file", path).Int("pins", len(pins.Pins)).Msg("applying dependency pins")
		profile, err = formula.WithPins(profile, pins)
		if err != nil {
			return nil, err
		}
	}

	return resolver.New(profile)
}

// environment assembles the ambient toolchain description from flags.
func environment() toolchain.Environment {
	return toolchain.Environment{
		Compiler:        envCompiler,
		CompilerVersion: envCompilerVersion,
		Std:             envStd,
		CMakeVersion:    envCMakeVersion,
		OS:              envOS,
	}
}

// loadOverrides merges override sources: options file, then CONFER_OPT_*
// environment variables, then key=value arguments.
func loadOverrides(args []string) (map[string]any, error) {
	var fileLayer map[string]any
	if optionsFile != "" {
		layer, err := overrides.FromFile(optionsFile)
		if err != nil {
			return nil, err
		}
		fileLayer = layer
	}
	argLayer, err := overrides.FromArgs(args)
	if err != nil {
		return nil, err
	}
	return overrides.Merge(fileLayer, overrides.FromEnv(os.Environ()), argLayer), nil
}
