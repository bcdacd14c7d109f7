// Package cmake wraps the cmake configure/build/install workflow that
// consumes a resolved build variable map. It is the thin boundary to the
// external build executor; nothing here feeds back into resolution.
package cmake

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/confbuild/confer/buildvars"
)

type define struct {
	key      string
	value    string
	typeName string
}

// CMake drives CMake-based builds.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	toolchain  string
	defines    []define
	index      map[string]int
}

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		index:      make(map[string]int),
	}
}

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Define adds a -D<key>:STRING=<value> definition. Definitions keep their
// insertion order; redefining a key updates it in place.
func (c *CMake) Define(key, value string) {
	c.set(define{key: key, value: value, typeName: "STRING"})
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.set(define{key: key, value: v, typeName: "BOOL"})
}

func (c *CMake) set(d define) {
	if i, ok := c.index[d.key]; ok {
		c.defines[i] = d
		return
	}
	c.index[d.key] = len(c.defines)
	c.defines = append(c.defines, d)
}

// Apply feeds a resolved variable map into the configure definitions,
// preserving the map's order. ON/OFF values become BOOL definitions.
func (c *CMake) Apply(vars buildvars.Map) {
	for _, v := range vars {
		switch v.Value {
		case "ON", "OFF":
			c.set(define{key: v.Key, value: v.Value, typeName: "BOOL"})
		default:
			c.set(define{key: v.Key, value: v.Value, typeName: "STRING"})
		}
	}
}

// Use configures the process environment so that CMake and compilers find
// headers, libraries and pkg-config files from a non-system dependency
// installed at root.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	prependPath("CMAKE_PREFIX_PATH", root)
	if _, err := os.Stat(includeDir); err == nil {
		prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependPath("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependPath("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// ConfigureArgs returns the argument list Configure would run, without
// running anything. Useful for dry runs and logging.
func (c *CMake) ConfigureArgs(extra ...string) []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	for _, d := range c.defines {
		args = append(args, "-D"+d.key+":"+d.typeName+"="+d.value)
	}
	return append(args, extra...)
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run("cmake", c.ConfigureArgs(args...))
}

// BuildArgs returns the argument list Build would run, without running
// anything.
func (c *CMake) BuildArgs(extra ...string) []string {
	args := []string{"--build", c.buildDir}
	return append(args, extra...)
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(args ...string) error {
	return c.run("cmake", c.BuildArgs(args...))
}

// InstallArgs returns the argument list Install would run, without running
// anything.
func (c *CMake) InstallArgs(extra ...string) []string {
	args := []string{"--install", c.buildDir}
	if c.installDir != "" {
		args = append(args, "--prefix", c.installDir)
	}
	return append(args, extra...)
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(args ...string) error {
	return c.run("cmake", c.InstallArgs(args...))
}

// OutputDir returns installDir if set, otherwise buildDir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// prependPath prepends value to a PATH-style env var.
func prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := os.Getenv(key); cur != "" {
		value += sep + cur
	}
	os.Setenv(key, value)
}

// appendFlag appends a space-separated flag to an env var.
func appendFlag(key, flag string) {
	if cur := os.Getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	os.Setenv(key, flag)
}
