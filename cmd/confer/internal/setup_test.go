package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/confbuild/confer/buildvars"
)

func TestNewCMake_FromFlags(t *testing.T) {
	oldSource, oldBuild, oldInstall := cmakeSourceDir, cmakeBuildDir, cmakeInstallDir
	oldGen, oldToolchain := cmakeGenerator, cmakeToolchain
	defer func() {
		cmakeSourceDir, cmakeBuildDir, cmakeInstallDir = oldSource, oldBuild, oldInstall
		cmakeGenerator, cmakeToolchain = oldGen, oldToolchain
	}()
	cmakeSourceDir = "/src"
	cmakeBuildDir = "/build"
	cmakeInstallDir = "/install"
	cmakeGenerator = "Ninja"
	cmakeToolchain = "/opt/arm64.cmake"

	c := newCMake(buildvars.Map{
		{Key: "BUILD_TESTING", Value: "OFF"},
		{Key: "CMAKE_BUILD_TYPE", Value: "Release"},
	})

	args := c.ConfigureArgs()
	for _, want := range []string{
		"-G", "Ninja",
		"-DBUILD_TESTING:BOOL=OFF",
		"-DCMAKE_BUILD_TYPE:STRING=Release",
		"-DCMAKE_TOOLCHAIN_FILE:STRING=/opt/arm64.cmake",
		"-DCMAKE_INSTALL_PREFIX:STRING=/install",
	} {
		found := false
		for _, a := range args {
			if a == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("ConfigureArgs() = %v, missing %q", args, want)
		}
	}

	if diff := cmp.Diff([]string{"--build", "/build"}, c.BuildArgs()); diff != "" {
		t.Errorf("BuildArgs() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--install", "/build", "--prefix", "/install"}, c.InstallArgs()); diff != "" {
		t.Errorf("InstallArgs() mismatch (-want +got):\n%s", diff)
	}
}
