package buildsys

import (
	"github.com/goplus/recipe/internal/artifact"
	"github.com/goplus/recipe/internal/toolchain"
)

// BuildSystem captures shared capabilities of build helpers (CMake, etc).
// It keeps the common lifecycle and dependency/env setup; implementations add their own extras.
type BuildSystem interface {
	// Use injects an installed dependency into the environment.
	Use(dep artifact.Dependency)

	// Toolchain hands the emitted toolchain variables to the build system.
	Toolchain(desc *toolchain.Description) error

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}
