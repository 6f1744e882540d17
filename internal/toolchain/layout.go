package toolchain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoBuildType is returned by DeclareLayout when the build type is unset.
var ErrNoBuildType = errors.New("build_type setting is required to declare the layout")

// LayoutContext is the build-configuration context a layout is derived
// from. Folder overrides are relative to RootDir; empty means default.
type LayoutContext struct {
	RootDir   string
	BuildType string
	Generator string
	Compiler  string

	SourceFolder     string
	BuildFolder      string
	GeneratorsFolder string
}

// Layout holds the three directory roles of a build pass.
type Layout struct {
	Source     string `json:"source"`
	Build      string `json:"build"`
	Generators string `json:"generators"`
}

// AliasError reports two layout roles resolving to the same path.
type AliasError struct {
	Roles [2]string
	Path  string
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("layout %s and %s folders are both %s", e.Roles[0], e.Roles[1], e.Path)
}

// IsMultiConfig reports whether the generator (or, without one, the
// compiler's default generator) handles several build types in one tree.
func IsMultiConfig(generator, compiler string) bool {
	if generator != "" {
		return strings.Contains(generator, "Visual") ||
			strings.Contains(generator, "Xcode") ||
			strings.Contains(generator, "Multi-Config")
	}
	return compiler == "msvc"
}

// DeclareLayout computes the layout for ctx:
//
//	<root>/<src>                        source
//	<root>/build[/<BuildType>]          build (BuildType only for single-config)
//	<build>/generators                  generators
//
// The result depends only on ctx.
func DeclareLayout(ctx LayoutContext) (Layout, error) {
	if ctx.BuildType == "" {
		return Layout{}, ErrNoBuildType
	}
	root, err := filepath.Abs(ctx.RootDir)
	if err != nil {
		return Layout{}, err
	}

	src := orDefault(ctx.SourceFolder, ".")
	build := orDefault(ctx.BuildFolder, "build")
	if !IsMultiConfig(ctx.Generator, ctx.Compiler) {
		build = filepath.Join(build, ctx.BuildType)
	}
	gen := orDefault(ctx.GeneratorsFolder, filepath.Join(build, "generators"))

	l := Layout{
		Source:     filepath.Join(root, src),
		Build:      filepath.Join(root, build),
		Generators: filepath.Join(root, gen),
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that no two roles share a path.
func (l Layout) Validate() error {
	roles := []struct{ name, path string }{
		{"source", filepath.Clean(l.Source)},
		{"build", filepath.Clean(l.Build)},
		{"generators", filepath.Clean(l.Generators)},
	}
	for i := range roles {
		for j := i + 1; j < len(roles); j++ {
			if roles[i].path == roles[j].path {
				return &AliasError{Roles: [2]string{roles[i].name, roles[j].name}, Path: roles[i].path}
			}
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return filepath.FromSlash(s)
}
