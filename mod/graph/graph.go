// Copyright 2024 The recipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph reads the resolved dependency graph handed over by the
// orchestrator and exposes each entry as an artifact.Dependency.
package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goplus/recipe/internal/artifact"
	"github.com/goplus/recipe/mod/module"
)

// ErrNoDependency is returned by Lookup for a name absent from the graph.
var ErrNoDependency = errors.New("dependency not in resolved graph")

// Graph is the resolved dependency set of one build pass.
type Graph struct {
	Dependencies map[string]*Package `json:"dependencies"`
}

// CppInfo lists the installed directories of a package per category.
// Relative entries are relative to the package folder and may be
// doublestar patterns.
type CppInfo struct {
	BinDirs     []string `json:"bindirs"`
	LibDirs     []string `json:"libdirs"`
	IncludeDirs []string `json:"includedirs"`
	ResDirs     []string `json:"resdirs"`
}

// Package is one resolved dependency.
type Package struct {
	Reference     string  `json:"ref"`
	PackageFolder string  `json:"package_folder"`
	CppInfo       CppInfo `json:"cpp_info"`

	ref  module.Version
	dirs map[artifact.Category][]string
}

var _ artifact.Dependency = (*Package)(nil)

// NewPackage returns an in-memory Package with already expanded dirs.
func NewPackage(ref module.Version, dirs map[artifact.Category][]string) *Package {
	return &Package{Reference: ref.String(), ref: ref, dirs: maps.Clone(dirs)}
}

// Ref implements artifact.Dependency.
func (p *Package) Ref() module.Version { return p.ref }

// Dirs implements artifact.Dependency.
func (p *Package) Dirs(c artifact.Category) []string { return p.dirs[c] }

// Parse reads and parses a graph file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
func Parse(file string, data []byte) (*Graph, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var g Graph
	if err := json.NewDecoder(reader).Decode(&g); err != nil {
		return nil, err
	}
	for name, p := range g.Dependencies {
		if p == nil {
			return nil, fmt.Errorf("dependency %q: empty entry", name)
		}
		if err := p.init(name); err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
	}
	return &g, nil
}

func (p *Package) init(name string) error {
	p.ref = module.Version{Path: name}
	if p.Reference != "" {
		ref, err := module.ParseRef(p.Reference)
		if err != nil {
			return err
		}
		if ref.Path != name {
			return fmt.Errorf("ref %q names package %q", p.Reference, ref.Path)
		}
		p.ref = ref
	}

	p.dirs = make(map[artifact.Category][]string, len(artifact.Categories))
	for c, dirs := range map[artifact.Category][]string{
		artifact.Binaries:  p.CppInfo.BinDirs,
		artifact.Libraries: p.CppInfo.LibDirs,
		artifact.Headers:   p.CppInfo.IncludeDirs,
		artifact.Resources: p.CppInfo.ResDirs,
	} {
		expanded, err := p.expand(dirs)
		if err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
		if len(expanded) > 0 {
			p.dirs[c] = expanded
		}
	}
	return nil
}

// expand anchors relative dirs at the package folder and replaces
// patterns with the directories they match, sorted. An existing directory
// is kept as declared even if its name contains pattern characters.
// Declaration order of the entries themselves is kept.
func (p *Package) expand(dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		if p.PackageFolder != "" && !filepath.IsAbs(dir) {
			dir = filepath.Join(p.PackageFolder, filepath.FromSlash(dir))
		}
		if !hasMeta(dir) || isDir(dir) {
			out = append(out, dir)
			continue
		}
		matches, err := doublestar.FilepathGlob(dir)
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", dir, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if isDir(m) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Lookup returns the dependency called name.
func (g *Graph) Lookup(name string) (*Package, error) {
	if p, ok := g.Dependencies[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDependency, name)
}

// Names returns the dependency names in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.Dependencies))
	for name := range g.Dependencies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
