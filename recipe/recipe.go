// Package recipe parses recipe files: the declarative description of a
// package's requirements, the settings it consumes, and the external tools
// it injects into the generated toolchain.
package recipe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"

	"github.com/goplus/recipe/internal/toolchain"
	"github.com/goplus/recipe/mod/module"
)

// Filename is the conventional recipe file name.
const Filename = "recipe.toml"

// PackageSection defines the [package] section.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Tool defines a [[tool]] entry: the executable Name, without platform
// suffix, shipped in the binaries of Dependency and exposed as Var. When,
// if set, is an expression over the settings that enables the entry.
type Tool struct {
	Var        string `toml:"var"`
	Dependency string `toml:"dependency"`
	Name       string `toml:"name"`
	When       string `toml:"when"`
}

// LayoutSection defines the optional [layout] overrides, relative to the
// recipe directory.
type LayoutSection struct {
	Src        string `toml:"src"`
	Build      string `toml:"build"`
	Generators string `toml:"generators"`
}

type file struct {
	Settings []string       `toml:"settings"`
	Requires []string       `toml:"requires"`
	Package  PackageSection `toml:"package"`
	Tools    []Tool         `toml:"tool"`
	Layout   LayoutSection  `toml:"layout"`
}

// Recipe is a parsed recipe file.
type Recipe struct {
	Package  PackageSection
	Settings []string
	Requires []module.Version
	Tools    []Tool
	Layout   LayoutSection

	// Dir is the directory the recipe was loaded from.
	Dir string
}

// Parse decodes and validates a recipe.
func Parse(rdr io.Reader) (*Recipe, error) {
	var f file
	dec := toml.NewDecoder(rdr)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, decodeError(err)
	}

	r := &Recipe{
		Package:  f.Package,
		Settings: f.Settings,
		Tools:    f.Tools,
		Layout:   f.Layout,
	}
	if r.Package.Name == "" {
		return nil, errors.New("[package] name is required")
	}
	for _, key := range r.Settings {
		if !slices.Contains(settingKeys, key) {
			return nil, fmt.Errorf("unknown setting %q, known settings: %v", key, settingKeys)
		}
	}
	for _, ref := range f.Requires {
		v, err := module.ParseRef(ref)
		if err != nil {
			return nil, err
		}
		if _, dup := r.Requirement(v.Path); dup {
			return nil, fmt.Errorf("%s is required twice", v.Path)
		}
		r.Requires = append(r.Requires, v)
	}
	for i, t := range r.Tools {
		if err := r.checkTool(t); err != nil {
			return nil, fmt.Errorf("tool #%d (%s): %w", i+1, t.Name, err)
		}
	}
	return r, nil
}

func (r *Recipe) checkTool(t Tool) error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	if !toolchain.IsKnown(t.Var) {
		return fmt.Errorf("%w: %q", toolchain.ErrUnknownVariable, t.Var)
	}
	if _, ok := r.Requirement(t.Dependency); !ok {
		return fmt.Errorf("dependency %q is not in requires", t.Dependency)
	}
	if t.When != "" {
		if _, err := expr.Compile(t.When, expr.Env(Settings{}), expr.AsBool()); err != nil {
			return fmt.Errorf("failed to compile when %q: %w", t.When, err)
		}
	}
	return nil
}

// Load parses the recipe file at path.
func Load(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Parse(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Dir = filepath.Dir(path)
	return r, nil
}

// Requirement returns the required version of the dependency called name.
func (r *Recipe) Requirement(name string) (module.Version, bool) {
	for _, v := range r.Requires {
		if v.Path == name {
			return v, true
		}
	}
	return module.Version{}, false
}

// CheckSettings verifies that every setting the recipe declares is set.
func (r *Recipe) CheckSettings(s Settings) error {
	var missing []string
	for _, key := range r.Settings {
		if s.get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("recipe %s: settings not defined: %v", r.Package.Name, missing)
	}
	return nil
}

// ActiveTools returns, in declaration order, the tools whose When
// condition holds for s.
func (r *Recipe) ActiveTools(s Settings) ([]Tool, error) {
	var tools []Tool
	for _, t := range r.Tools {
		if t.When != "" {
			program, err := expr.Compile(t.When, expr.Env(s), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("failed to compile when %q: %w", t.When, err)
			}
			result, err := expr.Run(program, s)
			if err != nil {
				return nil, fmt.Errorf("failed to run when %q: %w", t.When, err)
			}
			if ok, _ := result.(bool); !ok {
				continue
			}
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func decodeError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		return errors.New(derr.String())
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		return errors.New(serr.String())
	}
	return err
}
