// Package pass drives the two lifecycle phases of one build-configuration
// pass: declaring the build layout and generating the toolchain.
package pass

import (
	"errors"
	"fmt"

	"github.com/goplus/recipe/internal/artifact"
	"github.com/goplus/recipe/internal/msg"
	"github.com/goplus/recipe/internal/toolchain"
	"github.com/goplus/recipe/internal/toolpath"
	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/mod/module"
	"github.com/goplus/recipe/recipe"
)

// ErrPhaseDone is returned when a phase is run a second time in a pass.
var ErrPhaseDone = errors.New("phase already ran in this pass")

// Phase is a terminal state of a pass phase.
type Phase int

const (
	LayoutDeclared Phase = 1 << iota
	ToolchainEmitted
)

func (p Phase) String() string {
	switch p {
	case LayoutDeclared:
		return "layout"
	case ToolchainEmitted:
		return "toolchain"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Options configures a Pass.
type Options struct {
	Recipe   *recipe.Recipe
	Graph    *graph.Graph
	Settings recipe.Settings

	// Generator is the CMake generator name, used to tell multi-config
	// layouts apart. Empty means the compiler's default.
	Generator string

	// Prober checks tool candidates. Nil probes the host filesystem.
	Prober toolpath.Prober
}

// Pass is a single build-configuration pass. It is not safe for
// concurrent use and must not be reused across passes.
type Pass struct {
	opts     Options
	resolver *toolpath.Resolver
	done     Phase
}

// New checks opts and returns a fresh Pass.
func New(opts Options) (*Pass, error) {
	if opts.Recipe == nil {
		return nil, errors.New("pass: recipe is required")
	}
	if opts.Graph == nil {
		opts.Graph = &graph.Graph{}
	}
	if err := opts.Recipe.CheckSettings(opts.Settings); err != nil {
		return nil, err
	}
	return &Pass{opts: opts, resolver: toolpath.New(opts.Prober)}, nil
}

// Done reports whether phase p has run.
func (p *Pass) Done(phase Phase) bool {
	return p.done&phase != 0
}

func (p *Pass) enter(phase Phase) error {
	if p.Done(phase) {
		return fmt.Errorf("%s: %w", phase, ErrPhaseDone)
	}
	p.done |= phase
	return nil
}

// DeclareLayout runs the layout phase.
func (p *Pass) DeclareLayout() (toolchain.Layout, error) {
	if err := p.enter(LayoutDeclared); err != nil {
		return toolchain.Layout{}, err
	}
	r, s := p.opts.Recipe, p.opts.Settings
	l, err := toolchain.DeclareLayout(toolchain.LayoutContext{
		RootDir:          r.Dir,
		BuildType:        s.BuildType,
		Generator:        p.opts.Generator,
		Compiler:         s.Compiler,
		SourceFolder:     r.Layout.Src,
		BuildFolder:      r.Layout.Build,
		GeneratorsFolder: r.Layout.Generators,
	})
	if err != nil {
		return toolchain.Layout{}, err
	}
	msg.Info("Build folder: %s", l.Build)
	msg.Info("Generators folder: %s", l.Generators)
	return l, nil
}

// GenerateToolchain runs the toolchain phase. Tools are resolved in
// recipe declaration order and every tool is attempted; all missing tools
// are reported, joined in that order, and no Description is returned
// unless all of them resolved.
func (p *Pass) GenerateToolchain() (*toolchain.Description, error) {
	if err := p.enter(ToolchainEmitted); err != nil {
		return nil, err
	}
	s := p.opts.Settings
	tools, err := p.opts.Recipe.ActiveTools(s)
	if err != nil {
		return nil, err
	}
	plat := toolpath.PlatformOf(s.OS)

	bindirs := make(map[string][]string)
	resolved := make([]toolchain.ResolvedTool, 0, len(tools))
	var missing []error
	for _, t := range tools {
		dirs, ok := bindirs[t.Dependency]
		if !ok {
			dirs, err = p.binDirs(t.Dependency)
			if err != nil {
				return nil, err
			}
			bindirs[t.Dependency] = dirs
		}
		path, err := p.resolver.Resolve(dirs, t.Name, plat)
		if err != nil {
			var tnf *toolpath.ToolNotFoundError
			if !errors.As(err, &tnf) {
				return nil, err
			}
			msg.Debug("%s: %v", t.Var, err)
			missing = append(missing, fmt.Errorf("%s from %s: %w", t.Var, t.Dependency, err))
			continue
		}
		resolved = append(resolved, toolchain.ResolvedTool{Var: t.Var, Path: path})
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	desc, err := toolchain.Emit(resolved)
	if err != nil {
		return nil, err
	}
	for _, name := range desc.Names() {
		v, _ := desc.Get(name)
		msg.Info("Setting %s=%s", name, v)
	}
	return desc, nil
}

// binDirs looks up dependency name, checks it against the recipe's
// requirement and locates its binaries.
func (p *Pass) binDirs(name string) ([]string, error) {
	dep, err := p.opts.Graph.Lookup(name)
	if err != nil {
		return nil, err
	}
	if want, ok := p.opts.Recipe.Requirement(name); ok {
		if err := checkVersion(want, dep.Ref()); err != nil {
			return nil, err
		}
	}
	return artifact.Locate(dep, artifact.Binaries)
}

// checkVersion accepts got when it is at least the required version.
func checkVersion(want, got module.Version) error {
	if got.Version == "" {
		return nil
	}
	switch c := module.Compare(got.Version, want.Version); {
	case c < 0:
		return fmt.Errorf("dependency %s resolved to %s, older than required %s", want.Path, got, want)
	case c > 0:
		msg.Warn("dependency %s resolved to %s, newer than required %s", want.Path, got, want)
	}
	return nil
}

// Run executes a whole pass: layout first, then toolchain.
func Run(opts Options) (toolchain.Layout, *toolchain.Description, error) {
	p, err := New(opts)
	if err != nil {
		return toolchain.Layout{}, nil, err
	}
	l, err := p.DeclareLayout()
	if err != nil {
		return toolchain.Layout{}, nil, err
	}
	d, err := p.GenerateToolchain()
	if err != nil {
		return toolchain.Layout{}, nil, err
	}
	return l, d, nil
}
