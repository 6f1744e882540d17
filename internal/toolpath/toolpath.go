// Package toolpath turns artifact directories into platform-correct
// executable paths for external code-generation tools.
package toolpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTool is returned for an empty tool name or one that contains a
// path separator.
var ErrInvalidTool = errors.New("invalid tool name")

// ToolNotFoundError reports that no candidate executable exists for Tool.
// It means the dependency installation is broken or incomplete.
type ToolNotFoundError struct {
	Tool       string
	Platform   Platform
	Candidates []string
}

func (e *ToolNotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("tool %q not found: no directories to search", e.Tool)
	}
	return fmt.Sprintf("tool %q not found (searched: %s)", e.Tool, strings.Join(e.Candidates, ", "))
}

// Prober checks whether an executable file exists at a path.
type Prober interface {
	Probe(path string) (bool, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(path string) (bool, error)

func (f ProberFunc) Probe(path string) (bool, error) { return f(path) }

// Resolver resolves tool executables with a Prober.
type Resolver struct {
	prober Prober
}

// New returns a Resolver backed by p. A nil p probes the host filesystem.
func New(p Prober) *Resolver {
	if p == nil {
		p = HostProber{}
	}
	return &Resolver{prober: p}
}

// Resolve walks dirs in order and returns the first existing
// dir/tool+suffix for platform p.
func (r *Resolver) Resolve(dirs []string, tool string, p Platform) (string, error) {
	if tool == "" || strings.ContainsAny(tool, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTool, tool)
	}
	file := p.Executable(tool)
	candidates := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		candidate := p.Join(dir, file)
		ok, err := r.prober.Probe(candidate)
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		if ok {
			return candidate, nil
		}
		candidates = append(candidates, candidate)
	}
	return "", &ToolNotFoundError{Tool: tool, Platform: p, Candidates: candidates}
}

// Resolve is like (*Resolver).Resolve on the host filesystem.
func Resolve(dirs []string, tool string, p Platform) (string, error) {
	return New(nil).Resolve(dirs, tool, p)
}
