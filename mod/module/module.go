// Package module defines the module.Version type along with support code.
package module

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/goplus/recipe/pkgs/gnu"
)

// ErrInvalidRef is returned by ParseRef for malformed requirement references.
var ErrInvalidRef = errors.New("invalid requirement reference")

// A Version (for clients, a module.Version) represents a specific version
// of a dependency identified by its path (package name).
type Version struct {
	Path    string // Package name, e.g. "winflexbison"
	Version string // Version string (e.g., "2.5.25")
}

// String returns the "path/version" reference form.
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "/" + v.Version
}

// ParseRef parses a requirement reference of the form "name/version".
// Optional "@user/channel" and "#revision" suffixes are accepted and
// dropped.
func ParseRef(ref string) (Version, error) {
	ref, _, _ = strings.Cut(strings.TrimSpace(ref), "#")
	ref, _, _ = strings.Cut(ref, "@")
	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return Version{Path: name, Version: version}, nil
}

// Compare compares two versions. Versions that look like semantic versions
// ("2.5.25", "1.0") are compared by precedence, others in GNU version order.
func Compare(v1, v2 string) int {
	s1, s2 := canonical(v1), canonical(v2)
	if semver.IsValid(s1) && semver.IsValid(s2) {
		return semver.Compare(s1, s2)
	}
	return gnu.Compare(v1, v2)
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
