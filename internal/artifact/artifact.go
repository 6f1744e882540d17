// Package artifact locates the installed artifact directories of resolved
// dependencies.
package artifact

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goplus/recipe/mod/module"
)

// Category is a logical class of installed artifacts.
type Category string

const (
	Binaries  Category = "binaries"
	Libraries Category = "libraries"
	Headers   Category = "headers"
	Resources Category = "resources"
)

// Categories lists every valid category.
var Categories = []Category{Binaries, Libraries, Headers, Resources}

// ErrUnknownCategory is returned for a category outside Categories.
var ErrUnknownCategory = errors.New("unknown artifact category")

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ParseCategory converts s into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Dependency is a read-only handle to one entry of a resolved dependency
// graph. Implementations are owned by the resolver.
type Dependency interface {
	// Ref identifies the resolved dependency.
	Ref() module.Version
	// Dirs returns the installed directories of category c in preference
	// order. The first entry is the primary location.
	Dirs(c Category) []string
}

// MissingCategoryError reports that a dependency declares no directories
// for a category. It is a configuration error and must not be retried.
type MissingCategoryError struct {
	Dependency module.Version
	Category   Category
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("dependency %s declares no %s directories", e.Dependency, e.Category)
}

// Locate returns the directories dep declares for category c, in
// declaration order. The returned slice is a copy.
func Locate(dep Dependency, c Category) ([]string, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	dirs := dep.Dirs(c)
	if len(dirs) == 0 {
		return nil, &MissingCategoryError{Dependency: dep.Ref(), Category: c}
	}
	return slices.Clone(dirs), nil
}
