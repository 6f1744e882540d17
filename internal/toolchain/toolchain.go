// Package toolchain builds the cache-variable description consumed by the
// downstream build-file generator, and declares the build layout.
package toolchain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Cache variables understood by the downstream generator.
const (
	FlexExecutable   = "FLEX_EXECUTABLE"
	BisonExecutable  = "BISON_EXECUTABLE"
	Re2cExecutable   = "RE2C_EXECUTABLE"
	ProtocExecutable = "PROTOBUF_PROTOC_EXECUTABLE"
	PythonExecutable = "PYTHON_EXECUTABLE"
	PerlExecutable   = "PERL_EXECUTABLE"
	NasmExecutable   = "NASM_EXECUTABLE"
)

// KnownVariables is the fixed set of names a Description accepts.
var KnownVariables = []string{
	FlexExecutable,
	BisonExecutable,
	Re2cExecutable,
	ProtocExecutable,
	PythonExecutable,
	PerlExecutable,
	NasmExecutable,
}

// IsKnown reports whether name is in KnownVariables.
func IsKnown(name string) bool {
	return slices.Contains(KnownVariables, name)
}

// ErrUnknownVariable is returned when setting a name outside KnownVariables.
var ErrUnknownVariable = errors.New("unknown cache variable")

// ConflictError reports two different values for the same variable.
type ConflictError struct {
	Name     string
	Existing string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cache variable %s already set to %q, refusing %q", e.Name, e.Existing, e.Value)
}

// Description maps cache-variable names to values. It is append-only: a
// name, once set, keeps its value.
type Description struct {
	vars  map[string]string
	order []string
}

// NewDescription returns an empty Description.
func NewDescription() *Description {
	return &Description{vars: make(map[string]string)}
}

// Set records name=value. Setting the same value again is a no-op.
func (d *Description) Set(name, value string) error {
	if !IsKnown(name) {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	if cur, ok := d.vars[name]; ok {
		if cur != value {
			return &ConflictError{Name: name, Existing: cur, Value: value}
		}
		return nil
	}
	d.vars[name] = value
	d.order = append(d.order, name)
	return nil
}

// Get returns the value of name.
func (d *Description) Get(name string) (string, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// Len returns the number of variables.
func (d *Description) Len() int { return len(d.vars) }

// Names returns the variable names in insertion order.
func (d *Description) Names() []string { return slices.Clone(d.order) }

// Vars returns a copy of the mapping.
func (d *Description) Vars() map[string]string { return maps.Clone(d.vars) }

func (d *Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.vars)
}

// ResolvedTool pairs a cache variable with a resolved executable path.
type ResolvedTool struct {
	Var  string
	Path string
}

// Emit builds a Description from tools in order. On error no Description
// is returned.
func Emit(tools []ResolvedTool) (*Description, error) {
	d := NewDescription()
	for _, t := range tools {
		if err := d.Set(t.Var, t.Path); err != nil {
			return nil, err
		}
	}
	return d, nil
}
