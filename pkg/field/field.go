package field

import (
	"errors"
	"fmt"
	"strings"
)

// Formatter transforms raw input before it is validated and stored. previous
// is the value currently held for the field.
type Formatter func(raw, previous string) string

// Validator inspects a non-empty value and returns an error message, or the
// empty string when the value is acceptable. values holds every field value
// as of the last committed render.
type Validator func(value string, values map[string]string) string

// Choice is a code/display pair offered by select-style fields.
type Choice struct {
	Code    string `json:"code" yaml:"code"`
	Display string `json:"display" yaml:"display"`
}

// Declaration describes a single field as supplied by the caller. Zero values
// fall back to the defaults applied by Resolve.
type Declaration struct {
	Name       string
	Label      string
	Initial    string
	Readonly   bool
	Required   Required
	Formatter  Formatter
	Validators []Validator
	Choices    []Choice
	// Attrs carries arbitrary display hints (autocomplete, help, secret...)
	// through to the display component untouched.
	Attrs map[string]any
}

// Fields is an ordered set of declarations. Order is preserved by every
// projection built from it.
type Fields []Declaration

// Lookup returns the declaration registered under name.
func (f Fields) Lookup(name string) (Declaration, bool) {
	for _, decl := range f {
		if decl.Name == name {
			return decl, true
		}
	}
	return Declaration{}, false
}

// Names returns the declared field names in order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for _, decl := range f {
		names = append(names, decl.Name)
	}
	return names
}

// Validate rejects empty and duplicate field names.
func (f Fields) Validate() error {
	seen := make(map[string]struct{}, len(f))
	for idx, decl := range f {
		name := strings.TrimSpace(decl.Name)
		if name == "" {
			return fmt.Errorf("field: declaration %d has an empty name", idx)
		}
		if name != decl.Name {
			return fmt.Errorf("field: name %q has surrounding whitespace", decl.Name)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("field: duplicate field %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ErrNoFields is returned by callers that need at least one declaration.
var ErrNoFields = errors.New("field: no fields declared")
