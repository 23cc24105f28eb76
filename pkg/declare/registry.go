package declare

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Registry stores named formatters and validators for declaration files.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]field.Formatter
	validators map[string]field.Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]field.Formatter),
		validators: make(map[string]field.Validator),
	}
}

// DefaultRegistry returns a registry holding the library formatters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegisterFormatter("trim", validation.Trim)
	r.MustRegisterFormatter("lower", validation.Lower)
	r.MustRegisterFormatter("upper", validation.Upper)
	r.MustRegisterFormatter("digits", validation.Digits)
	r.MustRegisterFormatter("collapse_spaces", validation.CollapseSpaces)
	return r
}

// RegisterFormatter adds a formatter. Duplicate names return an error.
func (r *Registry) RegisterFormatter(name string, fn field.Formatter) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("declare: formatter name is required")
	}
	if fn == nil {
		return fmt.Errorf("declare: formatter %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[name]; exists {
		return fmt.Errorf("declare: formatter %q already registered", name)
	}
	r.formatters[name] = fn
	return nil
}

// MustRegisterFormatter panics on registration failure.
func (r *Registry) MustRegisterFormatter(name string, fn field.Formatter) {
	if err := r.RegisterFormatter(name, fn); err != nil {
		panic(err)
	}
}

// RegisterValidator adds a named validator. Duplicate names return an error.
func (r *Registry) RegisterValidator(name string, fn field.Validator) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("declare: validator name is required")
	}
	if fn == nil {
		return fmt.Errorf("declare: validator %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.validators[name]; exists {
		return fmt.Errorf("declare: validator %q already registered", name)
	}
	r.validators[name] = fn
	return nil
}

// MustRegisterValidator panics on registration failure.
func (r *Registry) MustRegisterValidator(name string, fn field.Validator) {
	if err := r.RegisterValidator(name, fn); err != nil {
		panic(err)
	}
}

// Formatter looks up a formatter by name.
func (r *Registry) Formatter(name string) (field.Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("declare: formatter %q not found", name)
	}
	return fn, nil
}

// Validator looks up a validator by name.
func (r *Registry) Validator(name string) (field.Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.validators[name]
	if !ok {
		return nil, fmt.Errorf("declare: validator %q not found", name)
	}
	return fn, nil
}

// Names returns the sorted formatter and validator names.
func (r *Registry) Names() (formatters, validators []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.formatters {
		formatters = append(formatters, name)
	}
	for name := range r.validators {
		validators = append(validators, name)
	}
	sort.Strings(formatters)
	sort.Strings(validators)
	return formatters, validators
}

// formatterChain resolves names into one formatter applied left to right.
func (r *Registry) formatterChain(names []string) (field.Formatter, error) {
	if len(names) == 0 {
		return nil, nil
	}
	chain := make([]field.Formatter, 0, len(names))
	for _, name := range names {
		fn, err := r.Formatter(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		chain = append(chain, fn)
	}
	return validation.Chain(chain...), nil
}
