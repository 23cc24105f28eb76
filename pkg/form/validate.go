package form

import (
	"strings"

	"github.com/zoobzio/capitan"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// ValidateField runs the declared validators of name against value. Empty
// values and unknown fields yield no errors.
func (c *Controller) ValidateField(name, value string, values map[string]string) []string {
	decl, ok := c.fields.Lookup(name)
	if !ok {
		return nil
	}
	return validation.Run(decl.Validators, value, values)
}

// validateAll seeds client errors for every field from the initial values.
func (c *Controller) validateAll() {
	values := c.Values()
	errs := make(map[string][]string, len(c.fields))
	for _, decl := range c.fields {
		errs[decl.Name] = validation.Run(decl.Validators, values[decl.Name], values)
	}
	c.enqueue(mutation{
		apply: func(st formState) formState {
			st.clientErrors = errs
			return st
		},
	})
}

// CheckChange formats raw the way HandleChange would and returns the client
// errors it would record, without queuing anything. Display components use it
// to reject input before it reaches the store.
func (c *Controller) CheckChange(name, raw string) []string {
	_, errs := c.prepareChange(name, raw, c.Values())
	return errs
}

// HandleChange is the change path bound into FieldProps.OnChange: the raw
// value is formatted against the previous value, validated, and written
// through the value store. Only the changed field's client errors are
// replaced.
func (c *Controller) HandleChange(name, raw string, onApplied func()) {
	value, errs := c.prepareChange(name, raw, c.Values())

	c.enqueue(mutation{
		apply: func(st formState) formState {
			st.clientErrors = withErrorList(st.clientErrors, name, errs)
			return st
		},
	})

	capitan.Emit(c.context(), FieldChanged,
		KeyForm.Field(c.name),
		KeyField.Field(name),
		KeyError.Field(strings.Join(errs, " ")),
	)

	c.SetValues(map[string]string{name: value}, onApplied)
}

// prepareChange applies the formatter and runs the validators. values is the
// map as of the last commit; validators do not see the pending value in it.
func (c *Controller) prepareChange(name, raw string, values map[string]string) (string, []string) {
	decl, _ := c.fields.Lookup(name)

	value := raw
	if decl.Formatter != nil {
		value = decl.Formatter(raw, values[name])
	}
	return value, c.ValidateField(name, value, values)
}
