package form

import (
	"github.com/zoobzio/capitan"

	"github.com/goliatone/go-formstate/pkg/field"
)

// IsValid is false when a required field is empty or any field carries
// client errors. Optional fields only count through their client errors.
func (c *Controller) IsValid() bool {
	st := c.snapshot()
	for _, resolved := range c.Fields() {
		if fieldInvalid(resolved, c.Value(resolved.Name), st.clientErrors[resolved.Name]) {
			return false
		}
	}
	return true
}

func fieldInvalid(resolved field.Resolved, value string, clientErrs []string) bool {
	return (resolved.Required && value == "") || len(clientErrs) > 0
}

// IsSubmitting reports the committed submitting flag.
func (c *Controller) IsSubmitting() bool {
	return c.snapshot().submitting
}

// Submit prevents the event's default action and calls the submit handler with
// the current values. A pending result raises the submitting flag after the
// handler returns and lowers it when the future resolves, unless the
// controller was unmounted (or unmounted and mounted again) in between. A rejected future leaves the flag set.
// The handler's result is returned unchanged.
func (c *Controller) Submit(ev Event) Result {
	if ev != nil {
		ev.PreventDefault()
	}

	result := c.submit(c.Values(), c)
	if !result.IsPending() {
		return result
	}

	c.enqueue(mutation{apply: setSubmitting(true)})
	ctx := c.context()
	session := c.session.Load()
	capitan.Emit(ctx, SubmitStarted, KeyForm.Field(c.name))

	result.Future().Then(func(_ any, err error) {
		switch {
		case err != nil:
			capitan.Emit(ctx, SubmitRejected,
				KeyForm.Field(c.name),
				KeyError.Field(err.Error()),
			)
		case !c.alive.Load() || c.session.Load() != session:
			capitan.Emit(ctx, SubmitSkipped, KeyForm.Field(c.name))
		default:
			c.enqueue(mutation{apply: setSubmitting(false)})
			capitan.Emit(ctx, SubmitFinished, KeyForm.Field(c.name))
		}
	})
	return result
}

func setSubmitting(flag bool) func(formState) formState {
	return func(st formState) formState {
		st.submitting = flag
		return st
	}
}
