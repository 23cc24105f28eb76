package form

import "github.com/goliatone/go-formstate/pkg/field"

// FieldProps is the per-field slice of the render bundle. ClientErrors are
// the committed validator messages; Invalid also covers an empty required
// value. OnChange formats, validates and stores a new raw value; onApplied
// runs after the write commits in local mode and is ignored in shared mode.
// Check reports the errors a change would record without applying it.
type FieldProps struct {
	field.Resolved
	Error        string                               `json:"error,omitempty"`
	Value        string                               `json:"value"`
	ClientErrors []string                             `json:"client_errors,omitempty"`
	Invalid      bool                                 `json:"invalid"`
	OnChange     func(value string, onApplied func()) `json:"-"`
	Check        func(value string) []string          `json:"-"`
}

// Props is everything a Component receives.
type Props struct {
	Fields       []FieldProps          `json:"fields"`
	GlobalError  string                `json:"global_error,omitempty"`
	IsValid      bool                  `json:"is_valid"`
	IsSubmitting bool                  `json:"is_submitting"`
	HandleSubmit func(ev Event) Result `json:"-"`
	Refresh      func()                `json:"-"`
	Extra        map[string]any        `json:"extra,omitempty"`
}

// Field returns the props of name.
func (p Props) Field(name string) (FieldProps, bool) {
	for _, fp := range p.Fields {
		if fp.Name == name {
			return fp, true
		}
	}
	return FieldProps{}, false
}

// Props projects the committed state into a render bundle.
func (c *Controller) Props() Props {
	st := c.snapshot()
	resolved := c.Fields()
	fields := make([]FieldProps, 0, len(resolved))
	for _, r := range resolved {
		name := r.Name
		errMsg, _ := c.Error(name)
		value := c.Value(name)
		clientErrs := append([]string(nil), st.clientErrors[name]...)
		fields = append(fields, FieldProps{
			Resolved:     r,
			Error:        errMsg,
			Value:        value,
			ClientErrors: clientErrs,
			Invalid:      fieldInvalid(r, value, clientErrs),
			OnChange: func(value string, onApplied func()) {
				c.HandleChange(name, value, onApplied)
			},
			Check: func(value string) []string {
				return c.CheckChange(name, value)
			},
		})
	}

	global, _ := c.GlobalError()
	var extra map[string]any
	if len(c.extra) > 0 {
		extra = make(map[string]any, len(c.extra))
		for k, v := range c.extra {
			extra[k] = v
		}
	}

	return Props{
		Fields:       fields,
		GlobalError:  global,
		IsValid:      c.IsValid(),
		IsSubmitting: c.IsSubmitting(),
		HandleSubmit: c.Submit,
		Refresh:      c.Refresh,
		Extra:        extra,
	}
}
