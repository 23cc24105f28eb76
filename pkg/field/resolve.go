package field

// Resolved is a declaration merged with the defaults, with Required reduced
// to a concrete flag. It is recomputed on every access because Required may
// depend on values that just changed.
type Resolved struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	Initial    string         `json:"initial"`
	Readonly   bool           `json:"readonly"`
	Required   bool           `json:"required"`
	Formatter  Formatter      `json:"-"`
	Validators []Validator    `json:"-"`
	Choices    []Choice       `json:"choices,omitempty"`
	Attrs      map[string]any `json:"attrs,omitempty"`
}

// DisplayLabel falls back to the field name when no label is declared.
func (r Resolved) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Name
}

// Attr returns a display hint as a string.
func (r Resolved) Attr(key string) (string, bool) {
	raw, ok := r.Attrs[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// Resolve merges decl over the defaults {initial: "", readonly: false,
// required: true, no formatter, no validators, no choices}. A dynamic
// Required is evaluated against values.
func Resolve(decl Declaration, values map[string]string) Resolved {
	return Resolved{
		Name:       decl.Name,
		Label:      decl.Label,
		Initial:    decl.Initial,
		Readonly:   decl.Readonly,
		Required:   decl.Required.Resolve(values),
		Formatter:  decl.Formatter,
		Validators: decl.Validators,
		Choices:    decl.Choices,
		Attrs:      decl.Attrs,
	}
}

// ResolveAll resolves every declaration in order.
func ResolveAll(fields Fields, values map[string]string) []Resolved {
	out := make([]Resolved, 0, len(fields))
	for _, decl := range fields {
		out = append(out, Resolve(decl, values))
	}
	return out
}
