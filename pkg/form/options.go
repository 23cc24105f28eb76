package form

import "strings"

// Option configures a Controller.
type Option func(*Controller)

// WithName labels the controller in emitted signals.
func WithName(name string) Option {
	return func(c *Controller) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.name = trimmed
		}
	}
}

// WithSharedValues delegates value storage to an external owner. Local state
// is unused for values while an owner is configured.
func WithSharedValues(owner ValueOwner) Option {
	return func(c *Controller) {
		if owner != nil {
			c.owner = owner
		}
	}
}

// WithComponentProps forwards static props to the component alongside the
// computed bundle (Props.Extra).
func WithComponentProps(props map[string]any) Option {
	return func(c *Controller) {
		if len(props) == 0 {
			return
		}
		if c.extra == nil {
			c.extra = make(map[string]any, len(props))
		}
		for key, value := range props {
			c.extra[key] = value
		}
	}
}
