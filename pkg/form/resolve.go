package form

import "github.com/goliatone/go-formstate/pkg/field"

// Field resolves name against the current values. Unknown names resolve to
// the defaults with Name set.
func (c *Controller) Field(name string) field.Resolved {
	decl, ok := c.fields.Lookup(name)
	if !ok {
		decl = field.Declaration{Name: name}
	}
	return field.Resolve(decl, c.Values())
}

// Fields resolves every declared field in declaration order. Nothing is
// cached: dynamic required rules see the values of this call.
func (c *Controller) Fields() []field.Resolved {
	return field.ResolveAll(c.fields, c.Values())
}
