package field

// Required is either a fixed flag or a rule evaluated against the current
// values. The zero value is unset and resolves to true.
type Required struct {
	set     bool
	static  bool
	dynamic func(values map[string]string) bool
}

// Static returns a fixed required flag.
func Static(required bool) Required {
	return Required{set: true, static: required}
}

// Optional is shorthand for Static(false).
func Optional() Required {
	return Static(false)
}

// Dynamic returns a rule recomputed from the current values every time the
// field is resolved. A nil rule behaves like the unset value.
func Dynamic(rule func(values map[string]string) bool) Required {
	if rule == nil {
		return Required{}
	}
	return Required{set: true, dynamic: rule}
}

// IsDynamic reports whether the flag depends on other values.
func (r Required) IsDynamic() bool {
	return r.dynamic != nil
}

// IsSet reports whether the caller declared the flag explicitly.
func (r Required) IsSet() bool {
	return r.set
}

// Resolve reduces the flag to a bool for the given values.
func (r Required) Resolve(values map[string]string) bool {
	switch {
	case !r.set:
		return true
	case r.dynamic != nil:
		return r.dynamic(values)
	default:
		return r.static
	}
}
