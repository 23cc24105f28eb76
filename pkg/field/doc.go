// Package field defines form field declarations and their resolution against
// the current form values.
//
// Declarations are supplied by callers (directly, or through pkg/declare) and
// never mutated. Resolve merges a declaration with the defaults and reduces a
// possibly dynamic Required rule to a bool:
//
//	fields := field.Fields{
//		{Name: "email"},
//		{Name: "password", Required: field.Dynamic(func(v map[string]string) bool {
//			return !strings.HasSuffix(v["email"], "@company.com")
//		})},
//	}
//	resolved := field.ResolveAll(fields, map[string]string{"email": "jo@company.com"})
//	// resolved[1].Required == false
package field
