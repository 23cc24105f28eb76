// Package rule compiles the small boolean language used for conditional
// required flags in declarative field files.
//
// Supported forms:
//   - truthiness: `newsletter` (non-empty and not "false")
//   - comparisons: `contact == "phone"`, `country != other_country`
//   - composition: `a && (b || !c)`
//   - calls: `empty(x)`, `filled(x)`, `startsWith(x, "+")`, `endsWith(x, ".com")`,
//     `contains(x, "@")`
//
// Identifiers name fields and read their current string value. Unknown fields
// read as the empty string.
package rule

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
)

// Rule is a compiled expression.
type Rule struct {
	source string
	root   node
}

// Compile parses expr. An empty expression always evaluates to true.
func Compile(expr string) (*Rule, error) {
	source := strings.TrimSpace(expr)
	r := &Rule{source: source}
	if source == "" {
		return r, nil
	}

	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("rule: unexpected %q at position %d", p.peek().raw, p.peek().pos)
	}
	r.root = root
	return r, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(expr string) *Rule {
	r, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the trimmed source expression.
func (r *Rule) String() string {
	return r.source
}

// Eval evaluates the rule against values.
func (r *Rule) Eval(values map[string]string) bool {
	if r == nil || r.root == nil {
		return true
	}
	return r.root.eval(values)
}

// Identifiers lists the field names the rule reads, in first-use order.
func (r *Rule) Identifiers() []string {
	if r == nil || r.root == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	r.root.walk(func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	})
	return out
}

// Required compiles expr into a dynamic required flag.
func Required(expr string) (field.Required, error) {
	r, err := Compile(expr)
	if err != nil {
		return field.Required{}, err
	}
	return field.Dynamic(r.Eval), nil
}
