package rule

import (
	"fmt"
	"strings"
)

type node interface {
	eval(values map[string]string) bool
	walk(fn func(name string))
}

type operand struct {
	name    string
	literal string
	isField bool
}

func (o operand) value(values map[string]string) string {
	if o.isField {
		return values[o.name]
	}
	return o.literal
}

func (o operand) walk(fn func(string)) {
	if o.isField {
		fn(o.name)
	}
}

type orNode struct{ left, right node }

func (n orNode) eval(v map[string]string) bool { return n.left.eval(v) || n.right.eval(v) }

func (n orNode) walk(fn func(string)) {
	n.left.walk(fn)
	n.right.walk(fn)
}

type andNode struct{ left, right node }

func (n andNode) eval(v map[string]string) bool { return n.left.eval(v) && n.right.eval(v) }

func (n andNode) walk(fn func(string)) {
	n.left.walk(fn)
	n.right.walk(fn)
}

type notNode struct{ inner node }

func (n notNode) eval(v map[string]string) bool { return !n.inner.eval(v) }

func (n notNode) walk(fn func(string)) { n.inner.walk(fn) }

type compareNode struct {
	left, right operand
	negate      bool
}

func (n compareNode) eval(v map[string]string) bool {
	return (n.left.value(v) == n.right.value(v)) != n.negate
}

func (n compareNode) walk(fn func(string)) {
	n.left.walk(fn)
	n.right.walk(fn)
}

type truthyNode struct{ operand operand }

func (n truthyNode) eval(v map[string]string) bool {
	value := n.operand.value(v)
	return value != "" && value != "false"
}

func (n truthyNode) walk(fn func(string)) { n.operand.walk(fn) }

type callNode struct {
	fn   func(args []string) bool
	args []operand
}

func (n callNode) eval(v map[string]string) bool {
	args := make([]string, len(n.args))
	for i, arg := range n.args {
		args[i] = arg.value(v)
	}
	return n.fn(args)
}

func (n callNode) walk(fn func(string)) {
	for _, arg := range n.args {
		arg.walk(fn)
	}
}

type builtin struct {
	arity int
	fn    func(args []string) bool
}

var builtins = map[string]builtin{
	"empty":      {1, func(a []string) bool { return a[0] == "" }},
	"filled":     {1, func(a []string) bool { return strings.TrimSpace(a[0]) != "" }},
	"startsWith": {2, func(a []string) bool { return strings.HasPrefix(a[0], a[1]) }},
	"endsWith":   {2, func(a []string) bool { return strings.HasSuffix(a[0], a[1]) }},
	"contains":   {2, func(a []string) bool { return strings.Contains(a[0], a[1]) }},
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token {
	if p.done() {
		return token{raw: "end of input", pos: -1}
	}
	return p.tokens[p.pos]
}

func (p *parser) accept(kind tokenKind) bool {
	if p.done() || p.tokens[p.pos].kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.accept(tokNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.accept(tokLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen) {
			return nil, fmt.Errorf("rule: expected ')' but found %q", p.peek().raw)
		}
		return inner, nil
	}

	if tok := p.peek(); tok.kind == tokIdent && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].kind == tokLParen {
		return p.parseCall()
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	switch {
	case p.accept(tokEq):
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return compareNode{left: left, right: right}, nil
	case p.accept(tokNeq):
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return compareNode{left: left, right: right, negate: true}, nil
	}
	return truthyNode{operand: left}, nil
}

func (p *parser) parseCall() (node, error) {
	name := p.tokens[p.pos].raw
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("rule: unknown function %q", name)
	}
	p.pos += 2

	var args []operand
	if !p.accept(tokRParen) {
		for {
			arg, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.accept(tokRParen) {
				break
			}
			if !p.accept(tokComma) {
				return nil, fmt.Errorf("rule: expected ',' or ')' in call to %s but found %q", name, p.peek().raw)
			}
		}
	}
	if len(args) != b.arity {
		return nil, fmt.Errorf("rule: %s takes %d argument(s), got %d", name, b.arity, len(args))
	}
	return callNode{fn: b.fn, args: args}, nil
}

func (p *parser) parseOperand() (operand, error) {
	if p.done() {
		return operand{}, fmt.Errorf("rule: unexpected end of input")
	}
	tok := p.tokens[p.pos]
	switch tok.kind {
	case tokIdent:
		p.pos++
		return operand{name: tok.raw, isField: true}, nil
	case tokString, tokBool:
		p.pos++
		return operand{literal: tok.raw}, nil
	default:
		return operand{}, fmt.Errorf("rule: expected a field or literal but found %q", tok.raw)
	}
}
