package rule

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokBool
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, raw: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, raw: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, raw: ",", pos: i})
			i++
		case r == '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, token{kind: tokNeq, raw: "!=", pos: i})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokNot, raw: "!", pos: i})
			i++
		case r == '=' || r == '&' || r == '|':
			if i+1 >= len(runes) || runes[i+1] != r {
				return nil, fmt.Errorf("rule: unexpected %q at position %d; use %q", r, i, string([]rune{r, r}))
			}
			kind := map[rune]tokenKind{'=': tokEq, '&': tokAnd, '|': tokOr}[r]
			tokens = append(tokens, token{kind: kind, raw: string([]rune{r, r}), pos: i})
			i += 2
		case r == '"' || r == '\'':
			end := i + 1
			for end < len(runes) && runes[end] != r {
				if runes[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("rule: unterminated string at position %d", i)
			}
			body := string(runes[i+1 : end])
			if r == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("rule: invalid string at position %d: %w", i, err)
			}
			tokens = append(tokens, token{kind: tokString, raw: value, pos: i})
			i = end + 1
		case isIdentRune(r):
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			raw := string(runes[start:i])
			kind := tokIdent
			if raw == "true" || raw == "false" {
				kind = tokBool
			}
			tokens = append(tokens, token{kind: kind, raw: raw, pos: start})
		default:
			return nil, fmt.Errorf("rule: unexpected %q at position %d", r, i)
		}
	}
	return tokens, nil
}
