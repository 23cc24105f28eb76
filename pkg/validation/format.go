package validation

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-formstate/pkg/field"
)

// Trim strips surrounding whitespace.
func Trim(raw, _ string) string { return strings.TrimSpace(raw) }

// Lower lowercases the input.
func Lower(raw, _ string) string { return strings.ToLower(raw) }

// Upper uppercases the input.
func Upper(raw, _ string) string { return strings.ToUpper(raw) }

// Digits keeps only decimal digits, e.g. for phone or card numbers.
func Digits(raw, _ string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// CollapseSpaces replaces runs of whitespace with a single space.
func CollapseSpaces(raw, _ string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Chain applies formatters left to right. Each step sees the same previous
// value.
func Chain(formatters ...field.Formatter) field.Formatter {
	switch len(formatters) {
	case 0:
		return nil
	case 1:
		return formatters[0]
	}
	return func(raw, previous string) string {
		out := raw
		for _, fn := range formatters {
			if fn == nil {
				continue
			}
			out = fn(out, previous)
		}
		return out
	}
}
