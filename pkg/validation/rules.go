package validation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/field"
)

// Pattern rejects values that do not match expr. The expression is compiled
// once.
func Pattern(expr, message string) (field.Validator, error) {
	if expr == "" {
		return nil, errors.New("validation: pattern is required")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("validation: compile pattern %q: %w", expr, err)
	}
	if message == "" {
		message = "does not match required pattern"
	}
	return func(value string, _ map[string]string) string {
		if re.MatchString(value) {
			return ""
		}
		return message
	}, nil
}

// MinLength rejects values shorter than n runes.
func MinLength(n int, message string) field.Validator {
	if message == "" {
		message = fmt.Sprintf("min length %d", n)
	}
	return func(value string, _ map[string]string) string {
		if utf8.RuneCountInString(value) < n {
			return message
		}
		return ""
	}
}

// MaxLength rejects values longer than n runes.
func MaxLength(n int, message string) field.Validator {
	if message == "" {
		message = fmt.Sprintf("max length %d", n)
	}
	return func(value string, _ map[string]string) string {
		if utf8.RuneCountInString(value) > n {
			return message
		}
		return ""
	}
}

// OneOf accepts only the codes of the supplied choices.
func OneOf(choices []field.Choice, message string) field.Validator {
	codes := make([]string, 0, len(choices))
	for _, choice := range choices {
		codes = append(codes, choice.Code)
	}
	if message == "" {
		message = "is not one of the available choices"
	}
	return func(value string, _ map[string]string) string {
		if slices.Contains(codes, value) {
			return ""
		}
		return message
	}
}

// Matches requires the value to equal another field's current value, e.g. a
// password confirmation.
func Matches(other, message string) field.Validator {
	if message == "" {
		message = fmt.Sprintf("must match %s", other)
	}
	return func(value string, values map[string]string) string {
		if values[other] == value {
			return ""
		}
		return message
	}
}
