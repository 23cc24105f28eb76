package validation

import (
	"github.com/goliatone/go-formstate/pkg/field"
)

// Run executes validators in declaration order and collects the non-empty
// messages. Empty values are never validated: emptiness is governed solely by
// the field's required flag.
func Run(validators []field.Validator, value string, values map[string]string) []string {
	if value == "" || len(validators) == 0 {
		return nil
	}
	var messages []string
	for _, validator := range validators {
		if validator == nil {
			continue
		}
		if msg := validator(value, values); msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Func adapts a single-value check into a field.Validator. ok reports whether
// the value is acceptable; message is returned otherwise.
func Func(message string, ok func(value string) bool) field.Validator {
	return func(value string, _ map[string]string) string {
		if ok(value) {
			return ""
		}
		return message
	}
}
