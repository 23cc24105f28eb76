package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formstate/pkg/field"
)

// validate is the shared validator instance.
var validate = validator.New()

var tagMessages = map[string]string{
	"email":     "must be a valid email address",
	"url":       "must be a valid URL",
	"uri":       "must be a valid URI",
	"uuid":      "must be a valid UUID",
	"alpha":     "must contain letters only",
	"alphanum":  "must contain letters and digits only",
	"numeric":   "must be numeric",
	"number":    "must be a number",
	"lowercase": "must be lowercase",
	"uppercase": "must be uppercase",
	"hexcolor":  "must be a hex color",
	"ip":        "must be a valid IP address",
	"hostname":  "must be a valid hostname",
}

// Tag builds a validator from a go-playground/validator tag expression such as
// "email" or "alphanum,min=3". An empty message derives one from the failing
// tag. Unknown tags are reported here rather than at validation time.
func Tag(tag, message string) (field.Validator, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, errors.New("validation: tag is required")
	}
	if err := checkTag(tag); err != nil {
		return nil, err
	}
	return func(value string, _ map[string]string) string {
		err := validate.Var(value, tag)
		if err == nil {
			return ""
		}
		if message != "" {
			return message
		}
		return describe(err)
	}, nil
}

// MustTag panics when the tag is invalid. Useful for package-level
// declarations.
func MustTag(tag, message string) field.Validator {
	v, err := Tag(tag, message)
	if err != nil {
		panic(err)
	}
	return v
}

func checkTag(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation: invalid tag %q: %v", tag, r)
		}
	}()
	_ = validate.Var("", tag)
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("must satisfy %s", fe.Tag())
}
