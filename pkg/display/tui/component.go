package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
)

const requiredMessage = "This field is required."

// Component walks the form fields with a cursor that survives renders.
type Component struct {
	driver       PromptDriver
	theme        Theme
	submitPrompt string

	cursor    int
	awaiting  int
	submitted bool
	waiting   bool
}

// Ensure the component satisfies the form contract.
var _ form.Component = (*Component)(nil)

// New constructs a component backed by the survey driver unless overridden.
func New(options ...Option) *Component {
	c := &Component{
		theme:        DefaultTheme,
		submitPrompt: "Submit?",
		awaiting:     -1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil, c.theme)
	}
	return c
}

// Render advances the session by one step.
func (c *Component) Render(ctx context.Context, props form.Props) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if props.IsSubmitting {
		if !c.waiting {
			c.waiting = true
			return c.info(ctx, "Submitting...")
		}
		return nil
	}
	c.waiting = false
	reported := -1

	if c.submitted {
		c.submitted = false
		if !hasErrors(props) {
			return form.ErrStop
		}
		if err := c.reportErrors(ctx, props); err != nil {
			return err
		}
		c.cursor = firstErrored(props)
		reported = c.cursor
	}

	if c.awaiting >= 0 && c.awaiting < len(props.Fields) {
		idx := c.awaiting
		c.awaiting = -1
		if msgs := clientErrors(props, idx); len(msgs) > 0 {
			for _, msg := range msgs {
				if err := c.errorf(ctx, "%s: %s", props.Fields[idx].DisplayLabel(), msg); err != nil {
					return err
				}
			}
			c.cursor = idx
			reported = idx
		} else {
			c.cursor = idx + 1
		}
	}

	for {
		for c.cursor < len(props.Fields) {
			fp := props.Fields[c.cursor]
			if fp.Readonly {
				if err := c.info(ctx, fmt.Sprintf("%s%s: %s", c.theme.ReadonlyPrefix, fp.DisplayLabel(), fp.Value)); err != nil {
					return err
				}
				c.cursor++
				continue
			}
			if fp.Error != "" && c.cursor != reported {
				if err := c.errorf(ctx, "%s: %s", fp.DisplayLabel(), fp.Error); err != nil {
					return err
				}
			}
			value, err := c.prompt(ctx, fp)
			if err != nil {
				return err
			}
			c.awaiting = c.cursor
			fp.OnChange(value, nil)
			return nil
		}

		if !props.IsValid {
			if !hasEditable(props) {
				return errors.New("tui: form is invalid and has no editable fields")
			}
			if err := c.errorf(ctx, "Some fields still need attention."); err != nil {
				return err
			}
			c.cursor = firstInvalid(props)
			continue
		}

		ok, err := c.driver.Confirm(ctx, ConfirmConfig{Message: c.submitPrompt, Default: true})
		if err != nil {
			return err
		}
		if !ok {
			c.cursor = 0
			continue
		}

		c.cursor = 0
		c.submitted = true
		props.HandleSubmit(form.NewEvent())
		if props.Refresh != nil {
			props.Refresh()
		}
		return nil
	}
}

func (c *Component) prompt(ctx context.Context, fp form.FieldProps) (string, error) {
	label := fp.DisplayLabel()
	if fp.Required {
		label += " *"
	}
	help, _ := fp.Attr("help")

	if len(fp.Choices) > 0 {
		options := make([]string, len(fp.Choices))
		selected := 0
		for i, choice := range fp.Choices {
			options[i] = choiceLabel(choice)
			if choice.Code == fp.Value {
				selected = i
			}
		}
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: selected,
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(fp.Choices) {
			return "", fmt.Errorf("tui: selection %d out of range for %s", idx, fp.Name)
		}
		return fp.Choices[idx].Code, nil
	}

	if input, _ := fp.Attr("input"); input == "confirm" {
		ok, err := c.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: fp.Value == "true",
			Help:    help,
		})
		if err != nil {
			return "", err
		}
		if ok {
			return "true", nil
		}
		return "false", nil
	}

	validate := answerCheck(fp)
	if secret, _ := fp.Attr("secret"); secret == "true" {
		return c.driver.Password(ctx, InputConfig{Message: label, Help: help, Validate: validate})
	}
	if input, _ := fp.Attr("input"); input == "textarea" {
		return c.driver.TextArea(ctx, TextAreaConfig{
			Message:  label,
			Default:  fp.Value,
			Help:     help,
			Validate: validate,
		})
	}
	return c.driver.Input(ctx, InputConfig{
		Message:  label,
		Default:  fp.Value,
		Help:     help,
		Validate: validate,
	})
}

// answerCheck rejects answers the controller would flag, before they are
// written.
func answerCheck(fp form.FieldProps) func(string) error {
	if fp.Check == nil {
		return nil
	}
	return func(value string) error {
		if msgs := fp.Check(value); len(msgs) > 0 {
			return errors.New(strings.Join(msgs, " "))
		}
		return nil
	}
}

func (c *Component) reportErrors(ctx context.Context, props form.Props) error {
	if props.GlobalError != "" {
		if err := c.errorf(ctx, "%s", props.GlobalError); err != nil {
			return err
		}
	}
	for _, fp := range props.Fields {
		if fp.Error == "" {
			continue
		}
		if err := c.errorf(ctx, "%s: %s", fp.DisplayLabel(), fp.Error); err != nil {
			return err
		}
	}
	return nil
}

func (c *Component) info(ctx context.Context, msg string) error {
	return c.driver.Info(ctx, c.theme.InfoPrefix+msg)
}

func (c *Component) errorf(ctx context.Context, format string, args ...any) error {
	return c.driver.Info(ctx, c.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func choiceLabel(choice field.Choice) string {
	if strings.TrimSpace(choice.Display) != "" {
		return choice.Display
	}
	return choice.Code
}

// clientErrors returns the committed client errors of a field, or the
// required notice when the field is only invalid because it is empty.
func clientErrors(props form.Props, idx int) []string {
	fp := props.Fields[idx]
	if len(fp.ClientErrors) > 0 {
		return fp.ClientErrors
	}
	if fp.Invalid {
		return []string{requiredMessage}
	}
	return nil
}

func hasEditable(props form.Props) bool {
	for _, fp := range props.Fields {
		if !fp.Readonly {
			return true
		}
	}
	return false
}

func hasErrors(props form.Props) bool {
	if props.GlobalError != "" {
		return true
	}
	for _, fp := range props.Fields {
		if fp.Error != "" {
			return true
		}
	}
	return false
}

// firstErrored returns the first editable field carrying an error, or 0 when
// only the global bucket is set.
func firstErrored(props form.Props) int {
	for i, fp := range props.Fields {
		if fp.Error != "" && !fp.Readonly {
			return i
		}
	}
	return 0
}

// firstInvalid returns the first editable field the controller flags as
// invalid, then any field with a stored error, then 0.
func firstInvalid(props form.Props) int {
	for i, fp := range props.Fields {
		if !fp.Readonly && fp.Invalid {
			return i
		}
	}
	return firstErrored(props)
}
