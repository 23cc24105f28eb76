package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a single-line or password prompt. Validate, when
// set, runs on every answer and keeps the prompt open until it returns nil.
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(string) error
}

// PromptDriver abstracts the terminal so the component can be tested without
// one and callers can swap implementations.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// NewSurveyDriver returns the default survey-backed driver. Info messages
// are written to out, or stdout when out is nil. The theme's error prefix
// replaces survey's validation icon so inline and reported errors match.
func NewSurveyDriver(out io.Writer, theme Theme) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{
		out:       out,
		errorIcon: strings.TrimSpace(theme.ErrorPrefix),
	}
}

type surveyDriver struct {
	out       io.Writer
	errorIcon string
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	err := d.ask(ctx, prompt, &out, cfg.Validate)
	return out, err
}

// Password never pre-fills the previous value.
func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Password{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	err := d.ask(ctx, prompt, &out, cfg.Validate)
	return out, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	err := d.ask(ctx, prompt, &out, nil)
	return out, err
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	// survey writes the selected index when the target is an int.
	var out int
	if err := d.ask(ctx, prompt, &out, nil); err != nil {
		return 0, err
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	err := d.ask(ctx, prompt, &out, cfg.Validate)
	return out, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one survey prompt with the driver's icons and an optional answer
// check.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, out any, validate func(string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := []survey.AskOpt{survey.WithIcons(d.icons)}
	if validate != nil {
		opts = append(opts, survey.WithValidator(answerValidator(validate)))
	}
	if err := survey.AskOne(prompt, out, opts...); err != nil {
		return translateSurveyErr(err)
	}
	return nil
}

func (d *surveyDriver) icons(set *survey.IconSet) {
	if d.errorIcon != "" {
		set.Error.Text = d.errorIcon
	}
}

// answerValidator adapts a string check to survey's untyped validator.
func answerValidator(validate func(string) error) survey.Validator {
	return func(ans interface{}) error {
		value, ok := ans.(string)
		if !ok {
			return fmt.Errorf("tui: unexpected answer type %T", ans)
		}
		return validate(value)
	}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
