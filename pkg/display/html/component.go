package html

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/form"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// DefaultTemplate is the template rendered when no other name is configured.
const DefaultTemplate = "form.html"

// Component projects form props into markup. Each Render writes one complete
// fragment to the configured writer.
type Component struct {
	templates    fs.FS
	templateName string
	theme        *theme.RendererConfig
	out          io.Writer
	stop         bool

	once sync.Once
	tmpl *pongo2.Template
	err  error
	mu   sync.Mutex
}

var _ form.Component = (*Component)(nil)

// TemplatesFS exposes the embedded templates so callers can extend them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// New builds a Component. Templates are compiled on first use.
func New(options ...Option) (*Component, error) {
	if err := registerFilters(); err != nil {
		return nil, fmt.Errorf("html: register filters: %w", err)
	}
	c := &Component{
		templates:    TemplatesFS(),
		templateName: DefaultTemplate,
		out:          io.Discard,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

func (c *Component) template() (*pongo2.Template, error) {
	c.once.Do(func() {
		set := pongo2.NewSet("formstate", pongo2.NewFSLoader(c.templates))
		c.tmpl, c.err = set.FromFile(c.templateName)
		if c.err != nil {
			c.err = fmt.Errorf("html: load template %q: %w", c.templateName, c.err)
		}
	})
	return c.tmpl, c.err
}

// Render implements form.Component.
func (c *Component) Render(ctx context.Context, props form.Props) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := c.RenderString(props)
	if err != nil {
		return err
	}

	c.mu.Lock()
	_, err = io.WriteString(c.out, out)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("html: write: %w", err)
	}
	if c.stop {
		return form.ErrStop
	}
	return nil
}

// RenderString renders props without touching the configured writer.
func (c *Component) RenderString(props form.Props) (string, error) {
	tmpl, err := c.template()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(c.viewContext(props), &buf); err != nil {
		return "", fmt.Errorf("html: render %q: %w", c.templateName, err)
	}
	return buf.String(), nil
}

func (c *Component) viewContext(props form.Props) pongo2.Context {
	fields := make([]map[string]any, 0, len(props.Fields))
	for _, fp := range props.Fields {
		fields = append(fields, fieldView(fp))
	}

	view := map[string]any{
		"fields":        fields,
		"global_error":  props.GlobalError,
		"is_valid":      props.IsValid,
		"is_submitting": props.IsSubmitting,
		"submit_label":  "Submit",
	}
	if props.IsSubmitting {
		view["submit_label"] = "Submitting..."
	}
	for _, key := range []string{"name", "title", "submit_label"} {
		if value, ok := props.Extra[key].(string); ok && value != "" {
			if key == "submit_label" && props.IsSubmitting {
				continue
			}
			view[key] = value
		}
	}

	return pongo2.Context{
		"form":  view,
		"theme": buildThemeContext(c.theme),
		"extra": props.Extra,
	}
}

func fieldView(fp form.FieldProps) map[string]any {
	input := inputType(fp)
	value := fp.Value
	if input == "password" {
		value = ""
	}
	help, _ := fp.Attr("help")

	view := map[string]any{
		"name":     fp.Name,
		"label":    fp.DisplayLabel(),
		"value":    value,
		"error":    fp.Error,
		"required": fp.Required,
		"readonly": fp.Readonly,
		"input":    input,
		"help":     help,
	}
	if len(fp.Choices) > 0 {
		choices := make([]map[string]any, 0, len(fp.Choices))
		for _, choice := range fp.Choices {
			display := choice.Display
			if display == "" {
				display = choice.Code
			}
			choices = append(choices, map[string]any{
				"code":     choice.Code,
				"display":  display,
				"selected": choice.Code == fp.Value,
			})
		}
		view["choices"] = choices
	}
	return view
}

// inputType maps field hints onto an HTML control.
func inputType(fp form.FieldProps) string {
	if len(fp.Choices) > 0 {
		return "select"
	}
	if input, ok := fp.Attr("input"); ok {
		switch strings.ToLower(input) {
		case "textarea":
			return "textarea"
		case "confirm", "checkbox":
			return "checkbox"
		}
	}
	if secret, ok := fp.Attr("secret"); ok && secret == "true" {
		return "password"
	}
	if format, ok := fp.Attr("format"); ok {
		switch strings.ToLower(format) {
		case "email":
			return "email"
		case "uri", "url":
			return "url"
		case "date":
			return "date"
		}
	}
	return "text"
}
