package html

import (
	"io"
	"io/fs"

	theme "github.com/goliatone/go-theme"
)

// Option configures the Component.
type Option func(*Component)

// WithTemplateFS overrides the embedded templates. The filesystem must hold
// the template named by WithTemplateName ("form.html" by default).
func WithTemplateFS(files fs.FS) Option {
	return func(c *Component) {
		if files != nil {
			c.templates = files
		}
	}
}

// WithTemplateName selects the template rendered from the template FS.
func WithTemplateName(name string) Option {
	return func(c *Component) {
		if name != "" {
			c.templateName = name
		}
	}
}

// WithThemeConfig exposes theme tokens, CSS variables and the stylesheet
// asset to templates.
func WithThemeConfig(cfg *theme.RendererConfig) Option {
	return func(c *Component) {
		c.theme = cfg
	}
}

// WithWriter sets where rendered markup is written.
func WithWriter(w io.Writer) Option {
	return func(c *Component) {
		if w != nil {
			c.out = w
		}
	}
}

// WithStopAfterRender makes Render return form.ErrStop once the markup is
// written, ending a controller Run loop after a single projection.
func WithStopAfterRender() Option {
	return func(c *Component) {
		c.stop = true
	}
}
