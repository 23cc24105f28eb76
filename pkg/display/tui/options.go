package tui

// Theme carries message prefixes. It stays free of ANSI specifics so drivers
// decide how to colour output.
type Theme struct {
	InfoPrefix     string
	ErrorPrefix    string
	ReadonlyPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	ErrorPrefix:    "✗ ",
	ReadonlyPrefix: "• ",
}

// Option configures the Component.
type Option func(*Component)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Component) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *Component) {
		c.theme = theme
	}
}

// WithSubmitPrompt replaces the confirmation question asked before submitting.
func WithSubmitPrompt(message string) Option {
	return func(c *Component) {
		if message != "" {
			c.submitPrompt = message
		}
	}
}
