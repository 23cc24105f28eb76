package html

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy

	filtersOnce sync.Once
	filtersErr  error
)

// messageSanitizer allows inline formatting and links in error and help text.
func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		messagePolicy = policy
	})
	return messagePolicy
}

// SanitizeMessage strips everything but inline formatting from raw.
func SanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(SanitizeMessage(in.String())), nil
}

// registerFilters installs the package filters into pongo2's global registry.
func registerFilters() error {
	filtersOnce.Do(func() {
		if pongo2.FilterExists("sanitize") {
			return
		}
		filtersErr = pongo2.RegisterFilter("sanitize", filterSanitize)
	})
	return filtersErr
}
