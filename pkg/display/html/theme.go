package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const stylesheetAsset = "formstate.stylesheet"

func buildThemeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"tokens":         copyStringMap(cfg.Tokens),
		"partials":       copyStringMap(cfg.Partials),
		"css_vars":       copyStringMap(cfg.CSSVars),
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		if url := cfg.AssetURL(stylesheetAsset); url != "" {
			ctx["stylesheet"] = url
		}
	}
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// cssVarsStyle renders custom properties as a :root rule with sorted keys.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root { ")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer("<", "", ">", "", ";", "").Replace(vars[key]))
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}
