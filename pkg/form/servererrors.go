package form

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
)

// MapServerErrors normalises a server error payload into the shape
// SetErrorLists expects. Keys may be plain field names, JSON pointers
// ("/body/email") or dotted paths ("data.attributes.email"); they are matched
// against the declared field names after dropping transport wrappers and
// array indexes. Unknown or form-level keys land in the AllKey bucket so
// messages are never lost. Messages are trimmed and de-duplicated.
func MapServerErrors(fields field.Fields, payload map[string][]string) map[string][]string {
	out := make(map[string][]string)
	if len(payload) == 0 {
		return out
	}

	known := make(map[string]struct{}, len(fields))
	for _, decl := range fields {
		known[decl.Name] = struct{}{}
	}

	// Sorted keys keep the AllKey bucket deterministic.
	for _, rawKey := range sortedKeys(payload) {
		messages := normalizeMessages(payload[rawKey])
		if len(messages) == 0 {
			continue
		}
		target := matchErrorKey(rawKey, known)
		out[target] = normalizeMessages(append(out[target], messages...))
	}
	return out
}

func matchErrorKey(raw string, known map[string]struct{}) string {
	trimmed := strings.TrimSpace(raw)
	if _, ok := known[trimmed]; ok {
		return trimmed
	}
	if isFormLevelKey(trimmed) {
		return AllKey
	}

	segments := splitErrorPath(trimmed)
	best := ""
	for _, variant := range [][]string{
		segments,
		dropWrappers(segments),
		dropIndexes(segments),
		dropIndexes(dropWrappers(segments)),
	} {
		if match := longestKnownPrefix(variant, known); len(match) > len(best) {
			best = match
		}
	}
	if best == "" {
		return AllKey
	}
	return best
}

func splitErrorPath(path string) []string {
	clean := strings.TrimLeft(path, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrappers(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func dropIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

// longestKnownPrefix joins segment prefixes with dots, longest first, and
// returns the first declared name it finds.
func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", AllKey, "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
