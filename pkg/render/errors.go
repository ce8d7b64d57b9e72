package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// ErrorMapping splits a validation payload into field-level messages keyed
// by template field name and form-level messages for everything else.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload aligns a validation payload with a template's fields.
// Payload keys may be plain field names or body paths the upstream API
// emits, e.g. "body.name", "/body/0/name" or "#/name"; wrapper segments and
// array indices are stripped before matching. Keys that match no template
// field degrade to form-level messages so nothing is lost.
func MapErrorPayload(tpl collection.Template, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	names := make(map[string]struct{}, len(tpl.Data))
	for _, d := range tpl.Data {
		if d.Name != "" {
			names[d.Name] = struct{}{}
		}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		field := matchFieldPath(rawPath, names)
		if field == "" {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[field] = append(mapping.Fields[field], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
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

// matchFieldPath resolves a payload key to a template field name. The last
// path segment that names a field wins, so "body.name" and "items.0.name"
// both land on "name".
func matchFieldPath(raw string, names map[string]struct{}) string {
	if isFormLevelKey(raw) {
		return ""
	}
	segments := parsePathSegments(raw)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := names[segments[i]]; ok {
			return segments[i]
		}
	}
	return ""
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") ||
		strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		// JSON pointer escapes.
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		// Array indices carry no field information.
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
