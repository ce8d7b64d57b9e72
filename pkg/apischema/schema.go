package apischema

import (
	"errors"
	"fmt"
	"strings"
)

// componentPrefix is the only reference namespace the resolver understands.
// External or non-schema references are rejected rather than chased.
const componentPrefix = "#/components/schemas/"

// Schema represents request bodies and nested fields within an operation. A
// non-empty Ref marks an unresolved pointer at a named component schema;
// sibling annotations (Title, Description, Default) survive resolution so the
// referencing site can override the target's own metadata.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Enum        []any
	Default     any
	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	Pattern     string
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 {
		cloned.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	if s.Minimum != nil {
		v := *s.Minimum
		cloned.Minimum = &v
	}
	if s.Maximum != nil {
		v := *s.Maximum
		cloned.Maximum = &v
	}
	if s.MinLength != nil {
		v := *s.MinLength
		cloned.MinLength = &v
	}
	if s.MaxLength != nil {
		v := *s.MaxLength
		cloned.MaxLength = &v
	}
	return cloned
}

// Validate performs basic sanity checks useful before deriving transitions.
func (s Schema) Validate() error {
	if s.Type == "" && s.Ref == "" {
		return errors.New("apischema: schema requires either type or ref")
	}
	if s.Type == "array" && s.Items == nil {
		return errors.New("apischema: array schema must define items")
	}
	return nil
}

// IsZero reports whether the schema carries no content at all, which is how
// operations without a request body represent themselves.
func (s Schema) IsZero() bool {
	return s.Ref == "" && s.Type == "" && len(s.Properties) == 0 && s.Items == nil && len(s.Enum) == 0
}

// RequiresField reports whether the field name appears in the schema's
// required list.
func (s Schema) RequiresField(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// EnumStrings renders the enum members as strings, preserving order. Non-string
// members are formatted with the default verb so numeric enums still produce
// usable option labels.
func (s Schema) EnumStrings() []string {
	if len(s.Enum) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Enum))
	for _, member := range s.Enum {
		switch v := member.(type) {
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out
}

// RefName extracts the component name from a local schema reference. It
// returns the empty string when the pointer targets anything other than
// #/components/schemas/.
func RefName(ref string) string {
	if !strings.HasPrefix(ref, componentPrefix) {
		return ""
	}
	name := strings.TrimPrefix(ref, componentPrefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}

// RefError reports a reference the resolver refused to follow. Catalog
// construction wraps it with the owning operation so a single bad pointer
// poisons one transition instead of the whole build.
type RefError struct {
	Ref    string
	Reason string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("apischema: cannot resolve %q: %s", e.Ref, e.Reason)
}
