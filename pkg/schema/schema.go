// Package schema holds the registered descriptor tables the representation
// engine reads instead of reflecting over domain types at call time. A Shape
// declares a resource's fields once, at startup; the builder then derives
// item data and writable templates from that table for every request.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the declared type tag of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindObject   Kind = "object"
	KindArray    Kind = "array"
	KindDatetime Kind = "datetime"
	KindNull     Kind = "null"
)

// collection reports whether values of this kind hold other values.
func (k Kind) collection() bool {
	return k == KindArray || k == KindObject
}

// Field describes one declared field of a shape. Get extracts the field's
// value from an instance of the owning resource type; it is written by hand
// when the shape is registered, which keeps value access explicit and free
// of call-time reflection.
type Field struct {
	Name        string
	Kind        Kind
	Prompt      string
	Description string
	// Hint overrides the wire "type" tag on emitted descriptors, e.g.
	// "textarea" or "boolean". When empty the tag is omitted.
	Hint     string
	Required bool
	Default  any
	Options  []string
	// Declared validation bounds, surfaced on template descriptors.
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	// IncludeInItem opts a collection-typed (array/object) field into item
	// data. Scalar fields are always included.
	IncludeInItem bool
	Get           func(instance any) any
}

// ResolvePrompt applies the prompt precedence: explicit prompt, then
// description, then the prettified field name.
func (f Field) ResolvePrompt() string {
	if f.Prompt != "" {
		return f.Prompt
	}
	if f.Description != "" {
		return f.Description
	}
	return Label(f.Name)
}

// TypeTag is the wire "type" of descriptors produced from this field.
func (f Field) TypeTag() string {
	return f.Hint
}

// InItem reports whether the field participates in item data.
func (f Field) InItem() bool {
	if f.Kind.collection() {
		return f.IncludeInItem
	}
	return true
}

// Value extracts and normalizes the field's value from an instance.
func (f Field) Value(instance any) any {
	if f.Get == nil {
		return nil
	}
	return NormalizeValue(f.Get(instance))
}

// Shape is the registered descriptor table for one resource.
type Shape struct {
	// Name is the resource segment used in hrefs, e.g. "task-instances".
	Name string
	// Title is the human collection title, e.g. "Task Instances".
	Title string
	// ItemRel is the relation tag stamped on items. Defaults to "item".
	ItemRel string
	// Identity names the field carrying the instance identifier.
	// Defaults to "id".
	Identity string
	Fields   []Field
	// Prototype is any value of the resource type (usually the zero value).
	// The builder checks it for optional capabilities such as
	// TemplateFieldOverride.
	Prototype any
	// Queries declares parameterized reads for the resource. Hrefs are
	// relative to the collection href ("search" resolves to
	// {base}/{name}/search).
	Queries []ShapeQuery
}

// ShapeQuery declares one search affordance on a shape.
type ShapeQuery struct {
	Rel    string
	Href   string
	Name   string
	Prompt string
	Data   []Field
}

// Validate checks the table is usable: a name, unique named fields with
// extractors, and an identity field that exists.
func (s Shape) Validate() error {
	if s.Name == "" {
		return errors.New("schema: shape name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema: shape %q declares no fields", s.Name)
	}

	identity := s.identityField()
	seen := make(map[string]struct{}, len(s.Fields))
	found := false
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema: shape %q has a field without a name", s.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema: shape %q declares field %q twice", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Get == nil {
			return fmt.Errorf("schema: shape %q field %q has no extractor", s.Name, f.Name)
		}
		if f.Name == identity {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("schema: shape %q identity field %q is not declared", s.Name, identity)
	}
	return nil
}

func (s Shape) identityField() string {
	if s.Identity != "" {
		return s.Identity
	}
	return "id"
}

// IdentityName returns the declared identity field name, "id" by default.
func (s Shape) IdentityName() string {
	return s.identityField()
}

// Rel returns the item relation tag, "item" by default.
func (s Shape) Rel() string {
	if s.ItemRel != "" {
		return s.ItemRel
	}
	return "item"
}

// IdentityValue extracts the instance identifier. An empty identity is a
// caller error surfaced by the builder.
func (s Shape) IdentityValue(instance any) (string, error) {
	name := s.identityField()
	for _, f := range s.Fields {
		if f.Name != name {
			continue
		}
		raw := f.Value(instance)
		id := stringifyIdentity(raw)
		if id == "" {
			return "", fmt.Errorf("schema: shape %q instance has no %s value", s.Name, name)
		}
		return id, nil
	}
	return "", fmt.Errorf("schema: shape %q identity field %q is not declared", s.Name, name)
}

// DisplayTitle returns the human title, deriving one from the resource name
// when none was registered.
func (s Shape) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return Label(s.Name)
}

// TypeName is the bare type name of the resource, taken from the prototype.
// It labels the default edit/delete item links.
func (s Shape) TypeName() string {
	if s.Prototype == nil {
		return strings.ReplaceAll(s.DisplayTitle(), " ", "")
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", s.Prototype), "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

func stringifyIdentity(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// NormalizeValue applies the item value materialization rules: datetimes
// become ISO-8601 text, nil pointers become nil, everything else passes
// through unchanged (nested structures encode recursively on the wire).
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return NormalizeValue(*t)
	default:
		return v
	}
}

// StringifyDefault renders a declared default for a blank template field.
// Booleans render with their capitalized spelling, "True" and "False".
func StringifyDefault(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return t
	case time.Time:
		return NormalizeValue(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
