// Package transitions derives the hypermedia affordances of an API from its
// schema document. Each operation becomes one Transition: an identifier, an
// href template, a method, and the writable fields of its request body. A
// Transition classifies itself as a plain link, a query, or a template, and
// converts into the matching Collection+JSON control.
package transitions

import (
	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// Kind labels how a transition surfaces in a document.
type Kind string

const (
	KindLink     Kind = "link"
	KindQuery    Kind = "query"
	KindTemplate Kind = "template"
)

// Field is the schema-derived description of one writable parameter. Type is
// the wire render tag ("text", "number", "checkbox", "select", "datetime"),
// not the declared schema type.
type Field struct {
	Name      string
	Type      string
	Prompt    string
	Value     any
	Required  bool
	Options   []string
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
}

func (f Field) templateData() collection.TemplateData {
	return collection.TemplateData{
		Name:      f.Name,
		Value:     f.Value,
		Prompt:    f.Prompt,
		Type:      f.Type,
		Required:  f.Required,
		Options:   append([]string(nil), f.Options...),
		Min:       f.Min,
		Max:       f.Max,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
		Pattern:   f.Pattern,
	}
}

func (f Field) queryData() collection.Data {
	return collection.Data{
		Name:   f.Name,
		Value:  f.Value,
		Prompt: f.Prompt,
		Type:   f.Type,
	}
}

// Transition is one callable operation of the hosting API, described
// abstractly: it still carries href placeholders until Resolve binds them to
// a concrete instance context.
type Transition struct {
	ID     string
	Title  string
	Tags   []string
	Href   string
	Method string
	Fields []Field
}

// IsWrite reports whether the transition mutates state.
func (t Transition) IsWrite() bool {
	switch t.Method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// Kind classifies the transition: no fields makes a link, fields on a GET
// make a query, fields on a write method make a template. Fields on any
// other method degrade to a link rather than invent a control.
func (t Transition) Kind() Kind {
	if len(t.Fields) == 0 {
		return KindLink
	}
	if t.Method == "GET" {
		return KindQuery
	}
	if t.IsWrite() {
		return KindTemplate
	}
	return KindLink
}

// Link renders the transition as a navigational link. An empty rel falls
// back to the transition id.
func (t Transition) Link(rel string) collection.Link {
	if rel == "" {
		rel = t.ID
	}
	return collection.Link{
		Rel:    rel,
		Href:   t.Href,
		Prompt: t.Title,
		Method: t.Method,
	}
}

// Query renders the transition as a parameterized read.
func (t Transition) Query(rel string) collection.Query {
	if rel == "" {
		rel = t.ID
	}
	data := make([]collection.Data, 0, len(t.Fields))
	for _, f := range t.Fields {
		data = append(data, f.queryData())
	}
	return collection.Query{
		Rel:    rel,
		Href:   t.Href,
		Name:   t.ID,
		Prompt: t.Title,
		Data:   data,
	}
}

// Template renders the transition as a writable form targeting its href.
func (t Transition) Template() collection.Template {
	data := make([]collection.TemplateData, 0, len(t.Fields))
	for _, f := range t.Fields {
		data = append(data, f.templateData())
	}
	return collection.Template{
		Data:   data,
		Href:   t.Href,
		Method: t.Method,
		Prompt: t.Title,
	}
}

func (t Transition) clone() Transition {
	cloned := t
	if len(t.Tags) > 0 {
		cloned.Tags = append([]string(nil), t.Tags...)
	}
	if len(t.Fields) > 0 {
		cloned.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			if len(f.Options) > 0 {
				f.Options = append([]string(nil), f.Options...)
			}
			cloned.Fields[i] = f
		}
	}
	return cloned
}
