// Package collection defines the Collection+JSON document model: the wire
// types a representation is assembled from and the JSON encoding rules the
// format requires (notably the template field, which is an object for a
// single template and an array when a page carries several).
package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Version is the Collection+JSON format version emitted in every document.
const Version = "1.0"

// MediaType is the registered media type for Collection+JSON documents.
const MediaType = "application/vnd.collection+json"

// Link is a navigational affordance attached to a collection or an item.
type Link struct {
	Rel       string `json:"rel"`
	Href      string `json:"href"`
	Prompt    string `json:"prompt,omitempty"`
	Render    string `json:"render,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Method    string `json:"method,omitempty"`
}

// Data is one name/value pair inside an item or a query. Value keeps the
// native type of the underlying field; formatting policy lives with the
// shape extractor, not here.
type Data struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Prompt string `json:"prompt,omitempty"`
	Type   string `json:"type,omitempty"`
}

// TemplateData is one writable field of a template. Required mirrors the
// declared shape; Options carries the allowed values for select fields. The
// bound fields use HTML input attribute names so renderers can emit them
// verbatim.
type TemplateData struct {
	Name      string   `json:"name"`
	Value     any      `json:"value"`
	Prompt    string   `json:"prompt,omitempty"`
	Type      string   `json:"type,omitempty"`
	Required  bool     `json:"required"`
	Options   []string `json:"options,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minlength,omitempty"`
	MaxLength *int     `json:"maxlength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// Query describes a parameterized read, such as a search form.
type Query struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Name   string `json:"name,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Data   []Data `json:"data,omitempty"`
}

// Item is one resource representation inside a collection.
type Item struct {
	Href  string `json:"href"`
	Rel   string `json:"rel,omitempty"`
	Data  []Data `json:"data,omitempty"`
	Links []Link `json:"links,omitempty"`
}

// Datum returns the named data entry, if present.
func (i Item) Datum(name string) (Data, bool) {
	for _, d := range i.Data {
		if d.Name == name {
			return d, true
		}
	}
	return Data{}, false
}

// Template is a writable form: the fields to fill plus the target href and
// method. Href and Method are empty on documents where the consumer already
// knows the target (a bare create template posts to the collection href).
type Template struct {
	Data   []TemplateData `json:"data"`
	Href   string         `json:"href,omitempty"`
	Method string         `json:"method,omitempty"`
	Prompt string         `json:"prompt,omitempty"`
}

// Datum returns the named template field, if present.
func (t Template) Datum(name string) (TemplateData, bool) {
	for _, d := range t.Data {
		if d.Name == name {
			return d, true
		}
	}
	return TemplateData{}, false
}

// Collection is the body of a document: items plus the affordances that
// apply to the whole set.
type Collection struct {
	Version string  `json:"version"`
	Href    string  `json:"href"`
	Title   string  `json:"title,omitempty"`
	Links   []Link  `json:"links,omitempty"`
	Items   []Item  `json:"items"`
	Queries []Query `json:"queries,omitempty"`
}

// Error carries a failure in-band. Code must equal the transport status the
// document is sent with.
type Error struct {
	Title   string `json:"title"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Document is the root object: one collection, optional templates, an
// optional error.
type Document struct {
	Collection Collection
	Templates  []Template
	Error      *Error
}

// New returns a document whose collection is ready to append to. Items is
// initialized so an empty collection encodes as [] rather than null.
func New(href, title string) *Document {
	return &Document{
		Collection: Collection{
			Version: Version,
			Href:    href,
			Title:   title,
			Items:   []Item{},
		},
	}
}

// AddTemplate appends a page-level template.
func (d *Document) AddTemplate(t Template) {
	d.Templates = append(d.Templates, t)
}

// FirstItemHref returns the href of the first item, or "" when the
// collection is empty. The negotiator uses it as the redirect target after
// a successful write.
func (d *Document) FirstItemHref() string {
	if d == nil || len(d.Collection.Items) == 0 {
		return ""
	}
	return d.Collection.Items[0].Href
}

// Validate checks the structural invariants every emitted document must
// hold: a version and href on the collection, no unresolved placeholders in
// any href, and a non-zero code when an error is attached.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New("collection: document is nil")
	}
	if d.Collection.Version == "" {
		return errors.New("collection: version is required")
	}
	if d.Collection.Href == "" {
		return errors.New("collection: href is required")
	}
	if err := placeholderFree(d.Collection.Href); err != nil {
		return err
	}
	for _, l := range d.Collection.Links {
		if err := placeholderFree(l.Href); err != nil {
			return err
		}
	}
	for _, it := range d.Collection.Items {
		if err := placeholderFree(it.Href); err != nil {
			return err
		}
		for _, l := range it.Links {
			if err := placeholderFree(l.Href); err != nil {
				return err
			}
		}
	}
	for _, q := range d.Collection.Queries {
		if err := placeholderFree(q.Href); err != nil {
			return err
		}
	}
	for _, t := range d.Templates {
		if err := placeholderFree(t.Href); err != nil {
			return err
		}
	}
	if d.Error != nil && d.Error.Code == 0 {
		return errors.New("collection: error documents require a status code")
	}
	return nil
}

func placeholderFree(href string) error {
	if strings.ContainsAny(href, "{}") {
		return fmt.Errorf("collection: href %q contains an unresolved placeholder", href)
	}
	return nil
}

type documentWire struct {
	Collection Collection      `json:"collection"`
	Template   json.RawMessage `json:"template,omitempty"`
	Error      *Error          `json:"error,omitempty"`
}

// MarshalJSON encodes the template slot per the format: absent when there
// are no templates, a single object for one, an array for several.
func (d Document) MarshalJSON() ([]byte, error) {
	wire := documentWire{Collection: d.Collection, Error: d.Error}
	if wire.Collection.Items == nil {
		wire.Collection.Items = []Item{}
	}

	switch len(d.Templates) {
	case 0:
	case 1:
		raw, err := json.Marshal(d.Templates[0])
		if err != nil {
			return nil, fmt.Errorf("collection: encode template: %w", err)
		}
		wire.Template = raw
	default:
		raw, err := json.Marshal(d.Templates)
		if err != nil {
			return nil, fmt.Errorf("collection: encode templates: %w", err)
		}
		wire.Template = raw
	}

	return json.Marshal(wire)
}

// UnmarshalJSON accepts both template encodings.
func (d *Document) UnmarshalJSON(raw []byte) error {
	var wire documentWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("collection: decode document: %w", err)
	}

	d.Collection = wire.Collection
	d.Error = wire.Error
	d.Templates = nil

	trimmed := bytes.TrimSpace(wire.Template)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var many []Template
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return fmt.Errorf("collection: decode templates: %w", err)
		}
		d.Templates = many
		return nil
	}

	var one Template
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("collection: decode template: %w", err)
	}
	d.Templates = []Template{one}
	return nil
}
