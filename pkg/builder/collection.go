package builder

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/schema"
)

type collectionConfig struct {
	title        string
	href         string
	links        []collection.Link
	queries      []collection.Query
	templates    []collection.Template
	perItemLinks func(instance any) []collection.Link
	noTemplate   bool
}

// CollectionOption adjusts one BuildCollection call.
type CollectionOption func(*collectionConfig)

// WithTitle overrides the shape's display title.
func WithTitle(title string) CollectionOption {
	return func(c *collectionConfig) {
		c.title = title
	}
}

// WithHref overrides the collection href, e.g. to echo a search URL. An
// explicit href also disables the single-item href promotion.
func WithHref(href string) CollectionOption {
	return func(c *collectionConfig) {
		c.href = href
	}
}

// WithLinks appends collection-level links after the defaults.
func WithLinks(links ...collection.Link) CollectionOption {
	return func(c *collectionConfig) {
		c.links = append(c.links, links...)
	}
}

// WithQueries appends queries after the ones declared on the shape.
func WithQueries(queries ...collection.Query) CollectionOption {
	return func(c *collectionConfig) {
		c.queries = append(c.queries, queries...)
	}
}

// WithTemplates appends templates after the default create template.
func WithTemplates(templates ...collection.Template) CollectionOption {
	return func(c *collectionConfig) {
		c.templates = append(c.templates, templates...)
	}
}

// WithPerItemLinks derives extra links for each item from its instance.
func WithPerItemLinks(fn func(instance any) []collection.Link) CollectionOption {
	return func(c *collectionConfig) {
		c.perItemLinks = fn
	}
}

// WithoutTemplate drops the default create template, for read-only views.
func WithoutTemplate() CollectionOption {
	return func(c *collectionConfig) {
		c.noTemplate = true
	}
}

// BuildCollection represents a set of instances as a full document:
// navigation links, one item per instance, the shape's declared queries and
// a create template targeting the collection href. A collection holding
// exactly one item takes that item's href as its own, so single-resource
// reads self-describe.
func (b *Builder) BuildCollection(resource string, instances []any, options ...CollectionOption) (*collection.Document, error) {
	shape, err := b.shape(resource)
	if err != nil {
		return nil, err
	}

	cfg := collectionConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	title := cfg.title
	if title == "" {
		title = shape.DisplayTitle()
	}
	collHref := b.CollectionHref(resource)

	doc := collection.New(collHref, title)
	doc.Collection.Links = append(doc.Collection.Links,
		collection.Link{Rel: "self", Href: collHref, Prompt: "All " + title, Method: http.MethodGet},
		collection.Link{Rel: "home", Href: b.HomeHref(), Prompt: "API Home", Method: http.MethodGet},
	)
	doc.Collection.Links = append(doc.Collection.Links, cfg.links...)

	for _, instance := range instances {
		var extra []collection.Link
		if cfg.perItemLinks != nil {
			extra = cfg.perItemLinks(instance)
		}
		item, err := b.buildItem(shape, resource, instance, extra)
		if err != nil {
			return nil, err
		}
		doc.Collection.Items = append(doc.Collection.Items, item)
	}

	doc.Collection.Queries = append(doc.Collection.Queries, b.shapeQueries(shape, collHref)...)
	doc.Collection.Queries = append(doc.Collection.Queries, cfg.queries...)

	if !cfg.noTemplate {
		doc.AddTemplate(b.buildTemplate(shape, []TemplateOption{
			WithTarget(collHref, http.MethodPost),
		}))
	}
	for _, t := range cfg.templates {
		doc.AddTemplate(t)
	}

	switch {
	case cfg.href != "":
		doc.Collection.Href = b.absolute(cfg.href)
	case len(doc.Collection.Items) == 1:
		doc.Collection.Href = doc.Collection.Items[0].Href
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	return doc, nil
}

// shapeQueries resolves the shape's declared queries against the collection
// href.
func (b *Builder) shapeQueries(shape schema.Shape, collHref string) []collection.Query {
	if len(shape.Queries) == 0 {
		return nil
	}
	queries := make([]collection.Query, 0, len(shape.Queries))
	for _, q := range shape.Queries {
		query := collection.Query{
			Rel:    q.Rel,
			Href:   strings.TrimRight(collHref, "/") + "/" + strings.TrimLeft(q.Href, "/"),
			Name:   q.Name,
			Prompt: q.Prompt,
		}
		for _, f := range q.Data {
			query.Data = append(query.Data, collection.Data{
				Name:   f.Name,
				Value:  schema.StringifyDefault(f.Default),
				Prompt: f.ResolvePrompt(),
				Type:   f.TypeTag(),
			})
		}
		queries = append(queries, query)
	}
	return queries
}

// BuildForm produces a form-only document: an empty collection carrying one
// template. A nil instance yields a blank create form posting to the
// collection; otherwise the form edits the given instance in place.
func (b *Builder) BuildForm(resource string, instance any) (*collection.Document, error) {
	shape, err := b.shape(resource)
	if err != nil {
		return nil, err
	}

	collHref := b.CollectionHref(resource)
	href := collHref
	opts := []TemplateOption{WithTarget(collHref, http.MethodPost)}

	if instance != nil {
		id, err := shape.IdentityValue(instance)
		if err != nil {
			return nil, err
		}
		href = b.ItemHref(resource, id)
		opts = []TemplateOption{
			WithValuesFrom(instance),
			WithTarget(href, http.MethodPut),
			WithPrompt("Edit " + shape.TypeName()),
		}
	}

	doc := collection.New(href, shape.DisplayTitle())
	doc.AddTemplate(b.buildTemplate(shape, opts))
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	return doc, nil
}

// BuildError wraps a failure in a minimal document. Code must match the
// transport status the document is written with.
func (b *Builder) BuildError(code int, title, message, details string) *collection.Document {
	doc := collection.New(b.HomeHref(), title)
	doc.Error = &collection.Error{
		Title:   title,
		Code:    code,
		Message: message,
		Details: details,
	}
	return doc
}
