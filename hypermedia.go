// Package hypermedia assembles the pipeline into one engine: registered
// resource shapes and a transition catalog feed a document builder, and a
// negotiating responder writes the results as Collection+JSON or HTML.
//
// The subpackages work standalone; this package only wires them:
//
//	engine, err := hypermedia.New(
//		hypermedia.WithBaseURL("/api"),
//		hypermedia.WithShapes(taskShape),
//		hypermedia.WithSource(apischema.SourceFromFile("openapi.yaml")),
//	)
//	doc, err := engine.Builder().BuildCollection("tasks", instances)
//	err = engine.Respond(w, r, doc, render.Options{})
package hypermedia

import (
	"io/fs"
	"net/http"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/builder"
	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/render/html"
	"github.com/goliatone/go-hypermedia/pkg/representor"
	"github.com/goliatone/go-hypermedia/pkg/schema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

// Engine bundles a configured builder with the responder that writes its
// documents.
type Engine struct {
	registry  *schema.Registry
	catalog   *transitions.Catalog
	builder   *builder.Builder
	responder *representor.Responder
}

type config struct {
	baseURL   string
	skip      []string
	registry  *schema.Registry
	shapes    []schema.Shape
	catalog   *transitions.Catalog
	source    apischema.Source
	loader    apischema.Loader
	parser    apischema.Parser
	renderers *render.Registry
}

// Option adjusts engine construction.
type Option func(*config)

// WithBaseURL sets the absolute prefix for generated hrefs. Leave it unset
// for path-relative documents.
func WithBaseURL(base string) Option {
	return func(c *config) {
		c.baseURL = base
	}
}

// WithRegistry supplies a pre-populated shape registry.
func WithRegistry(registry *schema.Registry) Option {
	return func(c *config) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithShapes registers resource shapes during construction.
func WithShapes(shapes ...schema.Shape) Option {
	return func(c *config) {
		c.shapes = append(c.shapes, shapes...)
	}
}

// WithSkipFields replaces the builder's default template skip list.
func WithSkipFields(names ...string) Option {
	return func(c *config) {
		c.skip = append([]string(nil), names...)
	}
}

// WithCatalog supplies an existing transition catalog.
func WithCatalog(catalog *transitions.Catalog) Option {
	return func(c *config) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithSource builds the transition catalog from a schema document source.
// WithCatalog wins when both are given.
func WithSource(src apischema.Source) Option {
	return func(c *config) {
		c.source = src
	}
}

// WithLoader replaces the default document loader used by WithSource.
func WithLoader(load apischema.Loader) Option {
	return func(c *config) {
		c.loader = load
	}
}

// WithParser replaces the default document parser used by WithSource.
func WithParser(parse apischema.Parser) Option {
	return func(c *config) {
		c.parser = parse
	}
}

// WithRenderers replaces the responder's renderer registry. The registry must
// resolve both the Collection+JSON and HTML media types.
func WithRenderers(renderers *render.Registry) Option {
	return func(c *config) {
		if renderers != nil {
			c.renderers = renderers
		}
	}
}

// New wires an engine. Without options it produces path-relative documents
// from an empty registry, with no transition catalog, writing through the
// shipped JSON and HTML renderers.
func New(options ...Option) (*Engine, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	registry := cfg.registry
	if registry == nil {
		registry = schema.NewRegistry()
	}
	for _, shape := range cfg.shapes {
		if err := registry.Register(shape); err != nil {
			return nil, err
		}
	}

	catalog := cfg.catalog
	if catalog == nil && cfg.source != nil {
		catalog = transitions.New(CatalogProvider(cfg.source, cfg.loader, cfg.parser))
	}

	builderOptions := []builder.Option{
		builder.WithRegistry(registry),
	}
	if cfg.baseURL != "" {
		builderOptions = append(builderOptions, builder.WithBaseURL(cfg.baseURL))
	}
	if catalog != nil {
		builderOptions = append(builderOptions, builder.WithCatalog(catalog))
	}
	if cfg.skip != nil {
		builderOptions = append(builderOptions, builder.WithSkipFields(cfg.skip...))
	}

	var responderOptions []representor.Option
	if cfg.renderers != nil {
		responderOptions = append(responderOptions, representor.WithRegistry(cfg.renderers))
	}
	responder, err := representor.New(responderOptions...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		registry:  registry,
		catalog:   catalog,
		builder:   builder.New(builderOptions...),
		responder: responder,
	}, nil
}

// Register adds a resource shape after construction.
func (e *Engine) Register(shape schema.Shape) error {
	return e.registry.Register(shape)
}

// Registry returns the shape registry.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Catalog returns the transition catalog, nil when the engine was built
// without one.
func (e *Engine) Catalog() *transitions.Catalog {
	return e.catalog
}

// Builder returns the document builder.
func (e *Engine) Builder() *builder.Builder {
	return e.builder
}

// Responder returns the negotiating responder.
func (e *Engine) Responder() *representor.Responder {
	return e.responder
}

// Respond negotiates and writes doc for the request.
func (e *Engine) Respond(w http.ResponseWriter, r *http.Request, doc *collection.Document, options render.Options) error {
	return e.responder.Respond(w, r, doc, options)
}

// EmbeddedTemplates exposes the built-in HTML page template bundle so callers
// can reuse or extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
