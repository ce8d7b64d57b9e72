package checklist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-hypermedia/internal/logging"
	"github.com/goliatone/go-hypermedia/pkg/builder"
	"github.com/goliatone/go-hypermedia/pkg/representor"
	"github.com/goliatone/go-hypermedia/pkg/schema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

// Component bundles the tracker: domain service, shape registry, transition
// catalog, document builder and content negotiation, behind one router.
type Component struct {
	opts      Options
	service   *Service
	builder   *builder.Builder
	responder *representor.Responder
	catalog   *transitions.Catalog
	logger    *slog.Logger
	handler   http.Handler
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)

	service := opts.Service
	if service == nil {
		service = NewService(NewStore())
	}
	if opts.SeedFile != "" {
		defs, err := LoadSeedFile(opts.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := service.Seed(defs); err != nil {
			return nil, err
		}
	}

	registry := schema.NewRegistry()
	if err := RegisterShapes(registry); err != nil {
		return nil, err
	}

	base := opts.BaseURL
	if base == "" {
		base = opts.BasePath
	}
	catalog := newCatalog()
	b := builder.New(
		builder.WithBaseURL(base),
		builder.WithRegistry(registry),
		builder.WithCatalog(catalog),
	)

	responder, err := representor.New()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Component{
		opts:      opts,
		service:   service,
		builder:   b,
		responder: responder,
		catalog:   catalog,
		logger:    logger,
	}
	c.handler = c.routes()
	return c, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Service exposes the domain service, e.g. for seeding in tests or sharing
// a store with another component.
func (c *Component) Service() *Service {
	return c.service
}

// Catalog exposes the transition catalog, e.g. so hosts can log its build
// failures at startup.
func (c *Component) Catalog() *transitions.Catalog {
	return c.catalog
}

// Handler returns the component router. Hosts mount it under the configured
// base path; hrefs in rendered documents already carry that prefix.
func (c *Component) Handler() http.Handler {
	return c.handler
}

// Mount attaches the component to the router under its base path.
func (c *Component) Mount(r chi.Router) {
	r.Mount(c.opts.BasePath, c.Handler())
}
