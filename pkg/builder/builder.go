// Package builder assembles Collection+JSON documents from three inputs: the
// registered shape tables, the live instances handed in by the domain layer,
// and the transition catalog derived from the API schema. Documents are
// constructed fresh per request; nothing here is cached or persisted.
package builder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/schema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

// defaultSkipFields are never emitted on writable templates: identifiers and
// server-assigned secrets are not for clients to fill in.
var defaultSkipFields = []string{"id", "created_at", "share_token"}

// Builder derives documents for one API, rooted at a base URL.
type Builder struct {
	base     string
	registry *schema.Registry
	catalog  *transitions.Catalog
	skip     []string
}

// Option mutates the builder during construction.
type Option func(*Builder)

// WithBaseURL sets the absolute prefix for generated hrefs. Leave it unset
// for path-relative documents.
func WithBaseURL(base string) Option {
	return func(b *Builder) {
		b.base = strings.TrimRight(base, "/")
	}
}

// WithRegistry supplies the shape registry to read descriptor tables from.
func WithRegistry(registry *schema.Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithCatalog supplies the transition catalog backing ApplyTransitions.
func WithCatalog(catalog *transitions.Catalog) Option {
	return func(b *Builder) {
		b.catalog = catalog
	}
}

// WithSkipFields replaces the default template skip list.
func WithSkipFields(names ...string) Option {
	return func(b *Builder) {
		b.skip = append([]string(nil), names...)
	}
}

// New constructs a Builder. Without options it produces path-relative
// documents from an empty registry.
func New(options ...Option) *Builder {
	b := &Builder{
		registry: schema.NewRegistry(),
		skip:     append([]string(nil), defaultSkipFields...),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Registry exposes the shape registry so components can register shapes on
// a builder they received already constructed.
func (b *Builder) Registry() *schema.Registry {
	return b.registry
}

// CollectionHref is the canonical href of a resource collection, with the
// trailing slash the format requires.
func (b *Builder) CollectionHref(resource string) string {
	return fmt.Sprintf("%s/%s/", b.base, resource)
}

// ItemHref is the canonical href of one instance, always slash-terminated
// and always containing the instance identifier.
func (b *Builder) ItemHref(resource, id string) string {
	return fmt.Sprintf("%s/%s/%s/", b.base, resource, id)
}

// HomeHref is the API root href.
func (b *Builder) HomeHref() string {
	return b.base + "/"
}

// absolute prefixes path hrefs with the base URL; full URLs and empty hrefs
// pass through.
func (b *Builder) absolute(href string) string {
	if b.base == "" || href == "" || !strings.HasPrefix(href, "/") {
		return href
	}
	return b.base + href
}

func (b *Builder) shape(resource string) (schema.Shape, error) {
	shape, err := b.registry.Lookup(resource)
	if err != nil {
		return schema.Shape{}, fmt.Errorf("builder: %w", err)
	}
	return shape, nil
}

func (b *Builder) skipSet(override []string) map[string]struct{} {
	names := b.skip
	if override != nil {
		names = override
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
