package hypermedia

import (
	"context"

	"github.com/goliatone/go-hypermedia/internal/openapi/loader"
	"github.com/goliatone/go-hypermedia/internal/openapi/parser"
	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

// NewLoader constructs a schema document loader backed by the internal
// implementation while keeping the concrete type hidden from consumers.
func NewLoader(options ...apischema.LoaderOption) apischema.Loader {
	return loader.New(apischema.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...apischema.ParserOption) apischema.Parser {
	return parser.New(apischema.NewParserOptions(options...))
}

// CatalogProvider wires a loader and parser into a catalog provider for one
// source. A nil loader or parser falls back to the default construction, so
// most callers only supply the source.
func CatalogProvider(src apischema.Source, load apischema.Loader, parse apischema.Parser) transitions.Provider {
	return func(ctx context.Context) (apischema.API, error) {
		if load == nil {
			load = NewLoader()
		}
		if parse == nil {
			parse = NewParser()
		}
		doc, err := load.Load(ctx, src)
		if err != nil {
			return apischema.API{}, err
		}
		return parse.Parse(ctx, doc)
	}
}

// NewCatalog returns a lazily built transition catalog over the source using
// the default loader and parser.
func NewCatalog(src apischema.Source) *transitions.Catalog {
	return transitions.New(CatalogProvider(src, nil, nil))
}
