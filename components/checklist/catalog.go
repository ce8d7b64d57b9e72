package checklist

import (
	"context"
	"embed"

	"github.com/goliatone/go-hypermedia/internal/openapi/loader"
	"github.com/goliatone/go-hypermedia/internal/openapi/parser"
	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

//go:embed openapi.yaml
var apiDocument embed.FS

// newCatalog builds the lazy transition catalog over the embedded API
// document. The document is loaded and parsed on first use.
func newCatalog() *transitions.Catalog {
	return transitions.New(func(ctx context.Context) (apischema.API, error) {
		ld := loader.New(apischema.NewLoaderOptions(apischema.WithFileSystem(apiDocument)))
		doc, err := ld.Load(ctx, apischema.SourceFromFS("openapi.yaml"))
		if err != nil {
			return apischema.API{}, err
		}
		p := parser.New(apischema.NewParserOptions(apischema.WithRequiredOperationIDs(true)))
		return p.Parse(ctx, doc)
	})
}
