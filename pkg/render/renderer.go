package render

import (
	"context"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// Renderer converts a document into one wire representation. ContentType is
// the exact header value responses carry; the registry also matches it
// against negotiated media types, ignoring parameters.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc *collection.Document, options Options) ([]byte, error)
}
