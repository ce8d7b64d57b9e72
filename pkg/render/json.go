package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// JSONRenderer emits the canonical application/vnd.collection+json encoding.
type JSONRenderer struct{}

var _ Renderer = (*JSONRenderer)(nil)

// NewJSON constructs the canonical JSON renderer.
func NewJSON() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Name() string {
	return "json"
}

func (r *JSONRenderer) ContentType() string {
	return collection.MediaType
}

func (r *JSONRenderer) Render(_ context.Context, doc *collection.Document, _ Options) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: document is nil")
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render: encode document: %w", err)
	}
	return payload, nil
}
