package builder

import (
	"context"
	"errors"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

// ErrNoCatalog is returned by ApplyTransitions on builders constructed
// without WithCatalog.
var ErrNoCatalog = errors.New("builder: no transition catalog configured")

// ApplyTransitions resolves catalog entries against params and files each
// one into the document by kind: queries join collection.queries, writable
// templates join the template list, everything else becomes a link. Hrefs
// from the catalog are paths; they are resolved against the base URL here.
func (b *Builder) ApplyTransitions(ctx context.Context, doc *collection.Document, params map[string]any, ids ...string) error {
	if b.catalog == nil {
		return ErrNoCatalog
	}
	for _, id := range ids {
		t, err := b.catalog.Resolve(ctx, id, params)
		if err != nil {
			return err
		}
		switch t.Kind() {
		case transitions.KindQuery:
			q := t.Query("")
			q.Href = b.absolute(q.Href)
			doc.Collection.Queries = append(doc.Collection.Queries, q)
		case transitions.KindTemplate:
			tpl := t.Template()
			tpl.Href = b.absolute(tpl.Href)
			doc.AddTemplate(tpl)
		default:
			link := t.Link("")
			link.Href = b.absolute(link.Href)
			doc.Collection.Links = append(doc.Collection.Links, link)
		}
	}
	return nil
}
