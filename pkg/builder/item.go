package builder

import (
	"net/http"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/schema"
)

// BuildItem represents one instance as a collection item. extra links are
// appended after the defaults and any instance hook links.
func (b *Builder) BuildItem(resource string, instance any, extra ...collection.Link) (collection.Item, error) {
	shape, err := b.shape(resource)
	if err != nil {
		return collection.Item{}, err
	}
	return b.buildItem(shape, resource, instance, extra)
}

func (b *Builder) buildItem(shape schema.Shape, resource string, instance any, extra []collection.Link) (collection.Item, error) {
	id, err := shape.IdentityValue(instance)
	if err != nil {
		return collection.Item{}, err
	}
	href := b.ItemHref(resource, id)

	item := collection.Item{
		Href: href,
		Rel:  shape.Rel(),
		Data: b.itemData(shape, instance, id),
	}

	typeName := shape.TypeName()
	item.Links = append(item.Links,
		collection.Link{Rel: "self", Href: href, Prompt: "View this resource", Method: http.MethodGet},
		collection.Link{Rel: "edit", Href: href, Prompt: "Edit " + typeName, Method: http.MethodGet},
		collection.Link{Rel: "delete", Href: href, Prompt: "Delete " + typeName, Method: http.MethodDelete},
	)
	item.Links = append(item.Links, schema.ItemLinksFor(instance, href)...)
	item.Links = append(item.Links, extra...)

	return item, nil
}

// itemData emits the identity datum first, then every other field that
// participates in item data, in declaration order.
func (b *Builder) itemData(shape schema.Shape, instance any, id string) []collection.Data {
	identity := shape.IdentityName()
	data := make([]collection.Data, 0, len(shape.Fields))

	for _, f := range shape.Fields {
		if f.Name != identity {
			continue
		}
		data = append(data, collection.Data{
			Name:   f.Name,
			Value:  id,
			Prompt: f.ResolvePrompt(),
			Type:   f.TypeTag(),
		})
		break
	}

	for _, f := range shape.Fields {
		if f.Name == identity || !f.InItem() {
			continue
		}
		data = append(data, collection.Data{
			Name:   f.Name,
			Value:  f.Value(instance),
			Prompt: f.ResolvePrompt(),
			Type:   f.TypeTag(),
		})
	}
	return data
}
