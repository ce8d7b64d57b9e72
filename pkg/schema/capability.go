package schema

import "github.com/goliatone/go-hypermedia/pkg/collection"

// ExtraItemLinks is an optional capability of resource instances. When an
// instance implements it, the links it returns are appended to the item's
// default link set. selfHref is the fully resolved item href, so hook links
// can derive action targets from it.
type ExtraItemLinks interface {
	ExtraItemLinks(selfHref string) []collection.Link
}

// TemplateFieldOverride is an optional capability of shape prototypes. When
// a prototype implements it, the builder asks it for each field before
// generating the default descriptor; returning ok replaces that field's
// descriptors entirely. Returning (nil, true) drops the field.
type TemplateFieldOverride interface {
	TemplateFieldOverride(field string) ([]collection.TemplateData, bool)
}

// ItemLinksFor runs the capability check for instance link hooks.
func ItemLinksFor(instance any, selfHref string) []collection.Link {
	hook, ok := instance.(ExtraItemLinks)
	if !ok {
		return nil
	}
	return hook.ExtraItemLinks(selfHref)
}

// OverrideFor runs the capability check for template field overrides.
func OverrideFor(prototype any, field string) ([]collection.TemplateData, bool) {
	hook, ok := prototype.(TemplateFieldOverride)
	if !ok {
		return nil, false
	}
	return hook.TemplateFieldOverride(field)
}
