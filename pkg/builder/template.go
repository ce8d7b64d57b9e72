package builder

import (
	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/schema"
)

type templateConfig struct {
	source any
	skip   []string
	href   string
	method string
	prompt string
}

// TemplateOption adjusts one BuildTemplate call.
type TemplateOption func(*templateConfig)

// WithValuesFrom prefills template values from an existing instance,
// producing an edit form instead of a blank one.
func WithValuesFrom(instance any) TemplateOption {
	return func(c *templateConfig) {
		c.source = instance
	}
}

// WithSkip replaces the builder's skip list for this template.
func WithSkip(names ...string) TemplateOption {
	return func(c *templateConfig) {
		c.skip = append([]string{}, names...)
	}
}

// WithTarget stamps the submission href and method onto the template.
func WithTarget(href, method string) TemplateOption {
	return func(c *templateConfig) {
		c.href = href
		c.method = method
	}
}

// WithPrompt overrides the default template prompt.
func WithPrompt(prompt string) TemplateOption {
	return func(c *templateConfig) {
		c.prompt = prompt
	}
}

// BuildTemplate derives the writable template for a resource: every declared
// field except the skip list, in declaration order. Prototype overrides run
// before the default descriptor generation, so a shape can replace or drop
// individual fields.
func (b *Builder) BuildTemplate(resource string, options ...TemplateOption) (collection.Template, error) {
	shape, err := b.shape(resource)
	if err != nil {
		return collection.Template{}, err
	}
	return b.buildTemplate(shape, options), nil
}

func (b *Builder) buildTemplate(shape schema.Shape, options []TemplateOption) collection.Template {
	cfg := templateConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	skip := b.skipSet(cfg.skip)
	data := make([]collection.TemplateData, 0, len(shape.Fields))
	for _, f := range shape.Fields {
		if _, skipped := skip[f.Name]; skipped {
			continue
		}
		if override, ok := schema.OverrideFor(shape.Prototype, f.Name); ok {
			data = append(data, override...)
			continue
		}
		data = append(data, b.templateDatum(f, cfg.source))
	}

	prompt := cfg.prompt
	if prompt == "" {
		prompt = "New " + shape.DisplayTitle()
	}

	return collection.Template{
		Data:   data,
		Href:   cfg.href,
		Method: cfg.method,
		Prompt: prompt,
	}
}

func (b *Builder) templateDatum(f schema.Field, source any) collection.TemplateData {
	return collection.TemplateData{
		Name:      f.Name,
		Value:     templateValue(f, source),
		Prompt:    f.ResolvePrompt(),
		Type:      f.TypeTag(),
		Required:  f.Required,
		Options:   append([]string(nil), f.Options...),
		Min:       f.Min,
		Max:       f.Max,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
		Pattern:   f.Pattern,
	}
}

// templateValue picks the field value for a template: the instance value on
// edit forms, otherwise the declared default. Blank booleans spell out
// "False" so unchecked boxes round-trip as an explicit value.
func templateValue(f schema.Field, source any) any {
	if source != nil {
		return f.Value(source)
	}
	def := f.Default
	if def == nil && f.Kind == schema.KindBoolean {
		def = false
	}
	return schema.StringifyDefault(def)
}
