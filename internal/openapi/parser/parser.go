package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
)

// Parser implements apischema.Parser using kin-openapi.
type Parser struct {
	options apischema.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ apischema.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options apischema.ParserOptions) apischema.Parser {
	return &Parser{options: options}
}

// Parse converts a Document into the API view consumed by the transition
// catalog: operations keyed by id plus the component schemas their bodies
// reference. References inside bodies are preserved, not inlined, so the
// catalog can apply its single-level resolution rule.
func (p *Parser) Parse(ctx context.Context, doc apischema.Document) (apischema.API, error) {
	if err := ctx.Err(); err != nil {
		return apischema.API{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return apischema.API{}, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return apischema.API{}, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return apischema.API{}, errors.New("openapi parser: document does not contain any paths")
	}

	api := apischema.API{
		Operations: make(map[string]apischema.Operation),
		Schemas:    componentSchemas(spec),
	}
	if spec.Info != nil {
		api.Title = spec.Info.Title
		api.Version = spec.Info.Version
	}

	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, entry := range []struct {
			method    string
			operation *openapi3.Operation
		}{
			{"GET", item.Get},
			{"PUT", item.Put},
			{"POST", item.Post},
			{"DELETE", item.Delete},
			{"PATCH", item.Patch},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
			{"TRACE", item.Trace},
		} {
			if err := p.collectOperation(ctx, api.Operations, entry.method, path, entry.operation); err != nil {
				return apischema.API{}, err
			}
		}
	}

	if len(api.Operations) == 0 {
		return apischema.API{}, errors.New("openapi parser: no operations extracted")
	}

	return api, nil
}

func (p *Parser) collectOperation(ctx context.Context, target map[string]apischema.Operation, method, path string, operation *openapi3.Operation) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if operation == nil {
		return nil
	}
	opID := operation.OperationID
	if opID == "" {
		if p.options.RequireOperationIDs {
			return fmt.Errorf("openapi parser: %s %s has no operationId", method, path)
		}
		opID = strings.ToLower(method) + ":" + path
	}

	op, err := apischema.NewOperation(opID, method, path)
	if err != nil {
		// Invalid operations are skipped but noted by leaving them out.
		return nil
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	if len(operation.Tags) > 0 {
		op.Tags = append([]string(nil), operation.Tags...)
	}
	op.RequestBody = extractRequestSchema(operation.RequestBody)
	target[opID] = op
	return nil
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) apischema.Schema {
	if requestBody == nil {
		return apischema.Schema{}
	}
	if requestBody.Value == nil {
		return apischema.Schema{Ref: requestBody.Ref}
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema)
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema)
	}
	return apischema.Schema{}
}

func componentSchemas(spec *openapi3.T) map[string]apischema.Schema {
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil
	}
	result := make(map[string]apischema.Schema, len(spec.Components.Schemas))
	for name, ref := range spec.Components.Schemas {
		result[name] = convertSchema(ref)
	}
	return result
}

// convertSchema maps a kin-openapi schema onto the wrapper AST. A non-empty
// pointer stays a pointer even though kin-openapi has already resolved it;
// chasing it is the resolver's job, not the parser's.
func convertSchema(ref *openapi3.SchemaRef) apischema.Schema {
	if ref == nil {
		return apischema.Schema{}
	}
	if ref.Ref != "" {
		return apischema.Schema{Ref: ref.Ref}
	}
	if ref.Value == nil {
		return apischema.Schema{}
	}

	src := ref.Value
	schema := apischema.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]apischema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		schema.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}

	liftWrappedRef(&schema, src)
	liftNullableUnion(&schema, src)
	return schema
}

// liftWrappedRef collapses the allOf wrapper emitted for annotated enum
// fields ({allOf: [$ref], title, default}) into a plain reference so the
// sibling annotations survive single-level resolution.
func liftWrappedRef(target *apischema.Schema, src *openapi3.Schema) {
	if target.Type != "" || target.Ref != "" || len(src.AllOf) != 1 {
		return
	}
	entry := src.AllOf[0]
	if entry == nil {
		return
	}
	if entry.Ref != "" {
		target.Ref = entry.Ref
		return
	}
	inline := convertSchema(entry)
	keepWrapperAnnotations(&inline, *target)
	*target = inline
}

// liftNullableUnion adopts the non-null branch of the two-entry union that
// optional fields compile to ({anyOf: [{type: T}, {type: "null"}]}).
func liftNullableUnion(target *apischema.Schema, src *openapi3.Schema) {
	if target.Type != "" || target.Ref != "" {
		return
	}
	union := src.AnyOf
	if len(union) == 0 {
		union = src.OneOf
	}
	if len(union) != 2 {
		return
	}

	var branch *openapi3.SchemaRef
	for _, entry := range union {
		if entry == nil {
			continue
		}
		if entry.Ref == "" && entry.Value != nil && firstSchemaType(entry.Value.Type) == "null" {
			continue
		}
		if branch != nil {
			// Two non-null branches form a real union, not an optional.
			return
		}
		branch = entry
	}
	if branch == nil {
		return
	}

	inline := convertSchema(branch)
	keepWrapperAnnotations(&inline, *target)
	*target = inline
}

func keepWrapperAnnotations(inline *apischema.Schema, wrapper apischema.Schema) {
	if wrapper.Title != "" {
		inline.Title = wrapper.Title
	}
	if wrapper.Description != "" {
		inline.Description = wrapper.Description
	}
	if wrapper.Default != nil {
		inline.Default = wrapper.Default
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
