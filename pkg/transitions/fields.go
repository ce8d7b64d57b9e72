package transitions

import (
	"errors"
	"sort"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/schema"
)

// fieldsForOperation derives the writable fields of an operation from its
// request body. The body reference and each property reference are resolved
// exactly one level; a failed resolution aborts the whole operation so the
// catalog can record it instead of emitting a silently empty field list.
func fieldsForOperation(api apischema.API, op apischema.Operation) ([]Field, error) {
	if !op.HasRequestBody() {
		return nil, nil
	}

	body, err := api.ResolveSchema(op.RequestBody)
	if err != nil {
		return nil, err
	}
	if body.Type != "object" || len(body.Properties) == 0 {
		return nil, nil
	}

	propNames := make([]string, 0, len(body.Properties))
	for propName := range body.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	fields := make([]Field, 0, len(propNames))
	for _, propName := range propNames {
		prop, err := api.ResolveSchema(body.Properties[propName])
		if err != nil {
			return nil, err
		}
		fields = append(fields, convertField(propName, prop, body.RequiresField(propName)))
	}
	return fields, nil
}

// convertField applies the field typing policy to one resolved property.
// Unrecognized declared types degrade to "text" instead of failing.
func convertField(name string, prop apischema.Schema, required bool) Field {
	field := Field{
		Name:      name,
		Type:      typeTag(prop),
		Prompt:    fieldPrompt(name, prop),
		Value:     schema.StringifyDefault(prop.Default),
		Required:  required,
		Min:       prop.Minimum,
		Max:       prop.Maximum,
		MinLength: prop.MinLength,
		MaxLength: prop.MaxLength,
		Pattern:   prop.Pattern,
	}
	if len(prop.Enum) > 0 {
		field.Options = prop.EnumStrings()
	}
	return field
}

func typeTag(prop apischema.Schema) string {
	switch prop.Type {
	case "boolean":
		return "checkbox"
	case "integer", "number":
		return "number"
	case "string":
		if len(prop.Enum) > 0 {
			return "select"
		}
		if prop.Format == "date-time" || prop.Format == "date" {
			return "datetime"
		}
		return "text"
	default:
		return "text"
	}
}

func fieldPrompt(name string, prop apischema.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	if prop.Description != "" {
		return prop.Description
	}
	return schema.Label(name)
}

// resolutionErr wraps a schema resolution failure with the owning operation,
// lifting the offending reference out of the cause when it is identifiable.
func resolutionErr(opID string, err error) *ResolutionError {
	resErr := &ResolutionError{OperationID: opID, Err: err}
	var refErr *apischema.RefError
	if errors.As(err, &refErr) {
		resErr.Ref = refErr.Ref
	}
	return resErr
}
