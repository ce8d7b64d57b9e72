package apischema

import (
	"errors"
	"sort"
)

// Operation models the subset of route metadata needed to derive hypermedia
// transitions: identity, address, and the declared write payload.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	RequestBody Schema
}

// NewOperation validates the fields every transition needs.
func NewOperation(id, method, path string) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("apischema: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("apischema: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("apischema: operation path is required")
	}

	return Operation{ID: id, Method: method, Path: path}, nil
}

// MustNewOperation panics when construction fails, assisting fixtures/tests.
func MustNewOperation(id, method, path string) Operation {
	op, err := NewOperation(id, method, path)
	if err != nil {
		panic(err)
	}
	return op
}

// HasRequestBody reports whether the operation declares a write payload.
func (op Operation) HasRequestBody() bool {
	return !op.RequestBody.IsZero()
}

// Title returns the human label for the operation, falling back to the id
// when the schema declares no summary.
func (op Operation) Title() string {
	if op.Summary != "" {
		return op.Summary
	}
	return op.ID
}

// API is the parsed view of a schema document: operations keyed by id plus
// the named component schemas their bodies may reference.
type API struct {
	Title      string
	Version    string
	Operations map[string]Operation
	Schemas    map[string]Schema
}

// Operation looks up a parsed operation by id.
func (a API) Operation(id string) (Operation, bool) {
	op, ok := a.Operations[id]
	return op, ok
}

// OperationIDs returns the known operation ids in sorted order.
func (a API) OperationIDs() []string {
	ids := make([]string, 0, len(a.Operations))
	for id := range a.Operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveSchema dereferences a schema that points at a named component.
// Exactly one level of indirection is honoured; a reference whose target is
// itself a reference reports a RefError instead of chasing the chain. Sibling
// Title/Description/Default annotations on the referencing site override the
// target's own.
func (a API) ResolveSchema(s Schema) (Schema, error) {
	if s.Ref == "" {
		return s, nil
	}
	name := RefName(s.Ref)
	if name == "" {
		return Schema{}, &RefError{Ref: s.Ref, Reason: "not a local component schema reference"}
	}
	target, ok := a.Schemas[name]
	if !ok {
		return Schema{}, &RefError{Ref: s.Ref, Reason: "component schema not found"}
	}
	if target.Ref != "" {
		return Schema{}, &RefError{Ref: s.Ref, Reason: "reference chains deeper than one level"}
	}

	resolved := target.Clone()
	if s.Title != "" {
		resolved.Title = s.Title
	}
	if s.Description != "" {
		resolved.Description = s.Description
	}
	if s.Default != nil {
		resolved.Default = s.Default
	}
	return resolved, nil
}
