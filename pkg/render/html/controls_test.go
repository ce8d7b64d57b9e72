package html_test

import (
	"testing"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render/html"
)

func TestControlRegistryResolve(t *testing.T) {
	registry := html.NewControlRegistry()

	cases := []struct {
		name  string
		field collection.TemplateData
		want  string
	}{
		{"boolean hint", collection.TemplateData{Name: "is_completed", Type: "boolean"}, html.ControlCheckbox},
		{"checkbox tag", collection.TemplateData{Name: "accepted", Type: "checkbox"}, html.ControlCheckbox},
		{"select tag", collection.TemplateData{Name: "status", Type: "select"}, html.ControlSelect},
		{"options imply select", collection.TemplateData{Name: "status", Options: []string{"active", "archived"}}, html.ControlSelect},
		{"textarea", collection.TemplateData{Name: "notes", Type: "textarea"}, html.ControlTextarea},
		{"datetime", collection.TemplateData{Name: "due_at", Type: "datetime"}, html.ControlDatetime},
		{"date", collection.TemplateData{Name: "due_on", Type: "date"}, html.ControlDatetime},
		{"number", collection.TemplateData{Name: "order", Type: "number"}, html.ControlNumber},
		{"integer", collection.TemplateData{Name: "order", Type: "integer"}, html.ControlNumber},
		{"untyped falls back", collection.TemplateData{Name: "name"}, html.ControlInput},
		{"unknown tag falls back", collection.TemplateData{Name: "name", Type: "text"}, html.ControlInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := registry.Resolve(tc.field); got != tc.want {
				t.Fatalf("Resolve(%q/%q) = %q, want %q", tc.field.Name, tc.field.Type, got, tc.want)
			}
		})
	}
}

func TestControlRegistryCustomRule(t *testing.T) {
	registry := html.NewControlRegistry()
	registry.Register("stars", 200, func(field collection.TemplateData) bool {
		return field.Name == "rating"
	})

	rating := collection.TemplateData{Name: "rating", Type: "number"}
	if got := registry.Resolve(rating); got != "stars" {
		t.Fatalf("custom rule should outrank builtins, got %q", got)
	}

	order := collection.TemplateData{Name: "order", Type: "number"}
	if got := registry.Resolve(order); got != html.ControlNumber {
		t.Fatalf("builtin rule should still apply, got %q", got)
	}
}
