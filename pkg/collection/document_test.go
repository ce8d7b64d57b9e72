package collection_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

func TestDocumentMarshalTemplateShapes(t *testing.T) {
	base := collection.New("/tasks/", "Tasks")

	raw, err := json.Marshal(base)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if strings.Contains(string(raw), `"template"`) {
		t.Fatalf("empty document should omit template, got %s", raw)
	}
	if !strings.Contains(string(raw), `"items":[]`) {
		t.Fatalf("empty collection should encode items as [], got %s", raw)
	}

	base.AddTemplate(collection.Template{
		Data: []collection.TemplateData{{Name: "name", Value: "", Required: true}},
	})
	raw, err = json.Marshal(base)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if !strings.Contains(string(raw), `"template":{`) {
		t.Fatalf("single template should encode as an object, got %s", raw)
	}

	base.AddTemplate(collection.Template{
		Data:   []collection.TemplateData{{Name: "status", Value: ""}},
		Href:   "/tasks/bulk/",
		Method: "PUT",
	})
	raw, err = json.Marshal(base)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if !strings.Contains(string(raw), `"template":[`) {
		t.Fatalf("multiple templates should encode as an array, got %s", raw)
	}
}

func TestDocumentUnmarshalTemplateShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "absent",
			raw:  `{"collection":{"version":"1.0","href":"/x/","items":[]}}`,
			want: 0,
		},
		{
			name: "null",
			raw:  `{"collection":{"version":"1.0","href":"/x/","items":[]},"template":null}`,
			want: 0,
		},
		{
			name: "object",
			raw:  `{"collection":{"version":"1.0","href":"/x/","items":[]},"template":{"data":[{"name":"a","value":"","required":false}]}}`,
			want: 1,
		},
		{
			name: "array",
			raw:  `{"collection":{"version":"1.0","href":"/x/","items":[]},"template":[{"data":[]},{"data":[]}]}`,
			want: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var doc collection.Document
			if err := json.Unmarshal([]byte(tc.raw), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := len(doc.Templates); got != tc.want {
				t.Fatalf("expected %d templates, got %d", tc.want, got)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	want := collection.New("https://api.example.com/tasks/", "Tasks")
	want.Collection.Links = []collection.Link{
		{Rel: "self", Href: "https://api.example.com/tasks/", Prompt: "All Tasks"},
	}
	want.Collection.Items = []collection.Item{
		{
			Href: "https://api.example.com/tasks/1/",
			Rel:  "item",
			Data: []collection.Data{
				{Name: "id", Value: "1", Prompt: "Task ID"},
				{Name: "is_completed", Value: false, Prompt: "Completed"},
			},
			Links: []collection.Link{
				{Rel: "edit", Href: "https://api.example.com/tasks/1/", Method: "GET"},
			},
		},
	}
	want.Collection.Queries = []collection.Query{
		{Rel: "search", Href: "https://api.example.com/tasks/search", Name: "search_tasks"},
	}
	want.AddTemplate(collection.Template{
		Data: []collection.TemplateData{
			{Name: "name", Value: "", Prompt: "Task Name", Required: true},
		},
		Prompt: "New Task",
	})

	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got collection.Document
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Booleans survive as bool, everything decoded from JSON numbers would
	// come back as float64. The fixture avoids numeric values so the
	// round-trip compares cleanly.
	if diff := cmp.Diff(*want, got); diff != "" {
		t.Fatalf("document round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := collection.New("/tasks/", "Tasks")
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	doc.Collection.Items = append(doc.Collection.Items, collection.Item{Href: "/tasks/{id}/"})
	if err := doc.Validate(); err == nil {
		t.Fatal("expected unresolved placeholder to fail validation")
	}

	doc = collection.New("/tasks/", "Tasks")
	doc.Error = &collection.Error{Title: "Not Found", Message: "missing"}
	if err := doc.Validate(); err == nil {
		t.Fatal("expected error document without a code to fail validation")
	}
}

func TestFirstItemHrefAndDatum(t *testing.T) {
	doc := collection.New("/tasks/", "Tasks")
	if got := doc.FirstItemHref(); got != "" {
		t.Fatalf("empty collection should have no first item href, got %q", got)
	}

	doc.Collection.Items = []collection.Item{
		{Href: "/tasks/7/", Data: []collection.Data{{Name: "id", Value: "7"}}},
		{Href: "/tasks/8/"},
	}
	if got := doc.FirstItemHref(); got != "/tasks/7/" {
		t.Fatalf("first item href mismatch, got %q", got)
	}

	d, ok := doc.Collection.Items[0].Datum("id")
	if !ok || d.Value != "7" {
		t.Fatalf("expected id datum with value 7, got %+v ok=%v", d, ok)
	}
	if _, ok := doc.Collection.Items[0].Datum("missing"); ok {
		t.Fatal("unexpected datum for missing name")
	}
}
