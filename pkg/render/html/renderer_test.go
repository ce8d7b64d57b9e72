package html_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/render/html"
)

const base = "https://api.example.com"

func taskDocument() *collection.Document {
	doc := collection.New(base+"/tasks/", "Tasks")
	doc.Collection.Links = []collection.Link{
		{Rel: "self", Href: base + "/tasks/", Prompt: "All Tasks", Method: http.MethodGet},
		{Rel: "home", Href: base + "/", Prompt: "API Home", Method: http.MethodGet},
	}
	doc.Collection.Items = []collection.Item{
		{
			Href: base + "/tasks/task_9f3c2a41/",
			Rel:  "task",
			Data: []collection.Data{
				{Name: "id", Value: "task_9f3c2a41", Prompt: "Id"},
				{Name: "name", Value: "Review <script> injection", Prompt: "Name"},
				{Name: "order", Value: 3, Prompt: "Position", Type: "number"},
				{Name: "notes", Value: "<strong>bold</strong><script>alert(1)</script>", Prompt: "Notes", Type: "textarea"},
			},
			Links: []collection.Link{
				{Rel: "edit", Href: base + "/tasks/task_9f3c2a41/form", Prompt: "Edit Task", Method: http.MethodGet},
				{Rel: "delete", Href: base + "/tasks/task_9f3c2a41/", Prompt: "Delete Task", Method: http.MethodDelete},
				{Rel: "complete", Href: base + "/tasks/task_9f3c2a41/complete", Prompt: "Complete", Method: http.MethodPost},
			},
		},
	}
	doc.Collection.Queries = []collection.Query{
		{
			Rel:    "search",
			Href:   base + "/tasks/search",
			Prompt: "Search tasks",
			Data:   []collection.Data{{Name: "name", Prompt: "Name"}},
		},
	}

	minOrder := float64(0)
	maxName := 120
	doc.AddTemplate(collection.Template{
		Prompt: "New Tasks",
		Href:   base + "/tasks/",
		Method: http.MethodPost,
		Data: []collection.TemplateData{
			{Name: "name", Value: "", Prompt: "Name", Required: true, MaxLength: &maxName},
			{Name: "order", Value: "", Prompt: "Position", Type: "number", Min: &minOrder},
			{Name: "is_completed", Value: "False", Prompt: "Is Completed", Type: "boolean"},
		},
	})
	doc.AddTemplate(collection.Template{
		Prompt: "Edit Task",
		Href:   base + "/tasks/task_9f3c2a41/",
		Method: http.MethodPut,
		Data: []collection.TemplateData{
			{Name: "name", Value: "Review injection", Prompt: "Name", Required: true},
			{Name: "is_completed", Value: true, Prompt: "Is Completed", Type: "boolean"},
			{Name: "status", Value: "active", Prompt: "Status", Type: "select", Options: []string{"active", "completed", "archived"}},
		},
	})
	return doc
}

func renderPage(t *testing.T, renderer *html.Renderer, doc *collection.Document, options render.Options) string {
	t.Helper()
	out, err := renderer.Render(context.Background(), doc, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, page, want string) {
	t.Helper()
	if !strings.Contains(page, want) {
		t.Fatalf("rendered page missing %q\n%s", want, page)
	}
}

func assertNotContains(t *testing.T, page, unwanted string) {
	t.Helper()
	if strings.Contains(page, unwanted) {
		t.Fatalf("rendered page should not contain %q\n%s", unwanted, page)
	}
}

func TestRendererIdentity(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("name = %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", renderer.ContentType())
	}
}

func TestRendererRendersCollectionPage(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := renderPage(t, renderer, taskDocument(), render.Options{
		Status: http.StatusOK,
		Hidden: map[string]string{"csrf_token": "abc123"},
	})

	assertContains(t, page, "<title>Tasks</title>")
	assertContains(t, page, `<a data-rel="home" href="https://api.example.com/">API Home</a>`)
	assertContains(t, page, `<a href="https://api.example.com/tasks/task_9f3c2a41/">`)

	// Plain values escape, textarea values sanitize and render as markup.
	assertContains(t, page, "Review &lt;script&gt; injection")
	assertContains(t, page, "<strong>bold</strong>")
	assertNotContains(t, page, "<script>alert(1)</script>")

	// GET links render as anchors, write links as forms. DELETE needs the
	// method override, POST does not.
	assertContains(t, page, `<a data-rel="edit" href="https://api.example.com/tasks/task_9f3c2a41/form">Edit Task</a>`)
	assertContains(t, page, `action="https://api.example.com/tasks/task_9f3c2a41/complete" method="post"`)
	assertContains(t, page, `<input type="hidden" name="_method" value="DELETE">`)
	assertNotContains(t, page, `value="POST"`)

	assertContains(t, page, `<form class="cj-query" action="https://api.example.com/tasks/search" method="get">`)
	assertContains(t, page, `<input type="text" name="name" value="">`)

	// Create form: blank checkbox, bound attributes, no method override.
	assertContains(t, page, "<h2>New Tasks</h2>")
	assertContains(t, page, `maxlength="120"`)
	assertContains(t, page, `min="0"`)
	assertContains(t, page, `<input type="checkbox" name="is_completed" value="true">`)

	// Edit form tunnels PUT, preselects the current status, and checks the
	// populated checkbox.
	assertContains(t, page, `<input type="hidden" name="_method" value="PUT">`)
	assertContains(t, page, `<input type="checkbox" name="is_completed" value="true" checked>`)
	assertContains(t, page, `<option value="active" selected>active</option>`)
	assertContains(t, page, `<option value="archived">archived</option>`)

	assertContains(t, page, `<input type="hidden" name="csrf_token" value="abc123">`)
	assertContains(t, page, collection.MediaType)
}

func TestRendererRendersValidationErrors(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := renderPage(t, renderer, taskDocument(), render.Options{
		Status:      http.StatusUnprocessableEntity,
		FormErrors:  []string{"Please fix the highlighted fields."},
		FieldErrors: map[string][]string{"name": {"Name is required."}},
	})

	assertContains(t, page, `<section class="cj-form-errors">`)
	assertContains(t, page, "<li>Please fix the highlighted fields.</li>")
	assertContains(t, page, `cj-field cj-field-invalid`)
	assertContains(t, page, "<li>Name is required.</li>")
}

func TestRendererRendersErrorDocument(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	doc := collection.New(base+"/", "")
	doc.Error = &collection.Error{
		Title:   "Not Found",
		Code:    http.StatusNotFound,
		Message: "No workflow with that identifier.",
		Details: "wf_deadbeef",
	}

	page := renderPage(t, renderer, doc, render.Options{Status: http.StatusNotFound})

	assertContains(t, page, "<title>Not Found</title>")
	assertContains(t, page, `<section class="cj-error">`)
	assertContains(t, page, "No workflow with that identifier.")
	assertContains(t, page, "wf_deadbeef")
}

func TestRendererAppliesTheme(t *testing.T) {
	sel := &theme.Selection{Theme: "glass", Variant: "dark", Manifest: glassManifest()}
	renderer, err := html.New(html.WithTheme(html.ConfigFromSelection(sel, nil)))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := renderPage(t, renderer, taskDocument(), render.Options{Status: http.StatusOK})

	assertContains(t, page, `<link rel="stylesheet" href="/assets/glass/glass-dark.css">`)
	assertContains(t, page, `class="cj-page theme-glass"`)
	assertContains(t, page, "--color-bg:#101418;")
}

func TestRendererWithoutTheme(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := renderPage(t, renderer, taskDocument(), render.Options{Status: http.StatusOK})

	assertContains(t, page, `class="cj-page">`)
	assertNotContains(t, page, "stylesheet")
}

func TestRendererNilDocument(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := renderer.Render(context.Background(), nil, render.Options{}); err == nil {
		t.Fatal("expected an error for a nil document")
	}
}
