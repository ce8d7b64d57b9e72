package hypermedia

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/builder"
	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/schema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

const notesAPIDocument = `{
  "openapi": "3.0.3",
  "info": { "title": "Notes API", "version": "1.0.0" },
  "paths": {
    "/notes": {
      "get": {
        "operationId": "list-notes",
        "summary": "List Notes",
        "responses": { "200": { "description": "ok" } }
      },
      "post": {
        "operationId": "create-note",
        "summary": "Create Note",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["title"],
                "properties": {
                  "title": { "type": "string" },
                  "done": { "type": "boolean" }
                }
              }
            }
          }
        },
        "responses": { "201": { "description": "created" } }
      }
    }
  }
}`

type note struct {
	ID    string
	Title string
	Done  bool
}

func noteField(get func(note) any) func(any) any {
	return func(instance any) any {
		n, ok := instance.(note)
		if !ok {
			return nil
		}
		return get(n)
	}
}

func noteShape() schema.Shape {
	return schema.Shape{
		Name:    "notes",
		Title:   "Notes",
		ItemRel: "note",
		Fields: []schema.Field{
			{Name: "id", Get: noteField(func(n note) any { return n.ID })},
			{Name: "title", Required: true, Get: noteField(func(n note) any { return n.Title })},
			{Name: "done", Kind: schema.KindBoolean, Hint: "boolean", Get: noteField(func(n note) any { return n.Done })},
		},
	}
}

func newNotesEngine(t *testing.T, options ...Option) *Engine {
	t.Helper()
	engine, err := New(append([]Option{WithShapes(noteShape())}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineBuildsAbsoluteDocuments(t *testing.T) {
	engine := newNotesEngine(t, WithBaseURL("https://api.example.com"))

	doc, err := engine.Builder().BuildCollection("notes", []any{
		note{ID: "n-1", Title: "Write the changelog"},
		note{ID: "n-2", Title: "Tag the release", Done: true},
	})
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}

	if doc.Collection.Href != "https://api.example.com/notes/" {
		t.Fatalf("collection href = %q", doc.Collection.Href)
	}
	if len(doc.Collection.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Collection.Items))
	}
	if doc.Collection.Items[0].Href != "https://api.example.com/notes/n-1/" {
		t.Fatalf("item href = %q", doc.Collection.Items[0].Href)
	}

	if len(doc.Templates) != 1 {
		t.Fatalf("expected the create template, got %d templates", len(doc.Templates))
	}
	tpl := doc.Templates[0]
	if tpl.Href != "https://api.example.com/notes/" || tpl.Method != http.MethodPost {
		t.Fatalf("template targets %s %q", tpl.Method, tpl.Href)
	}
	if _, ok := tpl.Datum("id"); ok {
		t.Fatal("identity field leaked into the create template")
	}
	if _, ok := tpl.Datum("title"); !ok {
		t.Fatal("template is missing the title field")
	}
}

func TestEngineRespondsNegotiatedMediaTypes(t *testing.T) {
	engine := newNotesEngine(t)

	doc, err := engine.Builder().BuildCollection("notes", []any{
		note{ID: "n-1", Title: "Write the changelog"},
		note{ID: "n-2", Title: "Tag the release", Done: true},
	})
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req.Header.Set("Accept", collection.MediaType)
	if err := engine.Respond(rr, req, doc, render.Options{}); err != nil {
		t.Fatalf("respond json: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != collection.MediaType {
		t.Fatalf("content type = %q", got)
	}
	var decoded collection.Document
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Collection.Version != collection.Version {
		t.Fatalf("version = %q", decoded.Collection.Version)
	}
	if len(decoded.Collection.Items) != 2 {
		t.Fatalf("expected 2 items over the wire, got %d", len(decoded.Collection.Items))
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if err := engine.Respond(rr, req, doc, render.Options{}); err != nil {
		t.Fatalf("respond html: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	page := rr.Body.String()
	if !strings.Contains(page, "<h1>Notes</h1>") {
		t.Fatal("page is missing the collection title")
	}
	if !strings.Contains(page, "<form") {
		t.Fatal("page is missing the create form")
	}
}

func TestEngineRedirectsBrowserAfterCreate(t *testing.T) {
	engine := newNotesEngine(t, WithBaseURL("/api"))

	doc, err := engine.Builder().BuildCollection("notes", []any{
		note{ID: "n-7", Title: "Ship it"},
	})
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notes/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if err := engine.Respond(rr, req, doc, render.Options{Status: http.StatusCreated}); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/notes/n-7/" {
		t.Fatalf("location = %q", loc)
	}
}

func TestEngineBuildsCatalogFromSource(t *testing.T) {
	fsys := fstest.MapFS{
		"openapi.json": &fstest.MapFile{Data: []byte(notesAPIDocument)},
	}
	engine := newNotesEngine(t,
		WithBaseURL("/api"),
		WithSource(apischema.SourceFromFS("openapi.json")),
		WithLoader(NewLoader(apischema.WithFileSystem(fsys))),
	)

	catalog := engine.Catalog()
	if catalog == nil {
		t.Fatal("expected a catalog built from the source")
	}

	ctx := context.Background()
	create, err := catalog.Get(ctx, "create-note")
	if err != nil {
		t.Fatalf("get create-note: %v", err)
	}
	if create.Method != http.MethodPost || create.Href != "/notes" {
		t.Fatalf("create-note resolved to %s %q", create.Method, create.Href)
	}
	if create.Kind() != transitions.KindTemplate {
		t.Fatalf("create-note kind = %v", create.Kind())
	}

	doc, err := engine.Builder().BuildCollection("notes", nil, builder.WithoutTemplate())
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}
	if err := engine.Builder().ApplyTransitions(ctx, doc, nil, "create-note"); err != nil {
		t.Fatalf("apply transitions: %v", err)
	}
	if len(doc.Templates) != 1 {
		t.Fatalf("expected the applied template, got %d", len(doc.Templates))
	}
	if doc.Templates[0].Href != "/api/notes" {
		t.Fatalf("applied template href = %q", doc.Templates[0].Href)
	}
	if _, ok := doc.Templates[0].Datum("title"); !ok {
		t.Fatal("applied template is missing the title field")
	}
}

func TestEngineCatalogOptionWinsOverSource(t *testing.T) {
	api := apischema.API{
		Operations: map[string]apischema.Operation{
			"ping": apischema.MustNewOperation("ping", http.MethodGet, "/ping"),
		},
	}
	engine := newNotesEngine(t,
		WithCatalog(transitions.FromAPI(api)),
		WithSource(apischema.SourceFromFS("missing.json")),
	)

	ping, err := engine.Catalog().Get(context.Background(), "ping")
	if err != nil {
		t.Fatalf("catalog option should win over the source: %v", err)
	}
	if ping.Href != "/ping" {
		t.Fatalf("ping href = %q", ping.Href)
	}
}

func TestNewCatalogReadsSchemaFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, []byte(notesAPIDocument), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	catalog := NewCatalog(apischema.SourceFromFile(path))

	ctx := context.Background()
	list, err := catalog.Get(ctx, "list-notes")
	if err != nil {
		t.Fatalf("get list-notes: %v", err)
	}
	if list.Kind() != transitions.KindLink {
		t.Fatalf("list-notes kind = %v", list.Kind())
	}

	failures, err := catalog.Failures(ctx)
	if err != nil {
		t.Fatalf("failures: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
}

func TestEngineDefaults(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if engine.Catalog() != nil {
		t.Fatal("engine without a source must not carry a catalog")
	}
	if _, err := engine.Builder().BuildCollection("notes", nil); err == nil {
		t.Fatal("unregistered resource must not build")
	}

	if err := engine.Register(noteShape()); err != nil {
		t.Fatalf("register: %v", err)
	}
	doc, err := engine.Builder().BuildForm("notes", nil)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	if doc.Collection.Href != "/notes/" {
		t.Fatalf("form href = %q", doc.Collection.Href)
	}
	if len(doc.Templates) != 1 || doc.Templates[0].Method != http.MethodPost {
		t.Fatalf("expected a blank create form, got %+v", doc.Templates)
	}
}

func TestEmbeddedTemplatesBundle(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl")
	if err != nil {
		t.Fatalf("read embedded page template: %v", err)
	}
	if !strings.Contains(string(data), "cj-page") {
		t.Fatal("embedded page template lost its page scaffold")
	}
}
