package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
)

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"specs/openapi.yaml": &fstest.MapFile{Data: []byte("openapi: 3.0.0\n")},
	}
	ldr := New(apischema.NewLoaderOptions(apischema.WithFileSystem(fsys)))

	doc, err := ldr.Load(context.Background(), apischema.SourceFromFS("specs/openapi.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != "openapi: 3.0.0\n" {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != "specs/openapi.yaml" {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestLoadFromFSRequiresFilesystem(t *testing.T) {
	ldr := New(apischema.LoaderOptions{})
	if _, err := ldr.Load(context.Background(), apischema.SourceFromFS("openapi.yaml")); err == nil {
		t.Fatal("expected error when no filesystem is configured")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.json")
	if err := os.WriteFile(path, []byte(`{"openapi":"3.0.0"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ldr := New(apischema.LoaderOptions{})
	doc, err := ldr.Load(context.Background(), apischema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatal("expected payload")
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ldr := New(apischema.NewLoaderOptions(apischema.WithFileSystem(fstest.MapFS{})))
	if _, err := ldr.Load(ctx, apischema.SourceFromFS("openapi.yaml")); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoadHTTPDisabledByDefault(t *testing.T) {
	ldr := New(apischema.LoaderOptions{})
	_, err := ldr.Load(context.Background(), apischema.SourceFromURL("https://example.com/openapi.json"))
	if err == nil {
		t.Fatal("expected http support disabled error")
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"openapi":"3.0.0"}`))
	}))
	defer srv.Close()

	ldr := New(apischema.NewLoaderOptions(apischema.WithHTTPFallback(2 * time.Second)))
	doc, err := ldr.Load(context.Background(), apischema.SourceFromURL(srv.URL))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != `{"openapi":"3.0.0"}` {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
}

func TestLoadHTTPRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ldr := New(apischema.NewLoaderOptions(apischema.WithHTTPFallback(2 * time.Second)))
	if _, err := ldr.Load(context.Background(), apischema.SourceFromURL(srv.URL)); err == nil {
		t.Fatal("expected status error")
	}
}
