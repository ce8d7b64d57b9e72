// Package testsupport holds fixture and golden-file helpers shared by tests
// across the module.
package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// MustLoadCollection loads a golden file into a collection document.
func MustLoadCollection(t *testing.T, path string) *collection.Document {
	t.Helper()

	data := MustReadGolden(t, path)
	var doc collection.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal collection golden: %v", err)
	}
	return &doc
}

// WriteCollectionGolden writes a document golden when UPDATE_GOLDENS is set.
// Output is indented so snapshot diffs stay reviewable.
func WriteCollectionGolden(t *testing.T, path string, doc *collection.Document) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal collection golden: %v", err)
	}
	writeFile(t, path, payload)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents. Tests
// can assert the renderer returns and writes the same payload without
// duplicating buffer setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
