package checklist

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/representor"
)

func TestDecodePayloadTemplateSubmission(t *testing.T) {
	body := `{"template": {"data": [
		{"name": "name", "value": "Release checklist"},
		{"name": "order", "value": 3},
		{"name": "", "value": "dropped"}
	]}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", collection.MediaType)

	values, err := decodePayload(req)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	want := map[string]any{"name": "Release checklist", "order": float64(3)}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayloadPlainObject(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"X","user_id":"ada"}`))
	req.Header.Set("Content-Type", "application/json")

	values, err := decodePayload(req)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if values["name"] != "X" || values["user_id"] != "ada" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestDecodePayloadFormPostSkipsTransportFields(t *testing.T) {
	form := url.Values{}
	form.Set("name", "Daily standup")
	form.Set("_method", "PUT")
	form.Set("_csrf", "abc123")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := decodePayload(req)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	want := map[string]any{"name": "Daily standup"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayloadEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	values, err := decodePayload(req)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}

func TestDecodePayloadRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")

	_, err := decodePayload(req)
	var httpErr representor.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected a 400 error, got %v", err)
	}
}

func TestTaskDefinitionsValueForms(t *testing.T) {
	fromLines := taskDefinitionsValue("Write changelog\n\n  Tag release  \n")
	want := []TaskDefinition{
		{Name: "Write changelog", Order: 1},
		{Name: "Tag release", Order: 2},
	}
	if diff := cmp.Diff(want, fromLines); diff != "" {
		t.Fatalf("line form mismatch (-want +got):\n%s", diff)
	}

	fromArray := taskDefinitionsValue([]any{
		map[string]any{"name": "Write changelog", "order": float64(1)},
		map[string]any{"name": "Tag release", "order": float64(2)},
		"not an object",
	})
	if diff := cmp.Diff(want, fromArray); diff != "" {
		t.Fatalf("array form mismatch (-want +got):\n%s", diff)
	}

	if got := taskDefinitionsValue(nil); got != nil {
		t.Fatalf("nil input produced %v", got)
	}
}

func TestOrderValueConversions(t *testing.T) {
	if got := orderValue("3"); got == nil || *got != 3 {
		t.Fatalf("string order: %v", got)
	}
	if got := orderValue(float64(7)); got == nil || *got != 7 {
		t.Fatalf("float order: %v", got)
	}
	if got := orderValue(""); got != nil {
		t.Fatalf("empty string order: %v", got)
	}
	if got := orderValue(nil); got != nil {
		t.Fatalf("nil order: %v", got)
	}
}
