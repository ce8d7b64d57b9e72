// Package representor writes negotiated responses: the canonical
// Collection+JSON encoding for API clients and a rendered HTML page for
// browsers, including the post-write redirect browsers need to land on the
// resource they just created or updated.
package representor

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/render/html"
)

// Responder dispatches documents to the renderer matching the request's
// Accept header.
type Responder struct {
	renderers *render.Registry
}

// Option adjusts responder construction.
type Option func(*Responder)

// WithRegistry replaces the renderer registry. The registry must resolve
// both collection.MediaType and HTMLMediaType for Respond to serve every
// negotiation outcome.
func WithRegistry(registry *render.Registry) Option {
	return func(r *Responder) {
		if registry != nil {
			r.renderers = registry
		}
	}
}

// New builds a responder. Without options it registers the shipped JSON and
// HTML renderers.
func New(options ...Option) (*Responder, error) {
	responder := &Responder{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(responder)
	}

	if responder.renderers == nil {
		registry := render.NewRegistry()
		if err := registry.Register(render.NewJSON()); err != nil {
			return nil, fmt.Errorf("representor: %w", err)
		}
		htmlRenderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("representor: %w", err)
		}
		if err := registry.Register(htmlRenderer); err != nil {
			return nil, fmt.Errorf("representor: %w", err)
		}
		responder.renderers = registry
	}
	return responder, nil
}

// Renderers exposes the registry so callers can add or swap renderers.
func (re *Responder) Renderers() *render.Registry {
	return re.renderers
}

// Respond negotiates and writes doc. The transport status comes from
// options.Status, overridden by doc.Error.Code when an error is attached so
// body and status cannot disagree. On the HTML branch a successful write
// answers with 303 See Other to the first item instead of a page.
//
// Respond renders before touching the ResponseWriter, so on error the caller
// can still send a plain failure response.
func (re *Responder) Respond(w http.ResponseWriter, r *http.Request, doc *collection.Document, options render.Options) error {
	if w == nil || r == nil {
		return fmt.Errorf("representor: response writer and request are required")
	}
	if doc == nil {
		return fmt.Errorf("representor: document is nil")
	}

	status := options.Status
	if doc.Error != nil {
		status = doc.Error.Code
	}
	if status == 0 {
		status = http.StatusOK
	}
	options.Status = status

	mediaType := ParseAccept(r.Header.Get("Accept"))
	if mediaType == HTMLMediaType {
		if target := writeRedirectTarget(r.Method, status, doc); target != "" {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return nil
		}
	}

	renderer, err := re.renderers.ForMediaType(mediaType)
	if err != nil {
		return fmt.Errorf("representor: %w", err)
	}

	body, err := renderer.Render(r.Context(), doc, options)
	if err != nil {
		return fmt.Errorf("representor: render %s: %w", renderer.Name(), err)
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("representor: write response: %w", err)
	}
	return nil
}

// writeRedirectTarget returns where a browser should land after a successful
// write: any 201, or a 2xx PUT/PATCH, redirects to the first item. Empty
// means render in place.
func writeRedirectTarget(method string, status int, doc *collection.Document) string {
	created := status == http.StatusCreated
	updated := status >= 200 && status < 300 &&
		(method == http.MethodPut || method == http.MethodPatch)
	if !created && !updated {
		return ""
	}
	return doc.FirstItemHref()
}
