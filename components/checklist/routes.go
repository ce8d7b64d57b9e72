package checklist

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-hypermedia/pkg/representor"
)

// routes assembles the component router. Paths mirror the embedded API
// document; the host mounts the result under the base path.
func (c *Component) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(methodOverride)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		c.respondError(w, req, representor.StatusError{
			Code: http.StatusNotFound,
			Err:  fmt.Errorf("checklist: no route for %s", req.URL.Path),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		c.respondError(w, req, representor.StatusError{
			Code: http.StatusMethodNotAllowed,
			Err:  fmt.Errorf("checklist: %s not allowed on %s", req.Method, req.URL.Path),
		})
	})

	r.Get("/", c.handleHome)
	r.Get("/healthz", c.handleHealth)

	r.Route("/"+ResourceDefinitions, func(r chi.Router) {
		r.Get("/", c.handleListDefinitions)
		r.Post("/", c.handleCreateDefinition)
		r.Get("/form", c.handleNewDefinitionForm)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", c.handleGetDefinition)
			r.Put("/", c.handleUpdateDefinition)
			r.Delete("/", c.handleDeleteDefinition)
			r.Get("/form", c.handleEditDefinitionForm)
			r.Post("/instantiate", c.handleInstantiate)
		})
	})

	r.Route("/"+ResourceInstances, func(r chi.Router) {
		r.Get("/", c.handleListInstances)
		r.Post("/", c.handleCreateInstance)
		r.Get("/form", c.handleNewInstanceForm)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", c.handleGetInstance)
			r.Put("/", c.handleUpdateInstance)
			r.Delete("/", c.handleDeleteInstance)
			r.Get("/form", c.handleEditInstanceForm)
		})
	})

	r.Route("/"+ResourceTasks, func(r chi.Router) {
		r.Get("/", c.handleListTasks)
		r.Post("/", c.handleCreateTask)
		r.Get("/form", c.handleNewTaskForm)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", c.handleGetTask)
			r.Put("/", c.handleUpdateTask)
			r.Delete("/", c.handleDeleteTask)
			r.Get("/form", c.handleEditTaskForm)
			r.Post("/complete", c.handleCompleteTask)
			r.Post("/undo-complete", c.handleUndoCompleteTask)
		})
	})

	return r
}

// methodOverride lifts the _method form field into the request method, so
// forms posted by browsers reach the PUT, PATCH and DELETE routes.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err == nil && mediaType == "application/x-www-form-urlencoded" {
				if err := r.ParseForm(); err == nil {
					switch strings.ToUpper(r.PostForm.Get("_method")) {
					case http.MethodPut:
						r.Method = http.MethodPut
					case http.MethodPatch:
						r.Method = http.MethodPatch
					case http.MethodDelete:
						r.Method = http.MethodDelete
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
