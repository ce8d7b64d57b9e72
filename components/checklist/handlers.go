package checklist

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-hypermedia/pkg/builder"
	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/representor"
)

// handleHome serves the entry document: one link per resource collection,
// resolved from the transition catalog, plus the definition search query.
func (c *Component) handleHome(w http.ResponseWriter, r *http.Request) {
	doc := collection.New(c.builder.HomeHref(), c.opts.Title)
	doc.Collection.Links = append(doc.Collection.Links, collection.Link{
		Rel:    "self",
		Href:   c.builder.HomeHref(),
		Prompt: c.opts.Title,
		Method: http.MethodGet,
	})
	err := c.builder.ApplyTransitions(r.Context(), doc, nil,
		"list-workflow-definitions",
		"list-workflow-instances",
		"list-task-instances",
	)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	doc.Collection.Queries = append(doc.Collection.Queries, collection.Query{
		Rel:    "search",
		Href:   c.builder.CollectionHref(ResourceDefinitions),
		Name:   "search-workflow-definitions",
		Prompt: "Search workflow definitions",
		Data:   []collection.Data{{Name: "name", Prompt: "Name"}},
	})
	c.respond(w, r, doc, render.Options{})
}

func (c *Component) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (c *Component) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	opts := []builder.CollectionOption{c.definitionItemLinks()}
	if name != "" {
		opts = append(opts, searchEcho(ResourceDefinitions, name))
	}
	c.respondList(w, r, ResourceDefinitions, asAny(c.service.Definitions(name)), opts...)
}

func (c *Component) handleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	def, err := c.service.CreateDefinition(definitionInput(values))
	if err != nil {
		c.respondWriteError(w, r, ResourceDefinitions, nil, err)
		return
	}
	c.respondOne(w, r, ResourceDefinitions, def, http.StatusCreated, c.definitionItemLinks())
}

func (c *Component) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := c.service.Definition(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondOne(w, r, ResourceDefinitions, def, http.StatusOK, c.definitionItemLinks())
}

func (c *Component) handleUpdateDefinition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	def, err := c.service.UpdateDefinition(id, definitionInput(values))
	if err != nil {
		c.respondUpdateError(w, r, ResourceDefinitions, id, err)
		return
	}
	c.respondOne(w, r, ResourceDefinitions, def, http.StatusOK, c.definitionItemLinks())
}

func (c *Component) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteDefinition(chi.URLParam(r, "id")); err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondDeleted(w, r, ResourceDefinitions)
}

func (c *Component) handleNewDefinitionForm(w http.ResponseWriter, r *http.Request) {
	c.respondForm(w, r, ResourceDefinitions, nil)
}

func (c *Component) handleEditDefinitionForm(w http.ResponseWriter, r *http.Request) {
	def, err := c.service.Definition(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondForm(w, r, ResourceDefinitions, def)
}

// handleInstantiate runs a definition and answers with the new workflow
// instance. Browsers are redirected straight to it.
func (c *Component) handleInstantiate(w http.ResponseWriter, r *http.Request) {
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	inst, _, err := c.service.Instantiate(chi.URLParam(r, "id"), stringValue(values["user_id"]))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondOne(w, r, ResourceInstances, inst, http.StatusCreated, c.instanceItemLinks())
}

func (c *Component) handleListInstances(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	opts := []builder.CollectionOption{c.instanceItemLinks()}
	if name != "" {
		opts = append(opts, searchEcho(ResourceInstances, name))
	}
	c.respondList(w, r, ResourceInstances, asAny(c.service.Instances(name)), opts...)
}

func (c *Component) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	inst, err := c.service.CreateInstance(instanceInput(values))
	if err != nil {
		c.respondWriteError(w, r, ResourceInstances, nil, err)
		return
	}
	c.respondOne(w, r, ResourceInstances, inst, http.StatusCreated, c.instanceItemLinks())
}

func (c *Component) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := c.service.Instance(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondOne(w, r, ResourceInstances, inst, http.StatusOK, c.instanceItemLinks())
}

func (c *Component) handleUpdateInstance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	inst, err := c.service.UpdateInstance(id, instanceInput(values))
	if err != nil {
		c.respondUpdateError(w, r, ResourceInstances, id, err)
		return
	}
	c.respondOne(w, r, ResourceInstances, inst, http.StatusOK, c.instanceItemLinks())
}

func (c *Component) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteInstance(chi.URLParam(r, "id")); err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondDeleted(w, r, ResourceInstances)
}

func (c *Component) handleNewInstanceForm(w http.ResponseWriter, r *http.Request) {
	c.respondForm(w, r, ResourceInstances, nil)
}

func (c *Component) handleEditInstanceForm(w http.ResponseWriter, r *http.Request) {
	inst, err := c.service.Instance(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondForm(w, r, ResourceInstances, inst)
}

func (c *Component) handleListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("name"))
	workflow := strings.TrimSpace(query.Get("workflow"))

	var tasks []TaskInstance
	if workflow != "" {
		tasks = c.service.TasksForWorkflow(workflow)
		if name != "" {
			kept := tasks[:0]
			for _, task := range tasks {
				if matchName(task.Name, name) {
					kept = append(kept, task)
				}
			}
			tasks = kept
		}
	} else {
		tasks = c.service.Tasks(name)
	}

	opts := []builder.CollectionOption{c.taskItemLinks()}
	filters := url.Values{}
	if name != "" {
		filters.Set("name", name)
	}
	if workflow != "" {
		filters.Set("workflow", workflow)
	}
	if len(filters) > 0 {
		opts = append(opts, builder.WithHref("/"+ResourceTasks+"/?"+filters.Encode()))
	}
	c.respondList(w, r, ResourceTasks, asAny(tasks), opts...)
}

func (c *Component) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	task, err := c.service.CreateTask(taskInput(values))
	if err != nil {
		c.respondWriteError(w, r, ResourceTasks, nil, err)
		return
	}
	c.respondOne(w, r, ResourceTasks, task, http.StatusCreated, c.taskItemLinks())
}

func (c *Component) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := c.service.Task(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondOne(w, r, ResourceTasks, task, http.StatusOK, c.taskItemLinks())
}

func (c *Component) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	values, err := decodePayload(r)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	task, err := c.service.UpdateTask(id, taskInput(values))
	if err != nil {
		c.respondUpdateError(w, r, ResourceTasks, id, err)
		return
	}
	c.respondOne(w, r, ResourceTasks, task, http.StatusOK, c.taskItemLinks())
}

func (c *Component) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteTask(chi.URLParam(r, "id")); err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondDeleted(w, r, ResourceTasks)
}

func (c *Component) handleNewTaskForm(w http.ResponseWriter, r *http.Request) {
	c.respondForm(w, r, ResourceTasks, nil)
}

func (c *Component) handleEditTaskForm(w http.ResponseWriter, r *http.Request) {
	task, err := c.service.Task(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondForm(w, r, ResourceTasks, task)
}

func (c *Component) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := c.service.CompleteTask(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondTaskAction(w, r, task)
}

func (c *Component) handleUndoCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := c.service.UndoCompleteTask(chi.URLParam(r, "id"))
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respondTaskAction(w, r, task)
}

// respond writes the document through the negotiator, attaching the
// component's hidden form fields.
func (c *Component) respond(w http.ResponseWriter, r *http.Request, doc *collection.Document, options render.Options) {
	if len(c.opts.Hidden) > 0 {
		options.Hidden = render.MergeHiddenFields(c.opts.Hidden)
	}
	if err := c.responder.Respond(w, r, doc, options); err != nil {
		c.logger.Error("checklist: write response", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func (c *Component) respondList(w http.ResponseWriter, r *http.Request, resource string, instances []any, options ...builder.CollectionOption) {
	doc, err := c.builder.BuildCollection(resource, instances, options...)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respond(w, r, doc, render.Options{})
}

func (c *Component) respondOne(w http.ResponseWriter, r *http.Request, resource string, instance any, status int, options ...builder.CollectionOption) {
	doc, err := c.builder.BuildCollection(resource, []any{instance}, options...)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	c.respond(w, r, doc, render.Options{Status: status})
}

func (c *Component) respondForm(w http.ResponseWriter, r *http.Request, resource string, instance any) {
	doc, err := c.builder.BuildForm(resource, instance)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	prefillTaskLines(doc, instance)
	c.respond(w, r, doc, render.Options{})
}

// respondDeleted answers a successful delete: browsers land back on the
// collection, API clients get 204.
func (c *Component) respondDeleted(w http.ResponseWriter, r *http.Request, resource string) {
	if representor.ParseAccept(r.Header.Get("Accept")) == representor.HTMLMediaType {
		http.Redirect(w, r, c.builder.CollectionHref(resource), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondTaskAction answers complete / undo-complete: browsers are sent to
// the task page so a refresh cannot repeat the action, API clients get the
// updated task document.
func (c *Component) respondTaskAction(w http.ResponseWriter, r *http.Request, task TaskInstance) {
	if representor.ParseAccept(r.Header.Get("Accept")) == representor.HTMLMediaType {
		http.Redirect(w, r, c.builder.ItemHref(ResourceTasks, task.ID), http.StatusSeeOther)
		return
	}
	c.respondOne(w, r, ResourceTasks, task, http.StatusOK, c.taskItemLinks())
}

// respondError renders a failure as an error document with matching status.
func (c *Component) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := representor.StatusCodeFrom(err, http.StatusInternalServerError)
	if errors.Is(err, ErrNotFound) {
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		c.logger.Error("checklist: request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	doc := c.builder.BuildError(status, http.StatusText(status), err.Error(), r.URL.Path)
	c.respond(w, r, doc, render.Options{Status: status})
}

// respondWriteError re-renders the create form with validation feedback, or
// falls through to a plain error document.
func (c *Component) respondWriteError(w http.ResponseWriter, r *http.Request, resource string, instance any, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.respondInvalid(w, r, resource, instance, verr)
		return
	}
	c.respondError(w, r, err)
}

// respondUpdateError is respondWriteError for updates: the edit form is
// re-rendered with the stored instance when validation fails.
func (c *Component) respondUpdateError(w http.ResponseWriter, r *http.Request, resource, id string, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		c.respondError(w, r, err)
		return
	}
	instance, lookupErr := c.currentInstance(resource, id)
	if lookupErr != nil {
		c.respondError(w, r, lookupErr)
		return
	}
	c.respondInvalid(w, r, resource, instance, verr)
}

func (c *Component) currentInstance(resource, id string) (any, error) {
	switch resource {
	case ResourceDefinitions:
		return c.service.Definition(id)
	case ResourceInstances:
		return c.service.Instance(id)
	default:
		return c.service.Task(id)
	}
}

// respondInvalid answers a rejected write: a form document carrying the
// error block, field messages attached for page rendering.
func (c *Component) respondInvalid(w http.ResponseWriter, r *http.Request, resource string, instance any, verr *ValidationError) {
	doc, err := c.builder.BuildForm(resource, instance)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	prefillTaskLines(doc, instance)
	doc.Error = &collection.Error{
		Title:   "Validation Failed",
		Code:    http.StatusUnprocessableEntity,
		Message: verr.Error(),
	}
	fields, form := splitFieldErrors(verr.Fields)
	c.respond(w, r, doc, render.Options{
		Status:      http.StatusUnprocessableEntity,
		FieldErrors: fields,
		FormErrors:  form,
	})
}

// definitionItemLinks adds the instantiate affordance to definition items.
func (c *Component) definitionItemLinks() builder.CollectionOption {
	return builder.WithPerItemLinks(func(instance any) []collection.Link {
		def, ok := instance.(WorkflowDefinition)
		if !ok {
			return nil
		}
		return []collection.Link{{
			Rel:    "instantiate",
			Href:   c.builder.ItemHref(ResourceDefinitions, def.ID) + "instantiate",
			Prompt: "Start Checklist",
			Method: http.MethodPost,
		}}
	})
}

// instanceItemLinks points each workflow instance at its task list.
func (c *Component) instanceItemLinks() builder.CollectionOption {
	return builder.WithPerItemLinks(func(instance any) []collection.Link {
		inst, ok := instance.(WorkflowInstance)
		if !ok {
			return nil
		}
		return []collection.Link{{
			Rel:    "tasks",
			Href:   c.builder.CollectionHref(ResourceTasks) + "?workflow=" + url.QueryEscape(inst.ID),
			Prompt: "Checklist tasks",
			Method: http.MethodGet,
		}}
	})
}

// taskItemLinks points each task at its parent workflow instance.
func (c *Component) taskItemLinks() builder.CollectionOption {
	return builder.WithPerItemLinks(func(instance any) []collection.Link {
		task, ok := instance.(TaskInstance)
		if !ok {
			return nil
		}
		return []collection.Link{{
			Rel:    "workflow-instance",
			Href:   c.builder.ItemHref(ResourceInstances, task.WorkflowID),
			Prompt: "Parent workflow",
			Method: http.MethodGet,
		}}
	})
}

// prefillTaskLines copies an edit-form definition's tasks into the textarea
// field, one name per line, the same format the create form accepts. The
// descriptor override that declares the textarea runs on the prototype and
// cannot see the instance.
func prefillTaskLines(doc *collection.Document, instance any) {
	def, ok := instance.(WorkflowDefinition)
	if !ok || len(def.Tasks) == 0 {
		return
	}
	lines := make([]string, 0, len(def.Tasks))
	for _, task := range def.Tasks {
		lines = append(lines, task.Name)
	}
	for i := range doc.Templates {
		for j, d := range doc.Templates[i].Data {
			if d.Name == "task_definitions" {
				doc.Templates[i].Data[j].Value = strings.Join(lines, "\n")
			}
		}
	}
}

func searchEcho(resource, name string) builder.CollectionOption {
	return builder.WithHref("/" + resource + "/?name=" + url.QueryEscape(name))
}

func splitFieldErrors(all map[string][]string) (map[string][]string, []string) {
	if len(all) == 0 {
		return nil, nil
	}
	fields := make(map[string][]string, len(all))
	var form []string
	for name, messages := range all {
		if name == "" {
			form = append(form, messages...)
			continue
		}
		fields[name] = append([]string(nil), messages...)
	}
	if len(fields) == 0 {
		fields = nil
	}
	return fields, form
}

func asAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
