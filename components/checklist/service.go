package checklist

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound marks lookups against ids the store does not hold. Handlers
// translate it to a 404 document.
var ErrNotFound = errors.New("not found")

// ValidationError reports why a write was rejected, message lists keyed by
// field name. Messages that belong to no single field sit under the empty
// key and surface at form level.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "checklist: validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		for _, msg := range e.Fields[name] {
			if name == "" {
				parts = append(parts, msg)
				continue
			}
			parts = append(parts, name+": "+msg)
		}
	}
	return "checklist: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// or returns the error when it carries messages and nil otherwise, so
// validators can build up one error and return it unconditionally.
func (e *ValidationError) or() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DefinitionInput carries the writable fields of a workflow definition.
type DefinitionInput struct {
	Name        string
	Description string
	Tasks       []TaskDefinition
}

// InstanceInput carries the writable fields of a workflow instance.
type InstanceInput struct {
	DefinitionID string
	Name         string
	UserID       string
	Status       string
}

// TaskInput carries the writable fields of a task instance. Order is a
// pointer so updates can leave the position untouched.
type TaskInput struct {
	WorkflowID string
	Name       string
	Order      *int
}

// Service implements the tracker's domain operations over a store. All
// methods are safe for concurrent use; the store serializes access.
type Service struct {
	store *Store
	now   func() time.Time
	newID func(prefix string) string
}

// ServiceOption adjusts a Service during construction.
type ServiceOption func(*Service)

// WithNow replaces the clock, pinning CreatedAt stamps in tests.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc replaces the id generator. The function receives the resource
// prefix ("def_", "wf_", "task_", "share_") and must return unique ids.
func WithIDFunc(gen func(prefix string) string) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService builds a Service over the given store. A nil store gets a
// fresh empty one.
func NewService(store *Store, options ...ServiceOption) *Service {
	if store == nil {
		store = NewStore()
	}
	s := &Service{
		store: store,
		now:   time.Now,
		newID: newID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store exposes the backing store, e.g. to share it between components.
func (s *Service) Store() *Store {
	return s.store
}

// CreateDefinition validates and stores a new workflow definition.
func (s *Service) CreateDefinition(input DefinitionInput) (WorkflowDefinition, error) {
	if err := validateDefinition(input); err != nil {
		return WorkflowDefinition{}, err
	}
	def := WorkflowDefinition{
		ID:          s.newID(definitionIDPrefix),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Tasks:       normalizeTaskDefinitions(input.Tasks),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.InsertDefinition(def); err != nil {
		return WorkflowDefinition{}, err
	}
	return def, nil
}

// Definitions lists workflow definitions, optionally filtered by a
// case-insensitive name fragment.
func (s *Service) Definitions(name string) []WorkflowDefinition {
	defs := s.store.Definitions()
	if name == "" {
		return defs
	}
	out := defs[:0]
	for _, def := range defs {
		if matchName(def.Name, name) {
			out = append(out, def)
		}
	}
	return out
}

// Definition fetches one workflow definition.
func (s *Service) Definition(id string) (WorkflowDefinition, error) {
	def, ok := s.store.Definition(id)
	if !ok {
		return WorkflowDefinition{}, fmt.Errorf("checklist: workflow definition %q: %w", id, ErrNotFound)
	}
	return def, nil
}

// UpdateDefinition replaces the writable fields of a definition.
func (s *Service) UpdateDefinition(id string, input DefinitionInput) (WorkflowDefinition, error) {
	def, err := s.Definition(id)
	if err != nil {
		return WorkflowDefinition{}, err
	}
	if err := validateDefinition(input); err != nil {
		return WorkflowDefinition{}, err
	}
	def.Name = strings.TrimSpace(input.Name)
	def.Description = strings.TrimSpace(input.Description)
	def.Tasks = normalizeTaskDefinitions(input.Tasks)
	if !s.store.UpdateDefinition(def) {
		return WorkflowDefinition{}, fmt.Errorf("checklist: workflow definition %q: %w", id, ErrNotFound)
	}
	return def, nil
}

// DeleteDefinition removes a definition. Existing instances keep running;
// they only reference the definition by id.
func (s *Service) DeleteDefinition(id string) error {
	if !s.store.DeleteDefinition(id) {
		return fmt.Errorf("checklist: workflow definition %q: %w", id, ErrNotFound)
	}
	return nil
}

// Instantiate runs a definition: it creates a workflow instance named after
// the definition plus one pending task instance per task definition, in
// checklist order.
func (s *Service) Instantiate(definitionID, userID string) (WorkflowInstance, []TaskInstance, error) {
	def, ok := s.store.Definition(definitionID)
	if !ok {
		return WorkflowInstance{}, nil, fmt.Errorf("checklist: workflow definition %q: %w", definitionID, ErrNotFound)
	}

	now := s.now().UTC()
	inst := WorkflowInstance{
		ID:           s.newID(instanceIDPrefix),
		DefinitionID: def.ID,
		Name:         def.Name,
		UserID:       strings.TrimSpace(userID),
		Status:       WorkflowStatusActive,
		ShareToken:   s.newID(shareTokenPrefix),
		CreatedAt:    now,
	}
	if err := s.store.InsertInstance(inst); err != nil {
		return WorkflowInstance{}, nil, err
	}

	tasks := make([]TaskInstance, 0, len(def.Tasks))
	for _, td := range def.Tasks {
		task := TaskInstance{
			ID:         s.newID(taskIDPrefix),
			WorkflowID: inst.ID,
			Name:       td.Name,
			Order:      td.Order,
			Status:     TaskStatusPending,
			CreatedAt:  now,
		}
		if err := s.store.InsertTask(task); err != nil {
			return WorkflowInstance{}, nil, err
		}
		tasks = append(tasks, task)
	}
	return inst, tasks, nil
}

// CreateInstance stores a workflow instance directly, without copying tasks
// from a definition. Instantiate is the usual entry point.
func (s *Service) CreateInstance(input InstanceInput) (WorkflowInstance, error) {
	if err := s.validateInstance(input, false); err != nil {
		return WorkflowInstance{}, err
	}
	status := input.Status
	if status == "" {
		status = WorkflowStatusActive
	}
	inst := WorkflowInstance{
		ID:           s.newID(instanceIDPrefix),
		DefinitionID: strings.TrimSpace(input.DefinitionID),
		Name:         strings.TrimSpace(input.Name),
		UserID:       strings.TrimSpace(input.UserID),
		Status:       status,
		ShareToken:   s.newID(shareTokenPrefix),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertInstance(inst); err != nil {
		return WorkflowInstance{}, err
	}
	return inst, nil
}

// Instances lists workflow instances, optionally filtered by name fragment.
func (s *Service) Instances(name string) []WorkflowInstance {
	insts := s.store.Instances()
	if name == "" {
		return insts
	}
	out := insts[:0]
	for _, inst := range insts {
		if matchName(inst.Name, name) {
			out = append(out, inst)
		}
	}
	return out
}

// Instance fetches one workflow instance.
func (s *Service) Instance(id string) (WorkflowInstance, error) {
	inst, ok := s.store.Instance(id)
	if !ok {
		return WorkflowInstance{}, fmt.Errorf("checklist: workflow instance %q: %w", id, ErrNotFound)
	}
	return inst, nil
}

// UpdateInstance replaces the writable fields of a workflow instance. An
// empty status keeps the current one.
func (s *Service) UpdateInstance(id string, input InstanceInput) (WorkflowInstance, error) {
	inst, err := s.Instance(id)
	if err != nil {
		return WorkflowInstance{}, err
	}
	if err := s.validateInstance(input, true); err != nil {
		return WorkflowInstance{}, err
	}
	inst.Name = strings.TrimSpace(input.Name)
	inst.UserID = strings.TrimSpace(input.UserID)
	if input.Status != "" {
		inst.Status = input.Status
	}
	if definitionID := strings.TrimSpace(input.DefinitionID); definitionID != "" {
		inst.DefinitionID = definitionID
	}
	if !s.store.UpdateInstance(inst) {
		return WorkflowInstance{}, fmt.Errorf("checklist: workflow instance %q: %w", id, ErrNotFound)
	}
	return inst, nil
}

// DeleteInstance removes a workflow instance and its task instances.
func (s *Service) DeleteInstance(id string) error {
	if !s.store.DeleteInstance(id) {
		return fmt.Errorf("checklist: workflow instance %q: %w", id, ErrNotFound)
	}
	return nil
}

// CreateTask appends a task instance to a workflow. Without an explicit
// order the task lands after the workflow's current last position.
func (s *Service) CreateTask(input TaskInput) (TaskInstance, error) {
	if err := s.validateTask(input, false); err != nil {
		return TaskInstance{}, err
	}
	workflowID := strings.TrimSpace(input.WorkflowID)
	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		for _, task := range s.store.TasksForWorkflow(workflowID) {
			if task.Order >= order {
				order = task.Order + 1
			}
		}
		if order == 0 {
			order = 1
		}
	}
	task := TaskInstance{
		ID:         s.newID(taskIDPrefix),
		WorkflowID: workflowID,
		Name:       strings.TrimSpace(input.Name),
		Order:      order,
		Status:     TaskStatusPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.InsertTask(task); err != nil {
		return TaskInstance{}, err
	}
	return task, nil
}

// Tasks lists task instances, optionally filtered by name fragment.
func (s *Service) Tasks(name string) []TaskInstance {
	tasks := s.store.Tasks()
	if name == "" {
		return tasks
	}
	out := tasks[:0]
	for _, task := range tasks {
		if matchName(task.Name, name) {
			out = append(out, task)
		}
	}
	return out
}

// TasksForWorkflow lists the tasks of one workflow instance in checklist
// order.
func (s *Service) TasksForWorkflow(workflowID string) []TaskInstance {
	return s.store.TasksForWorkflow(workflowID)
}

// Task fetches one task instance.
func (s *Service) Task(id string) (TaskInstance, error) {
	task, ok := s.store.Task(id)
	if !ok {
		return TaskInstance{}, fmt.Errorf("checklist: task instance %q: %w", id, ErrNotFound)
	}
	return task, nil
}

// UpdateTask replaces the writable fields of a task instance. A nil order
// keeps the current position; status only changes through CompleteTask and
// UndoCompleteTask.
func (s *Service) UpdateTask(id string, input TaskInput) (TaskInstance, error) {
	task, err := s.Task(id)
	if err != nil {
		return TaskInstance{}, err
	}
	if err := s.validateTask(input, true); err != nil {
		return TaskInstance{}, err
	}
	task.Name = strings.TrimSpace(input.Name)
	if input.Order != nil {
		task.Order = *input.Order
	}
	if workflowID := strings.TrimSpace(input.WorkflowID); workflowID != "" {
		task.WorkflowID = workflowID
	}
	if !s.store.UpdateTask(task) {
		return TaskInstance{}, fmt.Errorf("checklist: task instance %q: %w", id, ErrNotFound)
	}
	return task, nil
}

// DeleteTask removes a task instance.
func (s *Service) DeleteTask(id string) error {
	if !s.store.DeleteTask(id) {
		return fmt.Errorf("checklist: task instance %q: %w", id, ErrNotFound)
	}
	return nil
}

// CompleteTask marks a task completed. Completing a completed task is a
// no-op, not an error.
func (s *Service) CompleteTask(id string) (TaskInstance, error) {
	return s.setTaskStatus(id, TaskStatusCompleted)
}

// UndoCompleteTask returns a task to pending.
func (s *Service) UndoCompleteTask(id string) (TaskInstance, error) {
	return s.setTaskStatus(id, TaskStatusPending)
}

func (s *Service) setTaskStatus(id, status string) (TaskInstance, error) {
	task, err := s.Task(id)
	if err != nil {
		return TaskInstance{}, err
	}
	task.Status = status
	if !s.store.UpdateTask(task) {
		return TaskInstance{}, fmt.Errorf("checklist: task instance %q: %w", id, ErrNotFound)
	}
	return task, nil
}

func validateDefinition(input DefinitionInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "name is required")
	}
	for _, td := range input.Tasks {
		if td.Order < 0 {
			verr.add("task_definitions", fmt.Sprintf("task %q: order must not be negative", td.Name))
		}
	}
	return verr.or()
}

func (s *Service) validateInstance(input InstanceInput, update bool) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "name is required")
	}
	if input.Status != "" && !ValidWorkflowStatus(input.Status) {
		verr.add("status", fmt.Sprintf("status must be one of %s", strings.Join(WorkflowStatuses, ", ")))
	}
	definitionID := strings.TrimSpace(input.DefinitionID)
	switch {
	case definitionID == "" && !update:
		verr.add("workflow_definition_id", "workflow definition id is required")
	case definitionID != "":
		if _, ok := s.store.Definition(definitionID); !ok {
			verr.add("workflow_definition_id", fmt.Sprintf("unknown workflow definition %q", definitionID))
		}
	}
	return verr.or()
}

func (s *Service) validateTask(input TaskInput, update bool) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "name is required")
	}
	if input.Order != nil && *input.Order < 0 {
		verr.add("order", "order must not be negative")
	}
	workflowID := strings.TrimSpace(input.WorkflowID)
	switch {
	case workflowID == "" && !update:
		verr.add("workflow_instance_id", "workflow instance id is required")
	case workflowID != "":
		if _, ok := s.store.Instance(workflowID); !ok {
			verr.add("workflow_instance_id", fmt.Sprintf("unknown workflow instance %q", workflowID))
		}
	}
	return verr.or()
}

// normalizeTaskDefinitions trims names, drops empty rows and assigns
// positions to rows that declared none, preserving the given order.
func normalizeTaskDefinitions(tasks []TaskDefinition) []TaskDefinition {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]TaskDefinition, 0, len(tasks))
	next := 1
	for _, td := range tasks {
		name := strings.TrimSpace(td.Name)
		if name == "" {
			continue
		}
		order := td.Order
		if order <= 0 {
			order = next
		}
		if order >= next {
			next = order + 1
		}
		out = append(out, TaskDefinition{Name: name, Order: order})
	}
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func matchName(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
