package checklist

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the in-memory state behind the component: three id-indexed
// tables guarded by one lock, with insertion order preserved so listings
// stay stable across requests. Values go in and come out by copy.
type Store struct {
	mu sync.RWMutex

	definitions map[string]WorkflowDefinition
	defOrder    []string

	instances map[string]WorkflowInstance
	instOrder []string

	tasks     map[string]TaskInstance
	taskOrder []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		definitions: make(map[string]WorkflowDefinition),
		instances:   make(map[string]WorkflowInstance),
		tasks:       make(map[string]TaskInstance),
	}
}

// InsertDefinition adds a definition under its id.
func (s *Store) InsertDefinition(def WorkflowDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.definitions[def.ID]; exists {
		return fmt.Errorf("checklist: definition %q already exists", def.ID)
	}
	s.definitions[def.ID] = cloneDefinition(def)
	s.defOrder = append(s.defOrder, def.ID)
	return nil
}

// Definition looks up a definition by id.
func (s *Store) Definition(id string) (WorkflowDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.definitions[id]
	if !ok {
		return WorkflowDefinition{}, false
	}
	return cloneDefinition(def), true
}

// Definitions returns every definition in insertion order.
func (s *Store) Definitions() []WorkflowDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WorkflowDefinition, 0, len(s.defOrder))
	for _, id := range s.defOrder {
		out = append(out, cloneDefinition(s.definitions[id]))
	}
	return out
}

// UpdateDefinition replaces a stored definition. It reports whether the id
// existed.
func (s *Store) UpdateDefinition(def WorkflowDefinition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[def.ID]; !ok {
		return false
	}
	s.definitions[def.ID] = cloneDefinition(def)
	return true
}

// DeleteDefinition removes a definition. It reports whether the id existed.
func (s *Store) DeleteDefinition(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[id]; !ok {
		return false
	}
	delete(s.definitions, id)
	s.defOrder = removeID(s.defOrder, id)
	return true
}

// InsertInstance adds a workflow instance under its id.
func (s *Store) InsertInstance(inst WorkflowInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.instances[inst.ID]; exists {
		return fmt.Errorf("checklist: workflow instance %q already exists", inst.ID)
	}
	s.instances[inst.ID] = inst
	s.instOrder = append(s.instOrder, inst.ID)
	return nil
}

// Instance looks up a workflow instance by id.
func (s *Store) Instance(id string) (WorkflowInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	return inst, ok
}

// Instances returns every workflow instance in insertion order.
func (s *Store) Instances() []WorkflowInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WorkflowInstance, 0, len(s.instOrder))
	for _, id := range s.instOrder {
		out = append(out, s.instances[id])
	}
	return out
}

// UpdateInstance replaces a stored workflow instance. It reports whether the
// id existed.
func (s *Store) UpdateInstance(inst WorkflowInstance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[inst.ID]; !ok {
		return false
	}
	s.instances[inst.ID] = inst
	return true
}

// DeleteInstance removes a workflow instance together with its tasks. It
// reports whether the id existed.
func (s *Store) DeleteInstance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return false
	}
	delete(s.instances, id)
	s.instOrder = removeID(s.instOrder, id)

	kept := s.taskOrder[:0]
	for _, taskID := range s.taskOrder {
		if s.tasks[taskID].WorkflowID == id {
			delete(s.tasks, taskID)
			continue
		}
		kept = append(kept, taskID)
	}
	s.taskOrder = kept
	return true
}

// InsertTask adds a task instance under its id.
func (s *Store) InsertTask(task TaskInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("checklist: task instance %q already exists", task.ID)
	}
	s.tasks[task.ID] = task
	s.taskOrder = append(s.taskOrder, task.ID)
	return nil
}

// Task looks up a task instance by id.
func (s *Store) Task(id string) (TaskInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	return task, ok
}

// Tasks returns every task instance in insertion order.
func (s *Store) Tasks() []TaskInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TaskInstance, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		out = append(out, s.tasks[id])
	}
	return out
}

// TasksForWorkflow returns the tasks of one workflow instance sorted by
// their checklist position.
func (s *Store) TasksForWorkflow(workflowID string) []TaskInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []TaskInstance
	for _, id := range s.taskOrder {
		if task := s.tasks[id]; task.WorkflowID == workflowID {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// UpdateTask replaces a stored task instance. It reports whether the id
// existed.
func (s *Store) UpdateTask(task TaskInstance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return false
	}
	s.tasks[task.ID] = task
	return true
}

// DeleteTask removes a task instance. It reports whether the id existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	s.taskOrder = removeID(s.taskOrder, id)
	return true
}

func cloneDefinition(def WorkflowDefinition) WorkflowDefinition {
	out := def
	if def.Tasks != nil {
		out.Tasks = append([]TaskDefinition(nil), def.Tasks...)
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
