package checklist

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// Workflow instance states. New instances start active; completed and
// archived are terminal bookkeeping states set by the user.
const (
	WorkflowStatusActive    = "active"
	WorkflowStatusCompleted = "completed"
	WorkflowStatusArchived  = "archived"
)

// Task instance states. Tasks flip between the two through the
// mark-complete / mark-incomplete affordances.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// WorkflowStatuses lists every valid workflow instance status, in the order
// status selectors present them.
var WorkflowStatuses = []string{
	WorkflowStatusActive,
	WorkflowStatusCompleted,
	WorkflowStatusArchived,
}

// TaskDefinition is one step of a workflow definition: a name and its
// position in the checklist.
type TaskDefinition struct {
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

// WorkflowDefinition is a reusable checklist blueprint. Instantiating one
// copies its task definitions into fresh pending task instances.
type WorkflowDefinition struct {
	ID          string
	Name        string
	Description string
	Tasks       []TaskDefinition
	CreatedAt   time.Time
}

// TemplateFieldOverride flattens the task definition list into a textarea,
// one task per line, so the blueprint form stays fillable from a browser.
// Write handlers accept either that line format or a structured array.
func (WorkflowDefinition) TemplateFieldOverride(field string) ([]collection.TemplateData, bool) {
	if field != "task_definitions" {
		return nil, false
	}
	return []collection.TemplateData{{
		Name:   "task_definitions",
		Value:  "",
		Prompt: "Tasks (one per line)",
		Type:   "textarea",
	}}, true
}

// WorkflowInstance is one run of a definition, owned by a user. Its task
// instances carry the actual progress.
type WorkflowInstance struct {
	ID           string
	DefinitionID string
	Name         string
	UserID       string
	Status       string
	ShareToken   string
	CreatedAt    time.Time
}

// TemplateFieldOverride renders status as a closed choice instead of free
// text.
func (WorkflowInstance) TemplateFieldOverride(field string) ([]collection.TemplateData, bool) {
	if field != "status" {
		return nil, false
	}
	return []collection.TemplateData{{
		Name:    "status",
		Value:   "",
		Prompt:  "Status",
		Type:    "select",
		Options: append([]string(nil), WorkflowStatuses...),
	}}, true
}

// TaskInstance is one checklist entry of a workflow instance.
type TaskInstance struct {
	ID         string
	WorkflowID string
	Name       string
	Order      int
	Status     string
	CreatedAt  time.Time
}

// Completed reports whether the task has been ticked off.
func (t TaskInstance) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// ExtraItemLinks advertises the state transition the task currently
// affords: pending tasks can be completed, completed ones reopened.
func (t TaskInstance) ExtraItemLinks(selfHref string) []collection.Link {
	base := strings.TrimRight(selfHref, "/")
	if t.Completed() {
		return []collection.Link{{
			Rel:    "mark-incomplete",
			Href:   base + "/undo-complete",
			Prompt: "Mark as pending",
			Method: http.MethodPost,
		}}
	}
	return []collection.Link{{
		Rel:    "mark-complete",
		Href:   base + "/complete",
		Prompt: "Mark as complete",
		Method: http.MethodPost,
	}}
}

// TemplateFieldOverride drops status from task forms; it only changes
// through the complete / undo-complete affordances.
func (TaskInstance) TemplateFieldOverride(field string) ([]collection.TemplateData, bool) {
	if field != "status" {
		return nil, false
	}
	return nil, true
}

// id prefixes, kept short so hrefs stay readable.
const (
	definitionIDPrefix = "def_"
	instanceIDPrefix   = "wf_"
	taskIDPrefix       = "task_"
	shareTokenPrefix   = "share_"
)

// newID builds a prefixed short identifier, e.g. "wf_9f3c2a41".
func newID(prefix string) string {
	return prefix + uuid.NewString()[:8]
}

// ValidWorkflowStatus reports whether s names a workflow instance state.
func ValidWorkflowStatus(s string) bool {
	switch s {
	case WorkflowStatusActive, WorkflowStatusCompleted, WorkflowStatusArchived:
		return true
	}
	return false
}

// ValidTaskStatus reports whether s names a task instance state.
func ValidTaskStatus(s string) bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}
