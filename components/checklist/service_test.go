package checklist

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	}
}

// testIDFunc hands out sequential ids per prefix so hrefs are stable.
func testIDFunc() func(prefix string) string {
	counts := map[string]int{}
	return func(prefix string) string {
		counts[prefix]++
		return fmt.Sprintf("%s%08d", prefix, counts[prefix])
	}
}

func newTestService() *Service {
	return NewService(NewStore(), WithNow(testClock()), WithIDFunc(testIDFunc()))
}

func mustCreateDefinition(t *testing.T, svc *Service) WorkflowDefinition {
	t.Helper()
	def, err := svc.CreateDefinition(DefinitionInput{
		Name:        "Release checklist",
		Description: "Everything before shipping",
		Tasks: []TaskDefinition{
			{Name: "Write the changelog", Order: 1},
			{Name: "Tag the release", Order: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateDefinition: %v", err)
	}
	return def
}

func TestCreateDefinitionAssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)

	if def.ID != "def_00000001" {
		t.Fatalf("unexpected id %q", def.ID)
	}
	if !def.CreatedAt.Equal(testClock()()) {
		t.Fatalf("unexpected created_at %v", def.CreatedAt)
	}

	stored, err := svc.Definition(def.ID)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if diff := cmp.Diff(def, stored); diff != "" {
		t.Fatalf("stored definition mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefinitionNormalizesTasks(t *testing.T) {
	svc := newTestService()
	def, err := svc.CreateDefinition(DefinitionInput{
		Name: "Onboarding",
		Tasks: []TaskDefinition{
			{Name: "  Badge  "},
			{Name: ""},
			{Name: "Laptop", Order: 5},
			{Name: "Accounts"},
		},
	})
	if err != nil {
		t.Fatalf("CreateDefinition: %v", err)
	}

	want := []TaskDefinition{
		{Name: "Badge", Order: 1},
		{Name: "Laptop", Order: 5},
		{Name: "Accounts", Order: 6},
	}
	if diff := cmp.Diff(want, def.Tasks); diff != "" {
		t.Fatalf("normalized tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefinitionRequiresName(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateDefinition(DefinitionInput{Name: "   "})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := verr.Fields["name"]; len(got) != 1 || got[0] != "name is required" {
		t.Fatalf("unexpected field errors %v", verr.Fields)
	}
}

func TestInstantiateCopiesDefinitionTasks(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)

	inst, tasks, err := svc.Instantiate(def.ID, "ada")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	if inst.ID != "wf_00000001" {
		t.Fatalf("unexpected instance id %q", inst.ID)
	}
	if inst.Name != def.Name {
		t.Fatalf("instance name %q, want definition name %q", inst.Name, def.Name)
	}
	if inst.DefinitionID != def.ID {
		t.Fatalf("unexpected definition reference %q", inst.DefinitionID)
	}
	if inst.Status != WorkflowStatusActive {
		t.Fatalf("status %q, want %q", inst.Status, WorkflowStatusActive)
	}
	if inst.UserID != "ada" {
		t.Fatalf("unexpected user %q", inst.UserID)
	}
	if inst.ShareToken == "" {
		t.Fatal("expected a share token")
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if task.WorkflowID != inst.ID {
			t.Fatalf("task %d workflow %q, want %q", i, task.WorkflowID, inst.ID)
		}
		if task.Status != TaskStatusPending {
			t.Fatalf("task %d status %q, want pending", i, task.Status)
		}
	}
	if tasks[0].Name != "Write the changelog" || tasks[1].Name != "Tag the release" {
		t.Fatalf("unexpected task order: %q, %q", tasks[0].Name, tasks[1].Name)
	}

	stored := svc.TasksForWorkflow(inst.ID)
	if diff := cmp.Diff(tasks, stored); diff != "" {
		t.Fatalf("stored tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestInstantiateUnknownDefinition(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Instantiate("def_missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteAndUndoCompleteTask(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)
	_, tasks, err := svc.Instantiate(def.ID, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	completed, err := svc.CompleteTask(tasks[0].ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if completed.Status != TaskStatusCompleted {
		t.Fatalf("status %q, want completed", completed.Status)
	}

	// completing twice stays completed
	again, err := svc.CompleteTask(tasks[0].ID)
	if err != nil {
		t.Fatalf("CompleteTask twice: %v", err)
	}
	if again.Status != TaskStatusCompleted {
		t.Fatalf("status %q after second complete", again.Status)
	}

	reopened, err := svc.UndoCompleteTask(tasks[0].ID)
	if err != nil {
		t.Fatalf("UndoCompleteTask: %v", err)
	}
	if reopened.Status != TaskStatusPending {
		t.Fatalf("status %q, want pending", reopened.Status)
	}
}

func TestCreateInstanceRequiresExistingDefinition(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateInstance(InstanceInput{Name: "Solo run", DefinitionID: "def_missing"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["workflow_definition_id"]; !ok {
		t.Fatalf("expected workflow_definition_id error, got %v", verr.Fields)
	}
}

func TestUpdateInstanceKeepsStatusWhenBlank(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)
	inst, _, err := svc.Instantiate(def.ID, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	updated, err := svc.UpdateInstance(inst.ID, InstanceInput{Name: "Renamed run"})
	if err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}
	if updated.Name != "Renamed run" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
	if updated.Status != WorkflowStatusActive {
		t.Fatalf("blank status overwrote stored one: %q", updated.Status)
	}
	if updated.DefinitionID != def.ID {
		t.Fatalf("blank definition id overwrote stored one: %q", updated.DefinitionID)
	}

	archived, err := svc.UpdateInstance(inst.ID, InstanceInput{Name: "Renamed run", Status: WorkflowStatusArchived})
	if err != nil {
		t.Fatalf("UpdateInstance archived: %v", err)
	}
	if archived.Status != WorkflowStatusArchived {
		t.Fatalf("status %q, want archived", archived.Status)
	}
}

func TestUpdateInstanceRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)
	inst, _, err := svc.Instantiate(def.ID, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	_, err = svc.UpdateInstance(inst.ID, InstanceInput{Name: "Run", Status: "paused"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["status"]; !ok {
		t.Fatalf("expected status error, got %v", verr.Fields)
	}
}

func TestDeleteInstanceRemovesItsTasks(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)
	inst, tasks, err := svc.Instantiate(def.ID, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	if err := svc.DeleteInstance(inst.ID); err != nil {
		t.Fatalf("DeleteInstance: %v", err)
	}
	if _, err := svc.Instance(inst.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("instance still readable: %v", err)
	}
	for _, task := range tasks {
		if _, err := svc.Task(task.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("task %s survived the delete: %v", task.ID, err)
		}
	}
}

func TestCreateTaskAppendsAfterLastPosition(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)
	inst, _, err := svc.Instantiate(def.ID, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	task, err := svc.CreateTask(TaskInput{WorkflowID: inst.ID, Name: "Announce the release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Order != 3 {
		t.Fatalf("order %d, want 3", task.Order)
	}
	if task.Status != TaskStatusPending {
		t.Fatalf("status %q, want pending", task.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateTask(TaskInput{Name: "Orphan"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["workflow_instance_id"]; !ok {
		t.Fatalf("expected workflow_instance_id error, got %v", verr.Fields)
	}
}

func TestSearchFiltersByNameFragment(t *testing.T) {
	svc := newTestService()
	mustCreateDefinition(t, svc)
	if _, err := svc.CreateDefinition(DefinitionInput{Name: "Onboarding"}); err != nil {
		t.Fatalf("CreateDefinition: %v", err)
	}

	hits := svc.Definitions("RELEASE")
	if len(hits) != 1 || hits[0].Name != "Release checklist" {
		t.Fatalf("unexpected search hits %v", hits)
	}
	if all := svc.Definitions(""); len(all) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(all))
	}
	if none := svc.Definitions("payroll"); len(none) != 0 {
		t.Fatalf("expected no hits, got %v", none)
	}
}

func TestUpdateDefinitionReplacesTasks(t *testing.T) {
	svc := newTestService()
	def := mustCreateDefinition(t, svc)

	updated, err := svc.UpdateDefinition(def.ID, DefinitionInput{
		Name:  "Release checklist v2",
		Tasks: []TaskDefinition{{Name: "Ship it"}},
	})
	if err != nil {
		t.Fatalf("UpdateDefinition: %v", err)
	}
	if updated.Name != "Release checklist v2" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
	want := []TaskDefinition{{Name: "Ship it", Order: 1}}
	if diff := cmp.Diff(want, updated.Tasks); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
	if !updated.CreatedAt.Equal(def.CreatedAt) {
		t.Fatal("update touched created_at")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{}
	verr.add("name", "name is required")
	verr.add("", "something else failed")

	msg := verr.Error()
	want := "checklist: something else failed; name: name is required"
	if msg != want {
		t.Fatalf("message %q, want %q", msg, want)
	}
}
