package checklist

import (
	"github.com/goliatone/go-hypermedia/pkg/schema"
)

// Resource names, used as href segments and registry keys.
const (
	ResourceDefinitions = "workflow-definitions"
	ResourceInstances   = "workflow-instances"
	ResourceTasks       = "task-instances"
)

// RegisterShapes installs the tracker's three resource shapes. The builder
// derives items, templates and search queries from these tables.
func RegisterShapes(registry *schema.Registry) error {
	for _, shape := range []schema.Shape{DefinitionShape(), InstanceShape(), TaskShape()} {
		if err := registry.Register(shape); err != nil {
			return err
		}
	}
	return nil
}

// DefinitionShape describes workflow definitions. The task definition list
// opts into item data so blueprints show their steps.
func DefinitionShape() schema.Shape {
	return schema.Shape{
		Name:      ResourceDefinitions,
		Title:     "Workflow Definitions",
		ItemRel:   "workflow-definition",
		Prototype: WorkflowDefinition{},
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindText, Get: fieldOf(func(d WorkflowDefinition) any { return d.ID })},
			{Name: "name", Kind: schema.KindText, Required: true, MaxLength: intPtr(200), Get: fieldOf(func(d WorkflowDefinition) any { return d.Name })},
			{Name: "description", Kind: schema.KindText, Hint: "textarea", Get: fieldOf(func(d WorkflowDefinition) any { return d.Description })},
			{Name: "task_definitions", Kind: schema.KindArray, Prompt: "Tasks", IncludeInItem: true, Get: fieldOf(func(d WorkflowDefinition) any { return d.Tasks })},
			{Name: "created_at", Kind: schema.KindDatetime, Hint: "datetime", Get: fieldOf(func(d WorkflowDefinition) any { return d.CreatedAt })},
		},
		Queries: []schema.ShapeQuery{searchQuery("search-workflow-definitions", "Search workflow definitions")},
	}
}

// InstanceShape describes workflow instances. The prototype's field
// override turns status into a select; share_token stays out of templates
// through the default skip list.
func InstanceShape() schema.Shape {
	return schema.Shape{
		Name:      ResourceInstances,
		Title:     "Workflow Instances",
		ItemRel:   "workflow-instance",
		Prototype: WorkflowInstance{},
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindText, Get: fieldOf(func(w WorkflowInstance) any { return w.ID })},
			{Name: "workflow_definition_id", Kind: schema.KindText, Required: true, Get: fieldOf(func(w WorkflowInstance) any { return w.DefinitionID })},
			{Name: "name", Kind: schema.KindText, Required: true, MaxLength: intPtr(200), Get: fieldOf(func(w WorkflowInstance) any { return w.Name })},
			{Name: "user_id", Kind: schema.KindText, Get: fieldOf(func(w WorkflowInstance) any { return w.UserID })},
			{Name: "status", Kind: schema.KindText, Get: fieldOf(func(w WorkflowInstance) any { return w.Status })},
			{Name: "share_token", Kind: schema.KindText, Get: fieldOf(func(w WorkflowInstance) any { return w.ShareToken })},
			{Name: "created_at", Kind: schema.KindDatetime, Hint: "datetime", Get: fieldOf(func(w WorkflowInstance) any { return w.CreatedAt })},
		},
		Queries: []schema.ShapeQuery{searchQuery("search-workflow-instances", "Search workflow instances")},
	}
}

// TaskShape describes task instances. Status is visible on items but
// dropped from templates by the prototype hook; the complete and
// undo-complete affordances own it.
func TaskShape() schema.Shape {
	return schema.Shape{
		Name:      ResourceTasks,
		Title:     "Task Instances",
		ItemRel:   "task-instance",
		Prototype: TaskInstance{},
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindText, Get: fieldOf(func(t TaskInstance) any { return t.ID })},
			{Name: "workflow_instance_id", Kind: schema.KindText, Required: true, Get: fieldOf(func(t TaskInstance) any { return t.WorkflowID })},
			{Name: "name", Kind: schema.KindText, Required: true, MaxLength: intPtr(200), Get: fieldOf(func(t TaskInstance) any { return t.Name })},
			{Name: "order", Kind: schema.KindNumber, Min: floatPtr(0), Get: fieldOf(func(t TaskInstance) any { return t.Order })},
			{Name: "status", Kind: schema.KindText, Get: fieldOf(func(t TaskInstance) any { return t.Status })},
			{Name: "created_at", Kind: schema.KindDatetime, Hint: "datetime", Get: fieldOf(func(t TaskInstance) any { return t.CreatedAt })},
		},
		Queries: []schema.ShapeQuery{searchQuery("search-task-instances", "Search task instances")},
	}
}

// searchQuery declares the per-collection name search. An empty href keeps
// the query targeting the collection itself.
func searchQuery(name, prompt string) schema.ShapeQuery {
	return schema.ShapeQuery{
		Rel:    "search",
		Name:   name,
		Prompt: prompt,
		Data: []schema.Field{
			{Name: "name", Kind: schema.KindText},
		},
	}
}

// fieldOf adapts a typed extractor to the registry's untyped one. Foreign
// instance types read as nil instead of panicking.
func fieldOf[T any](get func(T) any) func(any) any {
	return func(instance any) any {
		v, ok := instance.(T)
		if !ok {
			return nil
		}
		return get(v)
	}
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
