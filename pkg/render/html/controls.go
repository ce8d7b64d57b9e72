package html

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// Built-in control identifiers the page template dispatches on.
const (
	ControlInput    = "input"
	ControlNumber   = "number"
	ControlCheckbox = "checkbox"
	ControlSelect   = "select"
	ControlTextarea = "textarea"
	ControlDatetime = "datetime"
)

// Matcher decides whether a control should handle the supplied field.
type Matcher func(field collection.TemplateData) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// ControlRegistry selects form controls for template fields. Field type tags
// arrive in two vocabularies: schema authors write hints such as "boolean"
// and "textarea", while catalog-derived templates carry "checkbox",
// "number", "select" and "datetime". The built-in matchers fold both onto
// one control set. Higher priority wins; ties fall back to registration
// order; fields nothing matches degrade to a plain text input.
type ControlRegistry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewControlRegistry constructs a registry with the built-in matchers
// registered.
func NewControlRegistry() *ControlRegistry {
	reg := &ControlRegistry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a control matcher with the provided name and priority.
// Higher priority values take precedence.
func (r *ControlRegistry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control for a field, falling back to a text input.
func (r *ControlRegistry) Resolve(field collection.TemplateData) string {
	if r == nil {
		return ControlInput
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return ControlInput
}

func (r *ControlRegistry) registerBuiltins() {
	r.Register(ControlCheckbox, 90, func(field collection.TemplateData) bool {
		return typeTag(field) == "checkbox" || typeTag(field) == "boolean"
	})

	r.Register(ControlSelect, 80, func(field collection.TemplateData) bool {
		return typeTag(field) == "select" || len(field.Options) > 0
	})

	r.Register(ControlTextarea, 70, func(field collection.TemplateData) bool {
		return typeTag(field) == "textarea"
	})

	r.Register(ControlDatetime, 60, func(field collection.TemplateData) bool {
		switch typeTag(field) {
		case "datetime", "date", "datetime-local":
			return true
		}
		return false
	})

	r.Register(ControlNumber, 50, func(field collection.TemplateData) bool {
		return typeTag(field) == "number" || typeTag(field) == "integer"
	})
}

func typeTag(field collection.TemplateData) string {
	return strings.ToLower(strings.TrimSpace(field.Type))
}
