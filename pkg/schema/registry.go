package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores shapes by resource name. Components register their shapes
// at startup; the builder looks them up per request.
type Registry struct {
	mu     sync.RWMutex
	shapes map[string]Shape
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		shapes: make(map[string]Shape),
	}
}

// Register adds a shape by its resource name. Invalid shapes and duplicate
// names return an error.
func (r *Registry) Register(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shapes[shape.Name]; exists {
		return fmt.Errorf("schema: shape %q already registered", shape.Name)
	}

	r.shapes[shape.Name] = shape
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(shape Shape) {
	if err := r.Register(shape); err != nil {
		panic(err)
	}
}

// Lookup retrieves a shape by resource name.
func (r *Registry) Lookup(name string) (Shape, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shape, ok := r.shapes[name]
	if !ok {
		return Shape{}, fmt.Errorf("schema: shape %q not found", name)
	}
	return shape, nil
}

// List returns the sorted resource names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a shape is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.shapes[name]
	return ok
}
