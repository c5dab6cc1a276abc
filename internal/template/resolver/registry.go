package resolver

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds generators registered ahead of time. A directive refers to one
// as '@name', so no code is ever loaded from a path string.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]GeneratorFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]GeneratorFunc)}
}

// Register adds a generator. Registering a name twice is an error.
func (r *Registry) Register(name string, fn GeneratorFunc) error {
	if name == "" {
		return fmt.Errorf("generator name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("generator %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("generator %q already registered", name)
	}
	r.generators[name] = fn
	return nil
}

// Lookup returns the generator registered under name.
func (r *Registry) Lookup(name string) (GeneratorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.generators[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for n := range r.generators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
