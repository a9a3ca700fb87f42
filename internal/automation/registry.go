package automation

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the automations the server dispatches to, keyed by kind.
// Registration happens at startup; lookups are concurrent.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Automation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Automation)}
}

// Register adds an automation. Registering a kind twice is a programming
// error and is rejected.
func (r *Registry) Register(a Automation) error {
	d := a.Descriptor()
	if d.Kind == "" {
		return fmt.Errorf("automation has empty kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[d.Kind]; exists {
		return fmt.Errorf("automation %q already registered", d.Kind)
	}
	r.kinds[d.Kind] = a
	return nil
}

// Get returns the automation registered under kind.
func (r *Registry) Get(kind string) (Automation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.kinds[kind]
	return a, ok
}

// Descriptors returns the descriptors of all registered automations,
// sorted by kind.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.kinds))
	for _, a := range r.kinds {
		out = append(out, a.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
