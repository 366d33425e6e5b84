package rebalancer

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a Rebalancer with no arguments.
type Factory func() (Rebalancer, error)

// Registry maps rebalancer identifiers to factories. It is populated at
// process startup, typically from init functions.
type Registry struct {
	sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry is the process wide registry Register populates.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register allows a rebalancer to register itself under an identifier.
// It panics on an empty identifier, a nil factory, or an identifier that is
// already taken, including the short names of built-in rebalancers.
func (r *Registry) Register(id string, factory Factory) {
	if id == "" || factory == nil {
		panic("rebalancer: empty identifier or nil factory")
	}
	if _, present := builtins[id]; present {
		panic(fmt.Sprintf("rebalancer[%s] shadows a built-in", id))
	}

	r.Lock()
	defer r.Unlock()

	if _, present := r.factories[id]; present {
		panic(fmt.Sprintf("rebalancer[%s] cannot register twice", id))
	}
	r.factories[id] = factory
}

// Lookup returns the factory registered under id.
func (r *Registry) Lookup(id string) (Factory, bool) {
	r.RLock()
	defer r.RUnlock()

	f, present := r.factories[id]
	return f, present
}

// Identifiers returns the sorted registered identifiers.
func (r *Registry) Identifiers() []string {
	r.RLock()
	defer r.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register registers a rebalancer factory to DefaultRegistry.
func Register(id string, factory Factory) {
	DefaultRegistry.Register(id, factory)
}
