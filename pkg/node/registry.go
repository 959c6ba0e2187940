package node

import (
	"sync"

	"github.com/matzehuels/topoview/pkg/errors"
)

// Registry maps node names to identifiers for one diagram.
//
// Entries are added once per constructed node and never removed. Names are
// expected to be unique; registering a name twice replaces the earlier ID
// and Register reports the replaced value so callers can warn or reject.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]ID)}
}

// Register maps name to id. If name was already registered, the previous
// ID is returned with replaced set to true.
func (r *Registry) Register(name string, id ID) (previous ID, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids == nil {
		r.ids = make(map[string]ID)
	}
	previous, replaced = r.ids[name]
	r.ids[name] = id
	return previous, replaced
}

// IDByName returns the identifier registered for name.
func (r *Registry) IDByName(name string) (ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", name).WithNode(name)
	}
	return id, nil
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
