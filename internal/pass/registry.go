package pass

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry maps pass IDs and names to the factories that create runnable passes.
// It is safe for concurrent use, but kinds are expected to be registered during
// package initialization and only looked up afterwards.
type Registry struct {
	mu     sync.RWMutex
	byID   map[ID]*Info
	byName map[string]*Info
	nextID ID
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[ID]*Info),
		byName: make(map[string]*Info),
		nextID: None + 1,
	}
}

// Register adds a new pass kind and returns its identity. A nil factory registers a pseudo kind.
func (r *Registry) Register(name, description string, factory Factory) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicatePass, name))
	}

	info := &Info{
		ID:          r.nextID,
		Name:        name,
		Description: description,
		Factory:     factory,
	}
	r.nextID++
	r.byID[info.ID] = info
	r.byName[name] = info
	return info.ID
}

func (r *Registry) Lookup(name string) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byName[name]
	if !ok {
		return None, false
	}
	return info.ID, true
}

func (r *Registry) Info(id ID) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byID[id]
	return info, ok
}

// Name returns the registered name of id, or a placeholder for None and unknown IDs.
func (r *Registry) Name(id ID) string {
	if id == None {
		return "<none>"
	}
	if info, ok := r.Info(id); ok {
		return info.Name
	}
	return fmt.Sprintf("<unregistered %d>", id)
}

// Names returns all registered pass names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.byName)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Instantiate creates a new pass of the given kind.
// Callers must check for None first. Unknown IDs and pseudo kinds are compiler bugs and panic.
func (r *Registry) Instantiate(id ID) Pass {
	info, ok := r.Info(id)
	if !ok {
		panic(fmt.Errorf("%w: %d", ErrNotRegistered, id))
	}
	if info.IsPseudo() {
		panic(fmt.Errorf("%w: %s", ErrNoImplementation, info.Name))
	}
	return info.Factory(info)
}
