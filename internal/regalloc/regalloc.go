package regalloc

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/iley/cgpipe/internal/pass"
)

// DefaultName is the reserved allocator name meaning "let the target decide".
const DefaultName = "default"

var (
	ErrUnknownAllocator = errors.New("unknown register allocator")
	ErrNoAllocator      = errors.New("target did not provide a register allocator")
)

type Entry struct {
	Name        string
	Description string
	// Pass is the allocator pass kind. It is pass.None for the DefaultName entry.
	Pass pass.ID
}

// Registry is a named collection of register allocators.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}
	r.entries[DefaultName] = Entry{Name: DefaultName, Description: "pick register allocator based on -O option"}
	return r
}

func (r *Registry) Register(name, description string, id pass.ID) {
	if id == pass.None {
		panic(fmt.Errorf("register allocator %s: %w", name, pass.ErrNotRegistered))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		panic(fmt.Errorf("%w: register allocator %s", pass.ErrDuplicatePass, name))
	}
	r.entries[name] = Entry{Name: name, Description: description, Pass: id}
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.entries)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Allocators holds the allocators that ship with the code generator.
var Allocators = newStandardRegistry()

func newStandardRegistry() *Registry {
	r := NewRegistry()
	r.Register("basic", "basic register allocator", pass.RegAllocBasic)
	r.Register("fast", "fast register allocator", pass.RegAllocFast)
	r.Register("greedy", "greedy register allocator", pass.RegAllocGreedy)
	r.Register("pbqp", "PBQP register allocator", pass.RegAllocPBQP)
	return r
}

// StandardDefault is the allocator a target gets unless it says otherwise.
func StandardDefault(optimized bool) pass.ID {
	if optimized {
		return pass.RegAllocGreedy
	}
	return pass.RegAllocFast
}
