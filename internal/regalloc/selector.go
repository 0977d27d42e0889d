package regalloc

import (
	"fmt"
	"sync"

	"github.com/iley/cgpipe/internal/pass"
)

// Selector picks the register allocator for every pipeline built in one compilation session.
//
// The first resolution is remembered: later pipelines get the same allocator even if they are
// built at a different optimization level or for a target that would answer differently.
// Call Reset to forget the choice.
type Selector struct {
	registry *Registry
	choice   string

	mu       sync.Mutex
	resolved pass.ID
}

// NewSelector returns a selector that honors the allocator named by choice.
// An empty choice is the same as DefaultName.
func NewSelector(registry *Registry, choice string) (*Selector, error) {
	if choice == "" {
		choice = DefaultName
	}
	if _, ok := registry.Lookup(choice); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAllocator, choice)
	}
	return &Selector{registry: registry, choice: choice}, nil
}

func (s *Selector) Choice() string {
	return s.choice
}

// Select returns the allocator pass kind. targetDefault is only consulted when no explicit
// allocator was chosen and nothing has been resolved yet.
func (s *Selector) Select(optimized bool, targetDefault func(optimized bool) pass.ID) pass.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved != pass.None {
		return s.resolved
	}

	if s.choice != DefaultName {
		entry, _ := s.registry.Lookup(s.choice)
		s.resolved = entry.Pass
		return s.resolved
	}

	id := targetDefault(optimized)
	if id == pass.None {
		panic(fmt.Errorf("%w (optimized=%t)", ErrNoAllocator, optimized))
	}
	s.resolved = id
	return id
}

// Resolved reports the memoized allocator, if any.
func (s *Selector) Resolved() (pass.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved, s.resolved != pass.None
}

func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = pass.None
}
