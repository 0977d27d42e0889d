package regalloc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iley/cgpipe/internal/pass"
)

func expectPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v, got none", target)
		}
		if err, ok := r.(error); !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic with %v, got %v", target, r)
		}
	}()
	f()
}

func TestStandardAllocators(t *testing.T) {
	expected := []string{"basic", "default", "fast", "greedy", "pbqp"}
	if got := Allocators.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	entry, ok := Allocators.Lookup(DefaultName)
	if !ok || entry.Pass != pass.None {
		t.Errorf("expected the default entry to name no pass, got %+v", entry)
	}
	entry, ok = Allocators.Lookup("pbqp")
	if !ok || entry.Pass != pass.RegAllocPBQP {
		t.Errorf("expected pbqp to map to %d, got %+v", pass.RegAllocPBQP, entry)
	}

	if StandardDefault(true) != pass.RegAllocGreedy {
		t.Errorf("expected greedy for optimized builds")
	}
	if StandardDefault(false) != pass.RegAllocFast {
		t.Errorf("expected fast for unoptimized builds")
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("mine", "my allocator", pass.RegAllocBasic)

	expectPanic(t, pass.ErrDuplicatePass, func() { r.Register("mine", "again", pass.RegAllocFast) })
	expectPanic(t, pass.ErrDuplicatePass, func() { r.Register(DefaultName, "shadow", pass.RegAllocFast) })
	expectPanic(t, pass.ErrNotRegistered, func() { r.Register("nothing", "", pass.None) })
}

func TestNewSelector(t *testing.T) {
	testCases := []struct {
		choice   string
		expected string
		err      error
	}{
		{"", DefaultName, nil},
		{DefaultName, DefaultName, nil},
		{"fast", "fast", nil},
		{"linearscan", "", ErrUnknownAllocator},
	}
	for _, tc := range testCases {
		s, err := NewSelector(Allocators, tc.choice)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("NewSelector(%q): expected %v, got %v", tc.choice, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewSelector(%q): unexpected error: %v", tc.choice, err)
			continue
		}
		if s.Choice() != tc.expected {
			t.Errorf("NewSelector(%q): expected choice %q, got %q", tc.choice, tc.expected, s.Choice())
		}
	}
}

func TestSelectExplicit(t *testing.T) {
	s, err := NewSelector(Allocators, "pbqp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	called := false
	id := s.Select(true, func(bool) pass.ID {
		called = true
		return pass.RegAllocGreedy
	})
	if id != pass.RegAllocPBQP {
		t.Errorf("expected pbqp, got %s", pass.Default.Name(id))
	}
	if called {
		t.Errorf("expected the target default not to be consulted")
	}
}

func TestSelectMemoizes(t *testing.T) {
	s, err := NewSelector(Allocators, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Resolved(); ok {
		t.Errorf("expected nothing resolved yet")
	}

	calls := 0
	target := func(optimized bool) pass.ID {
		calls++
		return StandardDefault(optimized)
	}

	first := s.Select(false, target)
	second := s.Select(true, target)
	if first != pass.RegAllocFast || second != pass.RegAllocFast {
		t.Errorf("expected fast twice, got %s and %s", pass.Default.Name(first), pass.Default.Name(second))
	}
	if calls != 1 {
		t.Errorf("expected the target to be asked once, asked %d times", calls)
	}
	if id, ok := s.Resolved(); !ok || id != pass.RegAllocFast {
		t.Errorf("expected fast to be resolved, got %d (ok=%t)", id, ok)
	}

	s.Reset()
	if id := s.Select(true, target); id != pass.RegAllocGreedy {
		t.Errorf("expected greedy after reset, got %s", pass.Default.Name(id))
	}
	if calls != 2 {
		t.Errorf("expected the target to be asked again after reset, asked %d times", calls)
	}
}

func TestSelectNoAllocator(t *testing.T) {
	s, err := NewSelector(Allocators, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectPanic(t, ErrNoAllocator, func() {
		s.Select(true, func(bool) pass.ID { return pass.None })
	})
}
