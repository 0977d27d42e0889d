package pass

import (
	"errors"
	"reflect"
	"testing"
)

func expectPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v, got none", target)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected panic with an error, got %v", r)
		}
		if !errors.Is(err, target) {
			t.Fatalf("expected panic with %v, got %v", target, err)
		}
	}()
	f()
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	a := r.Register("a", "Pass A", NewOpaque)
	b := r.Register("b", "Pass B", nil)

	if a == None || b == None {
		t.Fatalf("expected non-zero IDs, got %d and %d", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct IDs, got %d twice", a)
	}

	id, ok := r.Lookup("b")
	if !ok || id != b {
		t.Errorf("expected lookup of b to return %d, got %d (ok=%t)", b, id, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Errorf("expected lookup of unknown name to fail")
	}

	info, ok := r.Info(a)
	if !ok {
		t.Fatalf("expected info for %d", a)
	}
	if info.Name != "a" || info.Description != "Pass A" || info.IsPseudo() {
		t.Errorf("unexpected info %+v", info)
	}
	info, _ = r.Info(b)
	if !info.IsPseudo() {
		t.Errorf("expected b to be a pseudo pass")
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", "", NewOpaque)
	r.Register("alpha", "", NewOpaque)
	r.Register("mid", "", nil)

	expected := []string{"alpha", "mid", "zeta"}
	if got := r.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestRegistryName(t *testing.T) {
	r := NewRegistry()
	id := r.Register("a", "", NewOpaque)

	testCases := []struct {
		id       ID
		expected string
	}{
		{id, "a"},
		{None, "<none>"},
		{id + 10, "<unregistered 11>"},
	}
	for _, tc := range testCases {
		if got := r.Name(tc.id); got != tc.expected {
			t.Errorf("Name(%d): expected %q, got %q", tc.id, tc.expected, got)
		}
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "", NewOpaque)
	expectPanic(t, ErrDuplicatePass, func() {
		r.Register("a", "again", NewOpaque)
	})
}

func TestRegistryInstantiate(t *testing.T) {
	r := NewRegistry()
	impl := r.Register("real", "", NewOpaque)
	fake := r.Register("fake", "", nil)

	p := r.Instantiate(impl)
	if p.ID() != impl || p.Name() != "real" {
		t.Errorf("expected pass impl (%d), got %s (%d)", impl, p.Name(), p.ID())
	}
	if r.Instantiate(impl) == p {
		t.Errorf("expected a fresh instance on every call")
	}

	expectPanic(t, ErrNoImplementation, func() { r.Instantiate(fake) })
	expectPanic(t, ErrNotRegistered, func() { r.Instantiate(None) })
	expectPanic(t, ErrNotRegistered, func() { r.Instantiate(fake + 1) })
}

func TestDefaultRegistry(t *testing.T) {
	for _, id := range []ID{EarlyTailDuplicate, PostRAMachineLICM} {
		info, ok := Default.Info(id)
		if !ok || !info.IsPseudo() {
			t.Errorf("expected %s to be a registered pseudo pass", Default.Name(id))
		}
	}

	for _, name := range []string{"tbaa", "machinelicm", "regalloc-greedy", "print-machineinstrs"} {
		id, ok := Default.Lookup(name)
		if !ok {
			t.Errorf("expected %s to be registered", name)
			continue
		}
		if p := Default.Instantiate(id); p.Name() != name {
			t.Errorf("expected instance named %s, got %s", name, p.Name())
		}
	}
}
