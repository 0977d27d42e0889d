package passconfig

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iley/cgpipe/internal/pass"
)

func TestGate(t *testing.T) {
	a, x, b, y := pass.TypeBasedAliasAnalysis, pass.BasicAliasAnalysis, pass.GCLowering, pass.StackProtector
	sequence := []pass.ID{a, x, b, y}

	testCases := []struct {
		name       string
		startAfter pass.ID
		stopAfter  pass.ID
		expected   []pass.ID
		err        error
	}{
		{"no window", pass.None, pass.None, sequence, nil},
		{"start after a", a, pass.None, []pass.ID{x, b, y}, nil},
		{"stop after b", pass.None, b, []pass.ID{a, x, b}, nil},
		{"window", a, b, []pass.ID{x, b}, nil},
		{"start after last", y, pass.None, nil, nil},
		{"empty window", x, x, nil, nil},
		{"stop before start", b, x, []pass.ID{}, ErrStopBeforeStart},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGate(tc.startAfter, tc.stopAfter)
			var admitted []pass.ID
			var firstErr error
			for _, id := range sequence {
				ok, err := g.admit(id)
				if ok {
					admitted = append(admitted, id)
				}
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}
			if tc.err != nil {
				if !errors.Is(firstErr, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, firstErr)
				}
				if len(admitted) != 0 {
					t.Errorf("expected nothing admitted, got %v", admitted)
				}
				return
			}
			if firstErr != nil {
				t.Fatalf("unexpected error: %v", firstErr)
			}
			if !reflect.DeepEqual(admitted, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, admitted)
			}
		})
	}
}
