package passconfig

import (
	"errors"
	"testing"

	"github.com/iley/cgpipe/internal/pass"
)

func TestCheckPassOrder(t *testing.T) {
	testCases := []struct {
		name string
		ids  []pass.ID
		err  error
	}{
		{"empty", nil, nil},
		{"in order", []pass.ID{pass.LiveVariables, pass.PHIElimination, pass.TwoAddressInstruction}, nil},
		{"unrelated", []pass.ID{pass.BranchFolder, pass.LiveVariables}, nil},
		{"only one side", []pass.ID{pass.TwoAddressInstruction, pass.MachineLICM}, nil},
		{"swapped", []pass.ID{pass.TwoAddressInstruction, pass.PHIElimination}, ErrPassOrder},
		{"repeated after", []pass.ID{pass.PrologEpilogCodeInserter, pass.BranchFolder, pass.PrologEpilogCodeInserter}, ErrPassOrder},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPassOrder(tc.ids)
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}
