package passconfig

import (
	"fmt"

	"github.com/iley/cgpipe/internal/pass"
)

// Ordering requirements between passes of a built pipeline. They document the standard order
// and catch target stage replacements that break it. A constraint only applies when both passes
// are present.
type constraint struct {
	a, b pass.ID // every a must come before every b
}

var passOrder = [...]constraint{
	// Alias analysis is set up before anything that queries it.
	{pass.BasicAliasAnalysis, pass.LoopStrengthReduce},
	// Exception handling is lowered on IR.
	{pass.DwarfEHPrepare, pass.ExpandISelPseudos},
	{pass.SjLjEHPrepare, pass.DwarfEHPrepare},
	{pass.StackProtector, pass.ExpandISelPseudos},
	// Dead PHI cycles are removed before DCE.
	{pass.ExpandISelPseudos, pass.OptimizePHIs},
	{pass.OptimizePHIs, pass.DeadMachineInstructionElim},
	// Leaving SSA form.
	{pass.LiveVariables, pass.TwoAddressInstruction},
	{pass.MachineLoopInfo, pass.PHIElimination},
	{pass.PHIElimination, pass.TwoAddressInstruction},
	{pass.TwoAddressInstruction, pass.StrongPHIElimination},
	{pass.TwoAddressInstruction, pass.RegisterCoalescer},
	{pass.StrongPHIElimination, pass.RegisterCoalescer},
	{pass.RegisterCoalescer, pass.MachineScheduler},
	{pass.RegisterCoalescer, pass.VirtRegRewriter},
	{pass.VirtRegRewriter, pass.StackSlotColoring},
	// Branch folding needs the final frame.
	{pass.PrologEpilogCodeInserter, pass.BranchFolder},
	{pass.PrologEpilogCodeInserter, pass.ExpandPostRAPseudos},
	{pass.ExpandPostRAPseudos, pass.PostRAScheduler},
	{pass.GCMachineCodeAnalysis, pass.MachineBlockPlacement},
	{pass.GCMachineCodeAnalysis, pass.CodePlacementOpt},
	{pass.MachineBlockPlacement, pass.MachineBlockPlacementStats},
	{pass.CodePlacementOpt, pass.MachineBlockPlacementStats},
}

func checkPassOrder(ids []pass.ID) error {
	first := make(map[pass.ID]int)
	last := make(map[pass.ID]int)
	for i, id := range ids {
		if _, ok := first[id]; !ok {
			first[id] = i
		}
		last[id] = i
	}

	for _, c := range passOrder {
		lastA, okA := last[c.a]
		firstB, okB := first[c.b]
		if !okA || !okB {
			continue
		}
		if lastA >= firstB {
			return fmt.Errorf("%w: %s must run before %s", ErrPassOrder, pass.Default.Name(c.a), pass.Default.Name(c.b))
		}
	}
	return nil
}
