package passconfig

import (
	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/regalloc"
)

// Stages is the set of steps the pipeline is composed of. A target replaces any of them by
// returning a non-nil function from Target.Stages; replacements may call the Default* functions
// below to extend the standard behavior instead of rewriting it.
//
// Hooks returning bool report whether they added any passes. When they did, the machine code is
// printed and verified after them if requested.
type Stages struct {
	AddIRPasses                 func(c *Config)
	AddPassesToHandleExceptions func(c *Config)
	AddISelPrepare              func(c *Config)
	AddPreISel                  func(c *Config) bool
	AddInstSelector             func(c *Config) bool
	AddMachinePasses            func(c *Config)
	AddMachineSSAOptimization   func(c *Config)
	AddPreRegAlloc              func(c *Config) bool
	AddFastRegAlloc             func(c *Config, regAlloc pass.Pass)
	AddOptimizedRegAlloc        func(c *Config, regAlloc pass.Pass)
	AddPreRewrite               func(c *Config) bool
	AddFinalizeRegAlloc         func(c *Config) bool
	AddPostRegAlloc             func(c *Config) bool
	AddMachineLateOptimization  func(c *Config)
	AddPreSched2                func(c *Config) bool
	AddBlockPlacement           func(c *Config)
	AddPreEmitPass              func(c *Config) bool

	// CreateTargetRegisterAllocator picks the allocator when none is chosen on the command line.
	CreateTargetRegisterAllocator func(c *Config, optimized bool) pass.ID
}

func noPasses(c *Config) bool {
	return false
}

func DefaultStages() Stages {
	return Stages{
		AddIRPasses:                   DefaultIRPasses,
		AddPassesToHandleExceptions:   DefaultPassesToHandleExceptions,
		AddISelPrepare:                DefaultISelPrepare,
		AddPreISel:                    noPasses,
		AddInstSelector:               noPasses,
		AddMachinePasses:              DefaultMachinePasses,
		AddMachineSSAOptimization:     DefaultMachineSSAOptimization,
		AddPreRegAlloc:                noPasses,
		AddFastRegAlloc:               DefaultFastRegAlloc,
		AddOptimizedRegAlloc:          DefaultOptimizedRegAlloc,
		AddPreRewrite:                 noPasses,
		AddFinalizeRegAlloc:           noPasses,
		AddPostRegAlloc:               noPasses,
		AddMachineLateOptimization:    DefaultMachineLateOptimization,
		AddPreSched2:                  noPasses,
		AddBlockPlacement:             DefaultBlockPlacement,
		AddPreEmitPass:                noPasses,
		CreateTargetRegisterAllocator: DefaultTargetRegisterAllocator,
	}
}

// merge returns s with every stage set in over replaced.
func (s Stages) merge(over Stages) Stages {
	pick := func(dst *func(c *Config), src func(c *Config)) {
		if src != nil {
			*dst = src
		}
	}
	hook := func(dst *func(c *Config) bool, src func(c *Config) bool) {
		if src != nil {
			*dst = src
		}
	}
	regAlloc := func(dst *func(c *Config, p pass.Pass), src func(c *Config, p pass.Pass)) {
		if src != nil {
			*dst = src
		}
	}

	pick(&s.AddIRPasses, over.AddIRPasses)
	pick(&s.AddPassesToHandleExceptions, over.AddPassesToHandleExceptions)
	pick(&s.AddISelPrepare, over.AddISelPrepare)
	hook(&s.AddPreISel, over.AddPreISel)
	hook(&s.AddInstSelector, over.AddInstSelector)
	pick(&s.AddMachinePasses, over.AddMachinePasses)
	pick(&s.AddMachineSSAOptimization, over.AddMachineSSAOptimization)
	hook(&s.AddPreRegAlloc, over.AddPreRegAlloc)
	regAlloc(&s.AddFastRegAlloc, over.AddFastRegAlloc)
	regAlloc(&s.AddOptimizedRegAlloc, over.AddOptimizedRegAlloc)
	hook(&s.AddPreRewrite, over.AddPreRewrite)
	hook(&s.AddFinalizeRegAlloc, over.AddFinalizeRegAlloc)
	hook(&s.AddPostRegAlloc, over.AddPostRegAlloc)
	pick(&s.AddMachineLateOptimization, over.AddMachineLateOptimization)
	hook(&s.AddPreSched2, over.AddPreSched2)
	pick(&s.AddBlockPlacement, over.AddBlockPlacement)
	hook(&s.AddPreEmitPass, over.AddPreEmitPass)
	if over.CreateTargetRegisterAllocator != nil {
		s.CreateTargetRegisterAllocator = over.CreateTargetRegisterAllocator
	}
	return s
}

// Stages returns the stages this Config runs, so target replacements can call each other.
func (c *Config) Stages() Stages {
	return c.stages
}

// DefaultIRPasses adds the IR to IR transforms that run after machine independent optimization.
func DefaultIRPasses(c *Config) {
	// Type based alias analysis goes first so basic alias analysis wins if they disagree.
	c.AddPass(pass.TypeBasedAliasAnalysis)
	c.AddPass(pass.BasicAliasAnalysis)

	if !c.DisableVerify() {
		c.AddPass(pass.IRVerifier)
	}

	if c.OptLevel() != OptNone && !c.opts.DisableLSR {
		c.AddPass(pass.LoopStrengthReduce)
		if c.opts.PrintLSR {
			c.AddPassInstance(pass.NewIRPrinter(c.out, "\n\n*** Code after LSR ***\n"))
		}
	}

	c.AddPass(pass.GCLowering)

	// No unreachable blocks may reach instruction selection.
	c.AddPass(pass.UnreachableBlockElim)
}

// DefaultPassesToHandleExceptions lowers exception handling constructs according to the
// target's exception model.
func DefaultPassesToHandleExceptions(c *Config) {
	switch c.target.ExceptionModel() {
	case ExceptionsSjLj:
		// DWARF EH preparation has to run after SjLj preparation.
		c.AddPass(pass.SjLjEHPrepare)
		c.AddPass(pass.DwarfEHPrepare)
	case ExceptionsDwarfCFI, ExceptionsARM, ExceptionsWin64:
		c.AddPass(pass.DwarfEHPrepare)
	case ExceptionsNone:
		c.AddPass(pass.LowerInvoke)
		// Lowering invokes can leave unreachable code behind.
		c.AddPass(pass.UnreachableBlockElim)
	}
}

// DefaultISelPrepare adds the IR passes that run right before instruction selection.
func DefaultISelPrepare(c *Config) {
	if c.OptLevel() != OptNone && !c.opts.DisableCGP {
		c.AddPass(pass.CodeGenPrepare)
	}

	c.AddPass(pass.StackProtector)

	c.stages.AddPreISel(c)

	if c.opts.PrintISelInput {
		c.AddPassInstance(pass.NewIRPrinter(c.out, "\n\n*** Final IR input to ISel ***\n"))
	}

	// The IR is final from here on.
	if !c.DisableVerify() {
		c.AddPass(pass.IRVerifier)
	}
}

// DefaultMachinePasses adds the target independent passes that run after instruction selection.
func DefaultMachinePasses(c *Config) {
	optimizing := c.OptLevel() != OptNone

	c.PrintAndVerify("After Instruction Selection")

	if c.AddPass(pass.ExpandISelPseudos) != pass.None {
		c.PrintAndVerify("After ExpandISelPseudos")
	}

	if optimizing {
		c.stages.AddMachineSSAOptimization(c)
	} else {
		c.AddPass(pass.LocalStackSlotAllocation)
	}

	if c.stages.AddPreRegAlloc(c) {
		c.PrintAndVerify("After PreRegAlloc passes")
	}

	if c.OptimizeRegAlloc() {
		c.stages.AddOptimizedRegAlloc(c, c.createRegAllocPass(true))
	} else {
		c.stages.AddFastRegAlloc(c, c.createRegAllocPass(false))
	}

	if c.stages.AddPostRegAlloc(c) {
		c.PrintAndVerify("After PostRegAlloc passes")
	}

	c.AddPass(pass.PrologEpilogCodeInserter)
	c.PrintAndVerify("After PrologEpilogCodeInserter")

	if optimizing {
		c.stages.AddMachineLateOptimization(c)
	}

	c.AddPass(pass.ExpandPostRAPseudos)
	c.PrintAndVerify("After ExpandPostRAPseudos")

	if c.stages.AddPreSched2(c) {
		c.PrintAndVerify("After PreSched2 passes")
	}

	if optimizing {
		c.AddPass(pass.PostRAScheduler)
		c.PrintAndVerify("After PostRAScheduler")
	}

	c.AddPass(pass.GCMachineCodeAnalysis)
	if c.opts.PrintGCInfo {
		c.AddPassInstance(pass.NewGCInfoPrinter(c.out))
	}

	if optimizing {
		c.stages.AddBlockPlacement(c)
	}

	if c.stages.AddPreEmitPass(c) {
		c.PrintAndVerify("After PreEmit passes")
	}
}

// DefaultMachineSSAOptimization adds the passes that optimize machine code in SSA form.
func DefaultMachineSSAOptimization(c *Config) {
	if c.AddPass(pass.EarlyTailDuplicate) != pass.None {
		c.PrintAndVerify("After Pre-RegAlloc TailDuplicate")
	}

	// Removing dead PHI cycles may make more instructions dead, so this runs before DCE.
	c.AddPass(pass.OptimizePHIs)

	// Merges large allocas. Spill slots are merged later by stack slot coloring.
	c.AddPass(pass.StackColoring)

	c.AddPass(pass.LocalStackSlotAllocation)

	c.AddPass(pass.DeadMachineInstructionElim)
	c.PrintAndVerify("After codegen DCE pass")

	c.AddPass(pass.EarlyIfConverter)
	c.AddPass(pass.MachineLICM)
	c.AddPass(pass.MachineCSE)
	c.AddPass(pass.MachineSinking)
	c.PrintAndVerify("After Machine LICM, CSE and Sinking passes")

	c.AddPass(pass.PeepholeOptimizer)
	c.PrintAndVerify("After codegen peephole optimization pass")
}

// DefaultTargetRegisterAllocator returns the standard allocator for the requested path.
func DefaultTargetRegisterAllocator(c *Config, optimized bool) pass.ID {
	return regalloc.StandardDefault(optimized)
}

// createRegAllocPass instantiates the allocator chosen on the command line, or the one the
// target asks for. The session remembers the answer for later pipelines.
func (c *Config) createRegAllocPass(optimized bool) pass.Pass {
	id := c.session.Allocators.Select(optimized, func(optimized bool) pass.ID {
		return c.stages.CreateTargetRegisterAllocator(c, optimized)
	})
	c.logf("register allocator %s", c.session.Registry.Name(id))
	return c.session.Registry.Instantiate(id)
}

// DefaultFastRegAlloc adds the minimum set of passes register allocation needs.
// No coalescing and no scheduling.
func DefaultFastRegAlloc(c *Config, regAlloc pass.Pass) {
	c.AddPass(pass.PHIElimination)
	c.AddPass(pass.TwoAddressInstruction)

	c.AddPassInstance(regAlloc)
	c.PrintAndVerify("After Register Allocation")
}

// DefaultOptimizedRegAlloc adds the passes tightly coupled with optimized register allocation,
// including coalescing, scheduling and the allocator itself.
func DefaultOptimizedRegAlloc(c *Config, regAlloc pass.Pass) {
	c.AddPass(pass.ProcessImplicitDefs)

	// Live variables need pure SSA form.
	c.AddPass(pass.LiveVariables)

	// Leave SSA form. Edge splitting works better with loop info.
	if !c.opts.EnableStrongPHIElim {
		c.AddPass(pass.MachineLoopInfo)
		c.AddPass(pass.PHIElimination)
	}

	if c.opts.EarlyLiveIntervals {
		c.AddPass(pass.LiveIntervals)
	}

	c.AddPass(pass.TwoAddressInstruction)

	if c.opts.EnableStrongPHIElim {
		c.AddPass(pass.StrongPHIElimination)
	}

	c.AddPass(pass.RegisterCoalescer)

	if c.AddPass(pass.MachineScheduler) != pass.None {
		c.PrintAndVerify("After Machine Scheduling")
	}

	c.AddPassInstance(regAlloc)
	c.PrintAndVerify("After Register Allocation, before rewriter")

	if c.stages.AddPreRewrite(c) {
		c.PrintAndVerify("After pre-rewrite passes")
	}

	c.AddPass(pass.VirtRegRewriter)
	c.PrintAndVerify("After Virtual Register Rewriter")

	if c.stages.AddFinalizeRegAlloc(c) {
		c.PrintAndVerify("After RegAlloc finalization")
	}

	c.AddPass(pass.StackSlotColoring)

	// Hoist reloads and rematerializations out of loops.
	c.AddPass(pass.PostRAMachineLICM)

	c.PrintAndVerify("After StackSlotColoring and postra Machine LICM")
}

// DefaultMachineLateOptimization adds the passes that optimize machine code after register
// allocation. Branch folding has to run after prolog/epilog insertion.
func DefaultMachineLateOptimization(c *Config) {
	if c.AddPass(pass.BranchFolder) != pass.None {
		c.PrintAndVerify("After BranchFolding")
	}

	if c.AddPass(pass.TailDuplicate) != pass.None {
		c.PrintAndVerify("After TailDuplicate")
	}

	if c.AddPass(pass.MachineCopyPropagation) != pass.None {
		c.PrintAndVerify("After copy propagation pass")
	}
}

// DefaultBlockPlacement adds the basic block placement pass.
func DefaultBlockPlacement(c *Config) {
	var id pass.ID
	if !c.opts.DisableBlockPlacement {
		id = c.AddPass(pass.MachineBlockPlacement)
	} else {
		id = c.AddPass(pass.CodePlacementOpt)
	}
	if id != pass.None {
		if c.opts.EnableBlockPlacementStats {
			c.AddPass(pass.MachineBlockPlacementStats)
		}
		c.PrintAndVerify("After machine block placement.")
	}
}
