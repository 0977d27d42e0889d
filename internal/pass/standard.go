package pass

// Default is the process-wide registry. All target independent code generation passes are
// registered here during package initialization; targets add their own kinds the same way.
var Default = NewRegistry()

func standard(name, description string) ID {
	return Default.Register(name, description, NewOpaque)
}

func pseudo(name, description string) ID {
	return Default.Register(name, description, nil)
}

// IR level passes.
var (
	TypeBasedAliasAnalysis = standard("tbaa", "Type-Based Alias Analysis")
	BasicAliasAnalysis     = standard("basicaa", "Basic Alias Analysis (stateless AA impl)")
	IRVerifier             = standard("verify", "Module Verifier")
	LoopStrengthReduce     = standard("loop-reduce", "Loop Strength Reduction")
	IRPrinter              = Default.Register("print-function", "Print function to stderr", newIRPrinterFromRegistry)
	GCLowering             = standard("gc-lowering", "Lower Garbage Collection Instructions")
	UnreachableBlockElim   = standard("unreachableblockelim", "Remove unreachable blocks from the CFG")
	SjLjEHPrepare          = standard("sjljehprepare", "Prepare SjLj exceptions")
	DwarfEHPrepare         = standard("dwarfehprepare", "Prepare DWARF exceptions")
	LowerInvoke            = standard("lowerinvoke", "Lower invoke and unwind, for unwindless code generators")
	CodeGenPrepare         = standard("codegenprepare", "Optimize for code generation")
	StackProtector         = standard("stack-protector", "Insert stack protectors")
)

// Machine level passes.
var (
	MachineFunctionPrinter     = Default.Register("print-machineinstrs", "Machine Function Printer", newMachinePrinterFromRegistry)
	MachineVerifier            = Default.Register("machineverifier", "Verify generated machine code", newMachineVerifierFromRegistry)
	ExpandISelPseudos          = standard("expand-isel-pseudos", "Expand ISel Pseudo-instructions")
	EarlyTailDuplicate         = pseudo("early-tailduplication", "Pre-RegAlloc Tail Duplication")
	OptimizePHIs               = standard("opt-phis", "Optimize machine instruction PHIs")
	StackColoring              = standard("stack-coloring", "Merge disjoint stack slots")
	LocalStackSlotAllocation   = standard("localstackalloc", "Local Stack Slot Allocation")
	DeadMachineInstructionElim = standard("dead-mi-elimination", "Remove dead machine instructions")
	EarlyIfConverter           = standard("early-ifcvt", "Early If Converter")
	MachineLICM                = standard("machinelicm", "Machine Loop Invariant Code Motion")
	MachineCSE                 = standard("machine-cse", "Machine Common Subexpression Elimination")
	MachineSinking             = standard("machine-sink", "Machine code sinking")
	PeepholeOptimizer          = standard("peephole-opts", "Peephole Optimizations")
	ProcessImplicitDefs        = standard("processimpdefs", "Process Implicit Definitions")
	LiveVariables              = standard("livevars", "Live Variable Analysis")
	MachineLoopInfo            = standard("machine-loops", "Machine Natural Loop Construction")
	PHIElimination             = standard("phi-node-elimination", "Eliminate PHI nodes for register allocation")
	LiveIntervals              = standard("liveintervals", "Live Interval Analysis")
	TwoAddressInstruction      = standard("twoaddressinstruction", "Two-Address instruction pass")
	StrongPHIElimination       = standard("strong-phi-node-elimination", "Eliminate PHI nodes for register allocation, intelligently")
	RegisterCoalescer          = standard("simple-register-coalescing", "Simple Register Coalescing")
	MachineScheduler           = standard("misched", "Machine Instruction Scheduler")
	VirtRegRewriter            = standard("virtregrewriter", "Virtual Register Rewriter")
	StackSlotColoring          = standard("stack-slot-coloring", "Stack Slot Coloring")
	PostRAMachineLICM          = pseudo("postra-machine-licm", "Post-RegAlloc Machine LICM")
	PrologEpilogCodeInserter   = standard("prologepilog", "Prologue/Epilogue Insertion & Frame Finalization")
	BranchFolder               = standard("branch-folder", "Control Flow Optimizer")
	TailDuplicate              = standard("tailduplication", "Tail Duplication")
	MachineCopyPropagation     = standard("machine-cp", "Machine Copy Propagation Pass")
	ExpandPostRAPseudos        = standard("postrapseudos", "Post-RA pseudo instruction expansion pass")
	PostRAScheduler            = standard("post-RA-sched", "Post RA top-down list latency scheduler")
	GCMachineCodeAnalysis      = standard("gc-analysis", "Analyze Machine Code For Garbage Collection")
	GCInfoPrinter              = Default.Register("gc-info-printer", "Print Garbage Collector Information", newGCInfoPrinterFromRegistry)
	MachineBlockPlacement      = standard("block-placement2", "Branch Probability Basic Block Placement")
	CodePlacementOpt           = standard("code-placement", "Code Placement Optimizer")
	MachineBlockPlacementStats = standard("block-placement-stats", "Basic Block Placement Stats")
)

// Register allocators. They are selected by name through the regalloc package.
var (
	RegAllocBasic  = standard("regalloc-basic", "Basic Register Allocator")
	RegAllocFast   = standard("regalloc-fast", "Fast Register Allocator")
	RegAllocGreedy = standard("regalloc-greedy", "Greedy Register Allocator")
	RegAllocPBQP   = standard("regalloc-pbqp", "PBQP Register Allocator")
)
