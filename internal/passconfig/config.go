package passconfig

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/samber/lo"

	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/regalloc"
)

// Session holds the state shared by every pipeline built during one compilation.
type Session struct {
	Registry   *pass.Registry
	Allocators *regalloc.Selector
	// Log receives a trace of pipeline construction. Nil disables tracing.
	Log *log.Logger
}

// NewSession creates a session over the default pass and allocator registries.
// regAlloc names the register allocator to use; empty means the target's choice.
func NewSession(regAlloc string) (*Session, error) {
	sel, err := regalloc.NewSelector(regalloc.Allocators, regAlloc)
	if err != nil {
		return nil, err
	}
	return &Session{Registry: pass.Default, Allocators: sel}, nil
}

// Target describes how a code generation target customizes the standard pipeline.
type Target interface {
	Name() string
	ExceptionModel() ExceptionModel
	// Configure is called on a fresh Config before anything is scheduled. This is the place
	// for substitutions, insertions and per-pipeline settings.
	Configure(c *Config)
	// Stages returns the stages the target replaces. Nil fields keep the default.
	Stages() Stages
}

type insertion struct {
	after pass.ID
	pass  pass.ID
}

// Config builds the code generation pipeline for one target at one optimization level.
// It is configured first and built once; after the first pass is scheduled it can no longer
// be changed.
type Config struct {
	session *Session
	target  Target
	level   OptLevel
	opts    Options
	stages  Stages
	out     io.Writer

	// Passes substituted by the target. Mapping a kind to pass.None suppresses it.
	substitutions map[pass.ID]pass.ID
	insertions    []insertion

	disableVerify    bool
	enableTailMerge  bool
	printMachineCode bool

	pm          pass.Manager
	gate        gate
	frozen      bool
	initialized bool
	inserting   int
	err         error
}

func New(session *Session, target Target, level OptLevel, opts Options) (*Config, error) {
	c := &Config{
		session:          session,
		target:           target,
		level:            level,
		opts:             opts,
		out:              opts.Output,
		substitutions:    make(map[pass.ID]pass.ID),
		enableTailMerge:  true,
		printMachineCode: opts.PrintMachineCode,
	}
	if c.out == nil {
		c.out = os.Stderr
	}

	startAfter, err := c.lookupOptional(opts.StartAfter)
	if err != nil {
		return nil, fmt.Errorf("start-after: %w", err)
	}
	stopAfter, err := c.lookupOptional(opts.StopAfter)
	if err != nil {
		return nil, fmt.Errorf("stop-after: %w", err)
	}
	c.gate = newGate(startAfter, stopAfter)

	// Pseudo passes resolve to real ones.
	c.SubstitutePass(pass.EarlyTailDuplicate, pass.TailDuplicate)
	c.SubstitutePass(pass.PostRAMachineLICM, pass.MachineLICM)
	// Targets that are ready can enable early if-conversion.
	c.DisablePass(pass.EarlyIfConverter)
	// Experimental.
	c.DisablePass(pass.MachineScheduler)

	if opts.PrintAfter != "" {
		printAfter, err := c.lookupOptional(opts.PrintAfter)
		if err != nil {
			return nil, fmt.Errorf("print-machineinstrs: %w", err)
		}
		c.InsertPass(printAfter, pass.MachineFunctionPrinter)
	}

	target.Configure(c)
	c.stages = DefaultStages().merge(target.Stages())
	return c, nil
}

func (c *Config) lookupOptional(name string) (pass.ID, error) {
	if name == "" {
		return pass.None, nil
	}
	id, ok := c.session.Registry.Lookup(name)
	if !ok {
		return pass.None, fmt.Errorf("%w: %s", ErrUnknownPass, name)
	}
	return id, nil
}

func (c *Config) Target() Target {
	return c.target
}

func (c *Config) OptLevel() OptLevel {
	return c.level
}

func (c *Config) Options() Options {
	return c.opts
}

func (c *Config) Registry() *pass.Registry {
	return c.session.Registry
}

func (c *Config) Output() io.Writer {
	return c.out
}

func (c *Config) mustBeMutable(what string) {
	if c.frozen {
		panic(fmt.Errorf("%w: %s", ErrImmutable, what))
	}
}

// SubstitutePass makes every request for standardID schedule targetID instead.
// A targetID of pass.None suppresses the pass.
func (c *Config) SubstitutePass(standardID, targetID pass.ID) {
	c.mustBeMutable("substitute " + c.session.Registry.Name(standardID))
	c.substitutions[standardID] = targetID
}

func (c *Config) DisablePass(id pass.ID) {
	c.SubstitutePass(id, pass.None)
}

// Substitution returns the pass scheduled in place of id.
func (c *Config) Substitution(id pass.ID) pass.ID {
	if target, ok := c.substitutions[id]; ok {
		return target
	}
	return id
}

// InsertPass schedules inserted right after every pass requested as after.
func (c *Config) InsertPass(after, inserted pass.ID) {
	c.mustBeMutable("insert " + c.session.Registry.Name(inserted))
	if inserted == pass.None {
		panic(fmt.Errorf("%w after %s", ErrNullInsertion, c.session.Registry.Name(after)))
	}
	if after == inserted {
		panic(fmt.Errorf("%w: %s", ErrSelfInsertion, c.session.Registry.Name(after)))
	}
	c.insertions = append(c.insertions, insertion{after: after, pass: inserted})
}

func (c *Config) SetDisableVerify(v bool) {
	c.mustBeMutable("DisableVerify")
	c.disableVerify = v
}

func (c *Config) DisableVerify() bool {
	return c.disableVerify
}

func (c *Config) SetEnableTailMerge(v bool) {
	c.mustBeMutable("EnableTailMerge")
	c.enableTailMerge = v
}

func (c *Config) EnableTailMerge() bool {
	return c.enableTailMerge
}

func (c *Config) SetPrintMachineCode(v bool) {
	c.mustBeMutable("PrintMachineCode")
	c.printMachineCode = v
}

func (c *Config) PrintMachineCode() bool {
	return c.printMachineCode
}

// OptimizeRegAlloc reports whether the optimized register allocation path is used.
func (c *Config) OptimizeRegAlloc() bool {
	switch c.opts.OptimizeRegAlloc {
	case True:
		return true
	case False:
		return false
	}
	return c.level != OptNone
}

func (c *Config) logf(format string, args ...any) {
	if c.session.Log == nil {
		return
	}
	c.session.Log.Printf("%s/%s: "+format, append([]any{c.target.Name(), c.level}, args...)...)
}

// AddPassInstance hands p to the pass manager if it falls inside the start/stop window.
func (c *Config) AddPassInstance(p pass.Pass) {
	if c.initialized {
		panic(fmt.Errorf("%w: add %s", ErrImmutable, p.Name()))
	}
	if c.pm == nil {
		panic(fmt.Errorf("pass %s scheduled outside of Build", p.Name()))
	}
	c.frozen = true
	if c.err != nil {
		return
	}

	appended, err := c.gate.admit(p.ID())
	if appended {
		c.pm.Add(p)
		c.logf("add %s", p.Name())
	} else {
		c.logf("skip %s (outside start/stop window)", p.Name())
	}
	if err != nil {
		c.err = fmt.Errorf("%w: %s", err, c.session.Registry.Name(c.gate.stopAfter))
	}
}

// AddPass schedules the standard pass kind id after applying target substitutions and command
// line overrides, followed by any passes inserted after it. It returns the kind that was
// scheduled, or pass.None if the pass was suppressed.
func (c *Config) AddPass(id pass.ID) pass.ID {
	targetID := c.Substitution(id)
	finalID, err := overridePass(&c.opts, id, targetID)
	if err != nil {
		panic(fmt.Errorf("%w: %s", err, c.session.Registry.Name(id)))
	}
	if finalID == pass.None {
		c.logf("suppress %s", c.session.Registry.Name(id))
		return pass.None
	}

	p := c.session.Registry.Instantiate(finalID)
	if s, ok := p.(pass.OutputSetter); ok {
		s.SetOutput(c.out)
	}
	c.AddPassInstance(p)

	inserted := lo.Filter(c.insertions, func(ins insertion, _ int) bool { return ins.after == id })
	if len(inserted) > 0 {
		c.inserting++
		if c.inserting > len(c.insertions) {
			panic(fmt.Errorf("%w at %s", ErrInsertionCycle, c.session.Registry.Name(id)))
		}
		for _, ins := range inserted {
			c.AddPass(ins.pass)
		}
		c.inserting--
	}
	return finalID
}

// PrintAndVerify schedules the machine printer and verifier, if requested, with the given banner.
func (c *Config) PrintAndVerify(banner string) {
	if c.printMachineCode {
		c.AddPassInstance(pass.NewMachinePrinter(c.out, banner))
	}
	if c.opts.VerifyMachineCode {
		c.AddPassInstance(pass.NewMachineVerifier(banner))
	}
}

// Build runs the stages and returns the resulting pipeline.
func (c *Config) Build() (*pass.List, error) {
	list := &pass.List{}
	if err := c.BuildInto(list); err != nil {
		return nil, err
	}
	if err := checkPassOrder(list.IDs()); err != nil {
		panic(err)
	}
	return list, nil
}

// BuildInto runs the stages and hands every pass in the window to pm.
// A Config can only be built once.
func (c *Config) BuildInto(pm pass.Manager) error {
	if c.frozen {
		panic(fmt.Errorf("%w: pipeline already built", ErrImmutable))
	}
	c.frozen = true
	c.pm = pm
	c.logf("building pipeline (exceptions=%s, regalloc=%s)", c.target.ExceptionModel(), c.session.Allocators.Choice())

	c.stages.AddIRPasses(c)
	c.stages.AddISelPrepare(c)
	if c.stages.AddInstSelector(c) {
		c.logf("instruction selector added")
	}
	c.stages.AddMachinePasses(c)

	c.initialized = true
	return c.err
}
