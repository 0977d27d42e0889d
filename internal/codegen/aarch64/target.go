package aarch64

import (
	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/passconfig"
	"github.com/iley/cgpipe/internal/regalloc"
)

var (
	ISel                = pass.Default.Register("aarch64-isel", "AArch64 Instruction Selection", pass.NewOpaque)
	ConditionalCompares = pass.Default.Register("aarch64-ccmp", "AArch64 CCMP Pass", pass.NewOpaque)
	CollectLOH          = pass.Default.Register("aarch64-collect-loh", "AArch64 Collect Linker Optimization Hints", pass.NewOpaque)
)

// Features captures the differences between AArch64 platforms.
type Features struct {
	// Collect linker optimization hints before emission (Mach-O only).
	CollectLOH bool
	// Use the basic allocator instead of greedy for optimized builds.
	BasicRegAlloc bool
	NoTailMerge   bool
}

type Target struct {
	name     string
	features Features
}

func New(name string, features Features) *Target {
	return &Target{name: name, features: features}
}

var _ passconfig.Target = &Target{}

func (t *Target) Name() string {
	return t.name
}

func (t *Target) Features() Features {
	return t.features
}

func (t *Target) ExceptionModel() passconfig.ExceptionModel {
	return passconfig.ExceptionsDwarfCFI
}

func (t *Target) Configure(c *passconfig.Config) {
	// Early if-conversion is supported, it still has to be requested with -enable-early-ifcvt.
	c.SubstitutePass(pass.EarlyIfConverter, pass.EarlyIfConverter)
	if t.features.NoTailMerge {
		c.SetEnableTailMerge(false)
	}
}

func (t *Target) Stages() passconfig.Stages {
	return passconfig.Stages{
		AddIRPasses: func(c *passconfig.Config) {
			passconfig.DefaultIRPasses(c)
			c.Stages().AddPassesToHandleExceptions(c)
		},
		AddInstSelector: func(c *passconfig.Config) bool {
			c.AddPass(ISel)
			return true
		},
		AddPreRegAlloc: func(c *passconfig.Config) bool {
			if c.OptLevel() == passconfig.OptNone {
				return false
			}
			return c.AddPass(ConditionalCompares) != pass.None
		},
		AddPreEmitPass: func(c *passconfig.Config) bool {
			if !t.features.CollectLOH {
				return false
			}
			return c.AddPass(CollectLOH) != pass.None
		},
		CreateTargetRegisterAllocator: func(c *passconfig.Config, optimized bool) pass.ID {
			if optimized && t.features.BasicRegAlloc {
				return pass.RegAllocBasic
			}
			return regalloc.StandardDefault(optimized)
		},
	}
}
