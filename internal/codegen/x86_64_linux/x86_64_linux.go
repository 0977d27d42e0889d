package x86_64_linux

import (
	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/passconfig"
)

const Name = "x86_64-linux"

var (
	ISel          = pass.Default.Register("x86-isel", "X86 DAG->DAG Instruction Selection", pass.NewOpaque)
	GlobalBaseReg = pass.Default.Register("x86-global-base-reg", "X86 PIC Global Base Reg Initialization", pass.NewOpaque)
	VZeroUpper    = pass.Default.Register("x86-vzeroupper", "X86 vzeroupper inserter", pass.NewOpaque)
	FixupBWInsts  = pass.Default.Register("x86-fixup-bw-insts", "X86 Byte/Word Instruction Fixup", pass.NewOpaque)
)

type Target struct{}

func New() *Target {
	return &Target{}
}

var _ passconfig.Target = &Target{}

func (t *Target) Name() string {
	return Name
}

func (t *Target) ExceptionModel() passconfig.ExceptionModel {
	return passconfig.ExceptionsDwarfCFI
}

func (t *Target) Configure(c *passconfig.Config) {
	// AVX/SSE transition penalties are avoided at every optimization level.
	c.InsertPass(pass.ExpandPostRAPseudos, VZeroUpper)
}

func (t *Target) Stages() passconfig.Stages {
	return passconfig.Stages{
		AddIRPasses: func(c *passconfig.Config) {
			passconfig.DefaultIRPasses(c)
			c.Stages().AddPassesToHandleExceptions(c)
		},
		AddInstSelector: func(c *passconfig.Config) bool {
			c.AddPass(ISel)
			c.AddPass(GlobalBaseReg)
			return true
		},
		AddPreEmitPass: func(c *passconfig.Config) bool {
			if c.OptLevel() == passconfig.OptNone {
				return false
			}
			return c.AddPass(FixupBWInsts) != pass.None
		},
	}
}
