package pass

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iley/cgpipe/internal/util"
)

// OutputSetter is implemented by passes that write diagnostics somewhere.
type OutputSetter interface {
	SetOutput(w io.Writer)
}

// dumpPass prints the unit it runs over. It backs the IR printer, the machine function printer
// and the GC info printer, which only differ in identity and header.
type dumpPass struct {
	id     ID
	name   string
	header string
	banner string
	out    io.Writer
}

func (p *dumpPass) ID() ID {
	return p.id
}

func (p *dumpPass) Name() string {
	return p.name
}

func (p *dumpPass) SetOutput(w io.Writer) {
	p.out = w
}

func (p *dumpPass) Banner() string {
	return p.banner
}

func (p *dumpPass) Run(ctx context.Context, u Unit) error {
	if t, ok := u.(Tracer); ok {
		t.Trace(p.name)
	}
	fmt.Fprintf(p.out, "# %s %s", p.header, util.EscapeString(u.Name()))
	if p.banner != "" {
		fmt.Fprintf(p.out, " (%s)", util.EscapeString(p.banner))
	}
	fmt.Fprintf(p.out, "\n")
	if d, ok := u.(Dumper); ok {
		io.WriteString(p.out, d.Dump(p.banner))
	}
	return nil
}

func NewIRPrinter(out io.Writer, banner string) Pass {
	return &dumpPass{id: IRPrinter, name: Default.Name(IRPrinter), header: "IR for", banner: banner, out: out}
}

func NewMachinePrinter(out io.Writer, banner string) Pass {
	return &dumpPass{id: MachineFunctionPrinter, name: Default.Name(MachineFunctionPrinter), header: "Machine code for", banner: banner, out: out}
}

func NewGCInfoPrinter(out io.Writer) Pass {
	return &dumpPass{id: GCInfoPrinter, name: Default.Name(GCInfoPrinter), header: "GC roots for", out: out}
}

func newIRPrinterFromRegistry(info *Info) Pass {
	return &dumpPass{id: info.ID, name: info.Name, header: "IR for", out: os.Stderr}
}

func newMachinePrinterFromRegistry(info *Info) Pass {
	return &dumpPass{id: info.ID, name: info.Name, header: "Machine code for", out: os.Stderr}
}

func newGCInfoPrinterFromRegistry(info *Info) Pass {
	return &dumpPass{id: info.ID, name: info.Name, header: "GC roots for", out: os.Stderr}
}

type verifierPass struct {
	id     ID
	name   string
	banner string
}

func NewMachineVerifier(banner string) Pass {
	return &verifierPass{id: MachineVerifier, name: Default.Name(MachineVerifier), banner: banner}
}

func newMachineVerifierFromRegistry(info *Info) Pass {
	return &verifierPass{id: info.ID, name: info.Name}
}

func (p *verifierPass) ID() ID {
	return p.id
}

func (p *verifierPass) Name() string {
	return p.name
}

func (p *verifierPass) Banner() string {
	return p.banner
}

func (p *verifierPass) Run(ctx context.Context, u Unit) error {
	if t, ok := u.(Tracer); ok {
		t.Trace(p.name)
	}
	v, ok := u.(Verifier)
	if !ok {
		return nil
	}
	if err := v.Verify(); err != nil {
		if p.banner != "" {
			return fmt.Errorf("bad machine code in %s (%s): %w", u.Name(), p.banner, err)
		}
		return fmt.Errorf("bad machine code in %s: %w", u.Name(), err)
	}
	return nil
}
