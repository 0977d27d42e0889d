package passconfig

import (
	"fmt"
	"io"
	"strings"
)

type OptLevel int

const (
	OptNone OptLevel = iota
	OptLess
	OptDefault
	OptAggressive
)

func (l OptLevel) String() string {
	switch l {
	case OptNone:
		return "O0"
	case OptLess:
		return "O1"
	case OptDefault:
		return "O2"
	case OptAggressive:
		return "O3"
	}
	return fmt.Sprintf("OptLevel(%d)", int(l))
}

func OptLevelFromInt(n int) (OptLevel, error) {
	if n < int(OptNone) || n > int(OptAggressive) {
		return OptNone, fmt.Errorf("invalid optimization level: %d", n)
	}
	return OptLevel(n), nil
}

type ExceptionModel int

const (
	ExceptionsNone ExceptionModel = iota
	ExceptionsSjLj
	ExceptionsDwarfCFI
	ExceptionsARM
	ExceptionsWin64
)

func (m ExceptionModel) String() string {
	switch m {
	case ExceptionsNone:
		return "none"
	case ExceptionsSjLj:
		return "sjlj"
	case ExceptionsDwarfCFI:
		return "dwarf-cfi"
	case ExceptionsARM:
		return "arm"
	case ExceptionsWin64:
		return "win64"
	}
	return fmt.Sprintf("ExceptionModel(%d)", int(m))
}

func ExceptionModelFromName(name string) (ExceptionModel, error) {
	for m := ExceptionsNone; m <= ExceptionsWin64; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return ExceptionsNone, fmt.Errorf("unknown exception model: %s", name)
}

// Tristate is a flag that can be left alone, forced on or forced off.
// It implements flag.Value, so "-flag" alone means "-flag=true".
type Tristate int

const (
	Unset Tristate = iota
	True
	False
)

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unset"
}

func (t *Tristate) Set(s string) error {
	switch strings.ToLower(s) {
	case "", "unset", "default":
		*t = Unset
	case "1", "t", "true", "on":
		*t = True
	case "0", "f", "false", "off":
		*t = False
	default:
		return fmt.Errorf("invalid tri-state value %q", s)
	}
	return nil
}

func (t *Tristate) IsBoolFlag() bool {
	return true
}

// Options are the command line switches that influence pipeline construction.
// The zero value is the standard pipeline.
type Options struct {
	DisablePostRA             bool
	DisableBranchFold         bool
	DisableTailDuplicate      bool
	DisableEarlyTailDup       bool
	DisableBlockPlacement     bool // use the legacy code placement pass instead
	EnableBlockPlacementStats bool
	DisableCodePlace          bool
	DisableSSC                bool
	DisableMachineDCE         bool
	EnableEarlyIfConversion   bool
	DisableMachineLICM        bool
	DisableMachineCSE         bool
	OptimizeRegAlloc          Tristate
	EnableMachineSched        Tristate
	EnableStrongPHIElim       bool
	DisablePostRAMachineLICM  bool
	DisableMachineSink        bool
	DisableLSR                bool
	DisableCGP                bool
	DisableCopyProp           bool
	PrintLSR                  bool
	PrintISelInput            bool
	PrintGCInfo               bool
	VerifyMachineCode         bool
	// Experimental: run live interval analysis earlier in the pipeline.
	EarlyLiveIntervals bool

	// PrintMachineCode prints machine code after every major step.
	PrintMachineCode bool
	// PrintAfter names a pass after which machine code is printed.
	PrintAfter string

	StartAfter string
	StopAfter  string

	// Output receives printer output. Defaults to os.Stderr.
	Output io.Writer
}
