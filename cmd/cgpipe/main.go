package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/iley/cgpipe/internal/codegen"
	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/passconfig"
	"github.com/iley/cgpipe/internal/regalloc"
)

func getDefaultTarget() string {
	switch runtime.GOOS {
	case "darwin":
		return "aarch64-darwin"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "aarch64-linux"
		}
		return "x86_64-linux"
	default:
		return "x86_64-linux"
	}
}

// printMachineInstrs implements -print-machineinstrs[=<pass>].
type printMachineInstrs struct {
	all   bool
	after string
}

func (p *printMachineInstrs) String() string {
	if p.after != "" {
		return p.after
	}
	if p.all {
		return "true"
	}
	return ""
}

func (p *printMachineInstrs) Set(s string) error {
	if s == "true" || s == "" {
		p.all = true
		return nil
	}
	p.after = s
	return nil
}

func (p *printMachineInstrs) IsBoolFlag() bool {
	return true
}

func main() {
	var opts passconfig.Options
	var printMI printMachineInstrs

	outputString := flag.String("o", "-", "output file name")
	optLevelInt := flag.Int("O", 2, "optimization level (0-3)")
	targetString := flag.String("t", getDefaultTarget(), "target architecture")
	regAllocString := flag.String("regalloc", regalloc.DefaultName, "register allocator to use: "+strings.Join(regalloc.Allocators.Names(), ", "))
	run := flag.Bool("run", false, "run the pipeline over each unit after building it")
	arguments := flag.Bool("arguments", false, "print each pipeline as a single line of pass arguments")
	debugPass := flag.Bool("debug-pass", false, "trace pipeline construction on stderr")
	listPasses := flag.Bool("list-passes", false, "list registered passes and exit")
	jobs := flag.Int("j", runtime.NumCPU(), "number of pipelines to build in parallel")

	flag.BoolVar(&opts.DisablePostRA, "disable-post-ra", false, "disable post regalloc scheduling")
	flag.BoolVar(&opts.DisableBranchFold, "disable-branch-fold", false, "disable branch folding")
	flag.BoolVar(&opts.DisableTailDuplicate, "disable-tail-duplicate", false, "disable tail duplication")
	flag.BoolVar(&opts.DisableEarlyTailDup, "disable-early-taildup", false, "disable pre-register allocation tail duplication")
	flag.BoolVar(&opts.DisableBlockPlacement, "disable-block-placement", false, "disable probability-driven block placement and use the old code placement pass")
	flag.BoolVar(&opts.EnableBlockPlacementStats, "enable-block-placement-stats", false, "collect probability-driven block placement stats")
	flag.BoolVar(&opts.DisableCodePlace, "disable-code-place", false, "disable code placement")
	flag.BoolVar(&opts.DisableSSC, "disable-ssc", false, "disable stack slot coloring")
	flag.BoolVar(&opts.DisableMachineDCE, "disable-machine-dce", false, "disable machine dead code elimination")
	flag.BoolVar(&opts.EnableEarlyIfConversion, "enable-early-ifcvt", false, "enable early if-conversion")
	flag.BoolVar(&opts.DisableMachineLICM, "disable-machine-licm", false, "disable machine LICM")
	flag.BoolVar(&opts.DisableMachineCSE, "disable-machine-cse", false, "disable machine common subexpression elimination")
	flag.Var(&opts.OptimizeRegAlloc, "optimize-regalloc", "enable the optimized register allocation path (true/false)")
	flag.Var(&opts.EnableMachineSched, "enable-misched", "enable the machine instruction scheduling pass (true/false)")
	flag.BoolVar(&opts.EnableStrongPHIElim, "strong-phi-elim", false, "use strong PHI elimination")
	flag.BoolVar(&opts.DisablePostRAMachineLICM, "disable-postra-machine-licm", false, "disable post-RA machine LICM")
	flag.BoolVar(&opts.DisableMachineSink, "disable-machine-sink", false, "disable machine sinking")
	flag.BoolVar(&opts.DisableLSR, "disable-lsr", false, "disable loop strength reduction")
	flag.BoolVar(&opts.DisableCGP, "disable-cgp", false, "disable codegen prepare")
	flag.BoolVar(&opts.DisableCopyProp, "disable-copyprop", false, "disable copy propagation")
	flag.BoolVar(&opts.PrintLSR, "print-lsr-output", false, "print IR produced by loop strength reduction")
	flag.BoolVar(&opts.PrintISelInput, "print-isel-input", false, "print IR input to instruction selection")
	flag.BoolVar(&opts.PrintGCInfo, "print-gc", false, "dump garbage collector data")
	flag.BoolVar(&opts.VerifyMachineCode, "verify-machineinstrs", os.Getenv("CGPIPE_VERIFY_MACHINEINSTRS") != "", "verify generated machine code")
	flag.BoolVar(&opts.EarlyLiveIntervals, "early-live-intervals", false, "run live interval analysis earlier in the pipeline")
	flag.Var(&printMI, "print-machineinstrs", "print machine instrs after every step, or with =<pass> after the named pass")
	flag.StringVar(&opts.StartAfter, "start-after", "", "resume compilation after the named pass")
	flag.StringVar(&opts.StopAfter, "stop-after", "", "stop compilation after the named pass")
	flag.Parse()

	if *listPasses {
		for _, name := range pass.Default.Names() {
			id, _ := pass.Default.Lookup(name)
			info, _ := pass.Default.Info(id)
			fmt.Printf("%-32s %s\n", name, info.Description)
		}
		return
	}

	if len(flag.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cgpipe [options] <unit>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opts.PrintMachineCode = printMI.all
	opts.PrintAfter = printMI.after

	optLevel, err := passconfig.OptLevelFromInt(*optLevelInt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	target, err := codegen.TargetFromName(*targetString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing target: %v\n", err)
		os.Exit(1)
	}

	session, err := passconfig.NewSession(*regAllocString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *debugPass {
		session.Log = log.New(os.Stderr, "cgpipe: ", 0)
	}

	var output io.Writer
	if *outputString == "-" {
		output = os.Stdout
	} else {
		outputFile, err := os.Create(*outputString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := outputFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		output = outputFile
	}

	format := codegen.FormatStructure
	if *arguments {
		format = codegen.FormatArguments
	}

	err = codegen.Generate(context.Background(), output, session, codegen.Request{
		Target:  target,
		Level:   optLevel,
		Options: opts,
		Units:   flag.Args(),
		Run:     *run,
		Format:  format,
		Jobs:    *jobs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building pipeline: %v\n", err)
		os.Exit(1)
	}
}
