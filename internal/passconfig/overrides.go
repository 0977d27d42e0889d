package passconfig

import (
	"fmt"

	"github.com/iley/cgpipe/internal/pass"
)

type overrideKind int

const (
	// The pass is suppressed when the flag is true; false has no effect.
	disableIfTrue overrideKind = iota
	// The pass follows the target when unset, is suppressed when false and forced on when true.
	tristateEnable
)

type overrideRule struct {
	kind     overrideKind
	disable  func(o *Options) bool
	enable   func(o *Options) Tristate
	fallback pass.ID
}

func disabledBy(flag func(o *Options) bool) overrideRule {
	return overrideRule{kind: disableIfTrue, disable: flag}
}

// Command line overrides for well-known passes, keyed by the standard pass kind.
var overrideRules = map[pass.ID]overrideRule{
	pass.PostRAScheduler:            disabledBy(func(o *Options) bool { return o.DisablePostRA }),
	pass.BranchFolder:               disabledBy(func(o *Options) bool { return o.DisableBranchFold }),
	pass.TailDuplicate:              disabledBy(func(o *Options) bool { return o.DisableTailDuplicate }),
	pass.EarlyTailDuplicate:         disabledBy(func(o *Options) bool { return o.DisableEarlyTailDup }),
	pass.MachineBlockPlacement:      disabledBy(func(o *Options) bool { return o.DisableCodePlace }),
	pass.CodePlacementOpt:           disabledBy(func(o *Options) bool { return o.DisableCodePlace }),
	pass.StackSlotColoring:          disabledBy(func(o *Options) bool { return o.DisableSSC }),
	pass.DeadMachineInstructionElim: disabledBy(func(o *Options) bool { return o.DisableMachineDCE }),
	pass.EarlyIfConverter:           disabledBy(func(o *Options) bool { return !o.EnableEarlyIfConversion }),
	pass.MachineLICM:                disabledBy(func(o *Options) bool { return o.DisableMachineLICM }),
	pass.MachineCSE:                 disabledBy(func(o *Options) bool { return o.DisableMachineCSE }),
	pass.MachineScheduler: {
		kind:     tristateEnable,
		enable:   func(o *Options) Tristate { return o.EnableMachineSched },
		fallback: pass.MachineScheduler,
	},
	pass.PostRAMachineLICM:      disabledBy(func(o *Options) bool { return o.DisablePostRAMachineLICM }),
	pass.MachineSinking:         disabledBy(func(o *Options) bool { return o.DisableMachineSink }),
	pass.MachineCopyPropagation: disabledBy(func(o *Options) bool { return o.DisableCopyProp }),
}

func applyDisable(targetID pass.ID, disable bool) pass.ID {
	if disable {
		return pass.None
	}
	return targetID
}

func applyOverride(targetID pass.ID, t Tristate, standardID pass.ID) (pass.ID, error) {
	switch t {
	case Unset:
		return targetID, nil
	case True:
		if targetID != pass.None {
			return targetID, nil
		}
		if standardID == pass.None {
			return pass.None, ErrCannotEnable
		}
		return standardID, nil
	case False:
		return pass.None, nil
	}
	return pass.None, fmt.Errorf("invalid tri-state value %d", int(t))
}

// overridePass lets the command line suppress or force standard passes regardless of who adds them.
// standardID is the kind requested by the pipeline; targetID is what the target substituted for it.
func overridePass(o *Options, standardID, targetID pass.ID) (pass.ID, error) {
	rule, ok := overrideRules[standardID]
	if !ok {
		return targetID, nil
	}
	switch rule.kind {
	case disableIfTrue:
		return applyDisable(targetID, rule.disable(o)), nil
	case tristateEnable:
		return applyOverride(targetID, rule.enable(o), rule.fallback)
	}
	return targetID, nil
}
