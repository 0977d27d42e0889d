package passconfig

import "github.com/iley/cgpipe/internal/pass"

// gate decides which scheduled passes end up in the pipeline when compilation is limited to a
// window with -start-after and -stop-after. Passes outside the window are still scheduled, so
// the stage logic runs to completion, but they are not handed to the pass manager.
type gate struct {
	startAfter pass.ID
	stopAfter  pass.ID
	started    bool
	stopped    bool
}

func newGate(startAfter, stopAfter pass.ID) gate {
	return gate{
		startAfter: startAfter,
		stopAfter:  stopAfter,
		started:    startAfter == pass.None,
	}
}

// admit reports whether a pass of kind id is inside the window and moves the window past it.
// The start boundary itself is excluded; the stop boundary itself is included.
func (g *gate) admit(id pass.ID) (bool, error) {
	appended := g.started && !g.stopped
	if g.stopAfter != pass.None && id == g.stopAfter {
		g.stopped = true
	}
	if g.startAfter != pass.None && id == g.startAfter {
		g.started = true
	}
	if g.stopped && !g.started {
		return appended, ErrStopBeforeStart
	}
	return appended, nil
}
