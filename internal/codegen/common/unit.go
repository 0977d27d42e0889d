package common

import (
	"fmt"
	"strings"
	"sync"

	"github.com/iley/cgpipe/internal/pass"
)

// Unit is a translation unit as seen by the pipeline. The passes are opaque, so all it keeps is
// the record of which passes ran over it.
type Unit struct {
	name string

	mu     sync.Mutex
	trace  []string
	broken error
}

var (
	_ pass.Unit     = &Unit{}
	_ pass.Tracer   = &Unit{}
	_ pass.Verifier = &Unit{}
	_ pass.Dumper   = &Unit{}
)

func NewUnit(name string) *Unit {
	return &Unit{name: name}
}

func (u *Unit) Name() string {
	return u.name
}

func (u *Unit) Trace(passName string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.trace = append(u.trace, passName)
}

func (u *Unit) Passes() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.trace...)
}

// MarkBroken makes every later verification fail with err.
func (u *Unit) MarkBroken(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.broken = err
}

func (u *Unit) Verify() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.broken
}

func (u *Unit) Dump(banner string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %d passes so far", len(u.trace))
	if len(u.trace) > 0 {
		fmt.Fprintf(&sb, ", last: %s", u.trace[len(u.trace)-1])
	}
	sb.WriteString("\n")
	return sb.String()
}
