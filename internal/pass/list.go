package pass

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Manager receives the passes of a pipeline in order.
type Manager interface {
	Add(p Pass)
}

// List is an ordered pipeline of pass instances. It doubles as a simple sequential pass manager.
type List struct {
	passes []Pass
}

var _ Manager = &List{}

func (l *List) Add(p Pass) {
	l.passes = append(l.passes, p)
}

func (l *List) Len() int {
	return len(l.passes)
}

func (l *List) Passes() []Pass {
	return slices.Clone(l.passes)
}

func (l *List) IDs() []ID {
	return lo.Map(l.passes, func(p Pass, _ int) ID { return p.ID() })
}

func (l *List) Names() []string {
	return lo.Map(l.passes, func(p Pass, _ int) string { return p.Name() })
}

func (l *List) Contains(id ID) bool {
	return lo.Contains(l.IDs(), id)
}

// Index returns the position of the first pass of kind id, or -1.
func (l *List) Index(id ID) int {
	return slices.Index(l.IDs(), id)
}

// Run runs every pass over u in order and stops at the first failure.
func (l *List) Run(ctx context.Context, u Unit) error {
	for i, p := range l.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Run(ctx, u); err != nil {
			return fmt.Errorf("pass #%d %s: %w", i, p.Name(), err)
		}
	}
	return nil
}
