package pass

import (
	"context"
	"errors"
	"fmt"
)

/*
Pass identities and runnable passes.

Every schedulable pass kind is identified by an ID handed out by a Registry when the kind is
registered. IDs are small integers so they can be compared with == and used as map keys.
The zero ID (None) never names a pass: it means "no pass" and is what a suppressed pass
resolves to.

Pseudo kinds (e.g. EarlyTailDuplicate) are ordinary registry entries without a factory. They only
exist so that a pipeline can refer to "tail duplication, early in the pipeline" and have it resolved
to a real pass by substitution.
*/

type ID int

const None ID = 0

var (
	ErrNotRegistered    = errors.New("pass ID not registered")
	ErrNoImplementation = errors.New("pass has no implementation")
	ErrDuplicatePass    = errors.New("pass registered twice")
)

// Unit is the in-memory program representation a pipeline runs over.
type Unit interface {
	Name() string
}

// Tracer is implemented by units that want to know which passes ran over them.
type Tracer interface {
	Trace(passName string)
}

// Verifier is implemented by units that can check their own consistency.
type Verifier interface {
	Verify() error
}

// Dumper is implemented by units that can print themselves.
type Dumper interface {
	Dump(banner string) string
}

type Pass interface {
	ID() ID
	Name() string
	Run(ctx context.Context, u Unit) error
}

type Factory func(info *Info) Pass

type Info struct {
	ID          ID
	Name        string
	Description string
	Factory     Factory
}

func (i *Info) IsPseudo() bool {
	return i.Factory == nil
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (%d)", i.Name, i.ID)
}

// Opaque is a pass whose work happens elsewhere. Running it only records the pass on the unit.
type Opaque struct {
	info *Info
}

func NewOpaque(info *Info) Pass {
	return &Opaque{info: info}
}

func (p *Opaque) ID() ID {
	return p.info.ID
}

func (p *Opaque) Name() string {
	return p.info.Name
}

func (p *Opaque) Run(ctx context.Context, u Unit) error {
	if t, ok := u.(Tracer); ok {
		t.Trace(p.info.Name)
	}
	return nil
}
