package passconfig

import "errors"

// Configuration errors. They are returned to the caller and only abort the current build.
var (
	ErrUnknownPass     = errors.New("unknown pass name")
	ErrStopBeforeStart = errors.New("cannot stop compilation after pass that is not run")
)

// Internal errors. They mean a target description is broken and are raised with panic.
var (
	ErrCannotEnable   = errors.New("target cannot enable pass")
	ErrSelfInsertion  = errors.New("cannot insert a pass after itself")
	ErrNullInsertion  = errors.New("cannot insert the null pass")
	ErrInsertionCycle = errors.New("pass insertions form a cycle")
	ErrImmutable      = errors.New("pass configuration is immutable once construction has begun")
	ErrPassOrder      = errors.New("passes out of order")
)
