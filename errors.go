// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"fmt"
)

// UnknownGateTypeError is returned when a gate instance references a type
// that is not defined in the library. The instance is skipped.
//
type UnknownGateTypeError struct {
	Instance string
	Type     string
}

func (e *UnknownGateTypeError) Error() string {
	return fmt.Sprintf("gate %s: unknown gate type %q", e.Instance, e.Type)
}

// ArityMismatchError is returned when the number of inputs of a gate instance
// differs from the number of inputs declared by its template. The instance is
// skipped; its input list is never padded or truncated.
//
type ArityMismatchError struct {
	Instance string
	Type     string
	Want     int
	Got      int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("gate %s: type %s expects %d input(s), got %d", e.Instance, e.Type, e.Want, e.Got)
}

// DuplicateError is returned when a gate type or a gate instance is defined
// more than once. The first definition wins.
//
type DuplicateError struct {
	Kind string // "gate type" or "gate"
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q, keeping first definition", e.Kind, e.Name)
}

// UnknownSignalError is returned when looking up or setting a signal that
// was never registered.
//
type UnknownSignalError struct {
	Signal string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("unknown signal %q", e.Signal)
}

// ExpressionError reports a gate expression that could not be compiled or
// evaluated.
//
type ExpressionError struct {
	Gate string // gate instance or template name
	Expr string
	Err  error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("gate %s: expression %q: %v", e.Gate, e.Expr, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// DivergenceError is returned by Simulation.Run when the event or time budget
// is exhausted before the event queue drains, which usually means that the
// circuit contains an oscillating feedback loop.
//
type DivergenceError struct {
	Events uint64 // number of events applied so far
	Time   int64  // simulated time of the offending event
	Limit  string // the limit that was hit
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("simulation diverged at time %d after %d events: %s", e.Time, e.Events, e.Limit)
}
