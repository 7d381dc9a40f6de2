// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"github.com/pkg/errors"
)

// A SignalTable holds the current value of every known signal.
//
// Signals must be registered before use: Get and Set on an unregistered name
// return an *UnknownSignalError instead of silently creating the signal.
// Newly registered signals are false (0).
//
type SignalTable struct {
	ids    map[string]int
	names  []string
	values []bool
}

// NewSignalTable returns an empty signal table.
//
func NewSignalTable() *SignalTable {
	return &SignalTable{ids: make(map[string]int)}
}

// InitialSignalState returns a new table where every input and output signal
// of the netlist gates is registered with value false.
//
func InitialSignalState(n *Netlist) *SignalTable {
	t := NewSignalTable()
	for _, s := range n.Signals() {
		t.Register(s)
	}
	return t
}

// Register registers the named signal and returns its id. Registering an
// existing signal returns its id and leaves its value untouched.
//
func (t *SignalTable) Register(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	t.values = append(t.values, false)
	return id
}

// Lookup returns the id of the named signal.
//
func (t *SignalTable) Lookup(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Get returns the current value of the named signal.
//
func (t *SignalTable) Get(name string) (bool, error) {
	id, ok := t.ids[name]
	if !ok {
		return false, errors.WithStack(&UnknownSignalError{Signal: name})
	}
	return t.values[id], nil
}

// Set unconditionally overwrites the value of the named signal.
//
func (t *SignalTable) Set(name string, v bool) error {
	id, ok := t.ids[name]
	if !ok {
		return errors.WithStack(&UnknownSignalError{Signal: name})
	}
	t.values[id] = v
	return nil
}

// Len returns the number of registered signals.
//
func (t *SignalTable) Len() int { return len(t.names) }

// Names returns the signal names in registration order.
//
func (t *SignalTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Snapshot returns a copy of all signal values.
//
func (t *SignalTable) Snapshot() map[string]bool {
	m := make(map[string]bool, len(t.names))
	for i, n := range t.names {
		m[n] = t.values[i]
	}
	return m
}
