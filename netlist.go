// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"log/slog"

	"github.com/db47h/gatesim/internal/hdl"
	"github.com/pkg/errors"
)

// InstanceRecord is a raw gate instance as read from a circuit file.
//
type InstanceRecord struct {
	Name   string
	Type   string
	Output string
	Inputs []string
}

// A Gate is a gate instance bound to concrete signals. Gates are immutable.
//
type Gate struct {
	Name   string
	Type   *Template
	Inputs []string
	Output string
	Delay  int64
	prog   hdl.Program
}

// BindInstance resolves the type of rec in lib and binds the template
// placeholders to the instance input signals.
//
// It returns an *UnknownGateTypeError if the type is not in lib, and an
// *ArityMismatchError if the input count does not match the template.
//
func BindInstance(rec InstanceRecord, lib *Library) (*Gate, error) {
	if !hdl.IsName(rec.Name) {
		return nil, errors.Errorf("invalid gate name %q", rec.Name)
	}
	if !hdl.IsName(rec.Output) {
		return nil, errors.Errorf("gate %s: invalid output signal name %q", rec.Name, rec.Output)
	}
	for _, in := range rec.Inputs {
		if !hdl.IsName(in) {
			return nil, errors.Errorf("gate %s: invalid input signal name %q", rec.Name, in)
		}
	}
	t, ok := lib.Lookup(rec.Type)
	if !ok {
		return nil, errors.WithStack(&UnknownGateTypeError{Instance: rec.Name, Type: rec.Type})
	}
	if len(rec.Inputs) != t.Inputs {
		return nil, errors.WithStack(&ArityMismatchError{Instance: rec.Name, Type: t.Name, Want: t.Inputs, Got: len(rec.Inputs)})
	}
	p, err := t.prog.Bind(rec.Inputs)
	if err != nil {
		return nil, errors.WithStack(&ExpressionError{Gate: rec.Name, Expr: t.Expr, Err: err})
	}
	inputs := make([]string, len(rec.Inputs))
	copy(inputs, rec.Inputs)
	return &Gate{
		Name:   rec.Name,
		Type:   t,
		Inputs: inputs,
		Output: rec.Output,
		Delay:  t.Delay,
		prog:   p,
	}, nil
}

// Postfix returns the compiled expression of the gate, bound to its input
// signals.
//
func (g *Gate) Postfix() string { return g.prog.String() }

// Eval evaluates the gate output against the current signal values.
//
func (g *Gate) Eval(s *SignalTable) (bool, error) {
	v, err := g.prog.Eval(s.Get)
	if err != nil {
		var ee *hdl.EvalError
		if errors.As(err, &ee) {
			return false, errors.WithStack(&ExpressionError{Gate: g.Name, Expr: g.Postfix(), Err: err})
		}
		return false, errors.Wrapf(err, "gate %s", g.Name)
	}
	return v, nil
}

// A Netlist is a set of gate instances together with a fan-out index mapping
// each signal to the gates that read it.
//
type Netlist struct {
	gates   []*Gate
	byName  map[string]*Gate
	fanout  map[string][]*Gate
	drivers map[string][]*Gate
	signals []string
	known   map[string]bool
	skipped []error
}

// NewNetlist binds the given gate instances against lib.
//
// Unknown gate types, arity mismatches and duplicate instance names are
// recoverable: the offending instance is logged, recorded in Skipped and
// loading continues. Any other error aborts.
//
func NewNetlist(lib *Library, recs []InstanceRecord, log *slog.Logger) (*Netlist, error) {
	log = Logger(log)
	n := &Netlist{
		byName:  make(map[string]*Gate),
		fanout:  make(map[string][]*Gate),
		drivers: make(map[string][]*Gate),
		known:   make(map[string]bool),
	}
	for _, r := range recs {
		g, err := BindInstance(r, lib)
		if err == nil {
			err = n.Add(g)
		}
		if err != nil {
			if !recoverable(err) {
				return nil, err
			}
			log.Warn("skipping gate", "gate", r.Name, "error", err)
			n.skipped = append(n.skipped, err)
			continue
		}
		if len(n.drivers[g.Output]) > 1 {
			log.Warn("signal driven by more than one gate", "signal", g.Output, "gate", g.Name)
		}
		log.Debug("gate", "gate", g.Name, "type", g.Type.Name, "output", g.Output, "inputs", g.Inputs, "postfix", g.Postfix(), "delay", g.Delay)
	}
	return n, nil
}

func recoverable(err error) bool {
	var (
		ut *UnknownGateTypeError
		am *ArityMismatchError
		de *DuplicateError
	)
	return errors.As(err, &ut) || errors.As(err, &am) || errors.As(err, &de)
}

// Add adds g to the netlist and indexes its inputs. It returns a
// *DuplicateError if a gate with the same name exists.
//
func (n *Netlist) Add(g *Gate) error {
	if _, ok := n.byName[g.Name]; ok {
		return errors.WithStack(&DuplicateError{Kind: "gate", Name: g.Name})
	}
	n.gates = append(n.gates, g)
	n.byName[g.Name] = g
	for i, in := range g.Inputs {
		n.addSignal(in)
		if !contains(g.Inputs[:i], in) {
			n.fanout[in] = append(n.fanout[in], g)
		}
	}
	n.addSignal(g.Output)
	n.drivers[g.Output] = append(n.drivers[g.Output], g)
	return nil
}

func (n *Netlist) addSignal(s string) {
	if !n.known[s] {
		n.known[s] = true
		n.signals = append(n.signals, s)
	}
}

func contains(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Gates returns the gates in the order they were added.
//
func (n *Netlist) Gates() []*Gate { return n.gates }

// Gate returns the named gate.
//
func (n *Netlist) Gate(name string) (*Gate, bool) {
	g, ok := n.byName[name]
	return g, ok
}

// Fanout returns the gates that read the given signal, in netlist order.
//
func (n *Netlist) Fanout(signal string) []*Gate { return n.fanout[signal] }

// Drivers returns the gates whose output is the given signal.
//
func (n *Netlist) Drivers(signal string) []*Gate { return n.drivers[signal] }

// Signals returns every signal referenced by a gate, in order of first
// reference.
//
func (n *Netlist) Signals() []string { return n.signals }

// Skipped returns the recoverable errors encountered while building the
// netlist.
//
func (n *Netlist) Skipped() []error { return n.skipped }
