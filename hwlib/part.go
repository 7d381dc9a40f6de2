// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// make a bus: bus(2, "a", "b") returns a0, a1, b0, b1.
func bus(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = n + strconv.Itoa(j)
		}
	}
	return b
}

// A Part is a reusable sub-circuit. Its gates are wired to the part's input
// and output pins and to internal signals, all by local name.
//
type Part struct {
	Name    string
	Inputs  []string
	Outputs []string
	Gates   []gatesim.InstanceRecord
}

// GatePart returns a part made of a single gate of type t, with inputs in1 to
// inN and output out.
//
func GatePart(t *gatesim.Template) *Part {
	p := &Part{
		Name:    t.Name,
		Outputs: []string{pOut},
	}
	for i := 1; i <= t.Inputs; i++ {
		p.Inputs = append(p.Inputs, pIn+strconv.Itoa(i))
	}
	p.Gates = []gatesim.InstanceRecord{{Name: "g", Type: t.Name, Output: pOut, Inputs: p.Inputs}}
	return p
}

func (p *Part) isPin(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// Instantiate returns the gates of p wired into an enclosing circuit.
//
// conns maps pin names of p to signal names of the circuit. Every input pin
// must be connected. Unconnected outputs and internal signals are renamed to
// prefix_name, as are gate instances.
//
func (p *Part) Instantiate(prefix string, conns map[string]string) ([]gatesim.InstanceRecord, error) {
	for pin := range conns {
		if !p.isPin(pin) {
			return nil, errors.Errorf("%s %s: no pin named %q", p.Name, prefix, pin)
		}
	}
	for _, pin := range p.Inputs {
		if _, ok := conns[pin]; !ok {
			return nil, errors.Errorf("%s %s: input pin %q not connected", p.Name, prefix, pin)
		}
	}
	sig := func(n string) string {
		if s, ok := conns[n]; ok {
			return s
		}
		return prefix + "_" + n
	}
	out := make([]gatesim.InstanceRecord, len(p.Gates))
	for i, g := range p.Gates {
		in := make([]string, len(g.Inputs))
		for j, n := range g.Inputs {
			in[j] = sig(n)
		}
		out[i] = gatesim.InstanceRecord{Name: prefix + "_" + g.Name, Type: g.Type, Output: sig(g.Output), Inputs: in}
	}
	return out, nil
}

// must instantiates sub-parts of the parts defined in this package, where
// wiring errors are programming errors.
func must(recs []gatesim.InstanceRecord, err error) []gatesim.InstanceRecord {
	if err != nil {
		panic(err)
	}
	return recs
}
