// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/hwlib"
)

// maximum number of inputs tested exhaustively
const maxExhaustive = 12

func randBool(rng *rand.Rand) bool {
	return rng.Int63()&(1<<62) != 0
}

// a bench wires one or more parts to a shared set of input signals.
type bench struct {
	inputs  []string
	outputs [][]string // per part
	gates   []gatesim.InstanceRecord
}

func newBench(t testing.TB, parts ...*hwlib.Part) *bench {
	t.Helper()
	b := &bench{}
	for i := range parts[0].Inputs {
		b.inputs = append(b.inputs, fmt.Sprintf("in%d", i))
	}
	for k, p := range parts {
		prefix := fmt.Sprintf("p%d", k)
		conns := make(map[string]string)
		for i, n := range p.Inputs {
			conns[n] = b.inputs[i]
		}
		outs := make([]string, len(p.Outputs))
		for i, n := range p.Outputs {
			outs[i] = fmt.Sprintf("%s_out%d", prefix, i)
			conns[n] = outs[i]
		}
		g, err := p.Instantiate(prefix, conns)
		if err != nil {
			t.Fatal(err)
		}
		b.gates = append(b.gates, g...)
		b.outputs = append(b.outputs, outs)
	}
	return b
}

// run drives each input vector into a fresh simulation of the bench and
// calls check with the settled output values of every part.
func (b *bench) run(t testing.TB, lib *gatesim.Library, vectors [][]bool, check func(in []bool, out [][]bool)) {
	t.Helper()
	nl, err := gatesim.NewNetlist(lib, b.gates, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := nl.Skipped(); len(s) > 0 {
		t.Fatal(s[0])
	}
	out := make([][]bool, len(b.outputs))
	stim := make([]gatesim.Stimulus, len(b.inputs))
	for _, v := range vectors {
		for i, n := range b.inputs {
			stim[i] = gatesim.Stimulus{Signal: n, Value: v[i]}
		}
		sim, err := gatesim.New(nl, stim, gatesim.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if err = sim.Run(); err != nil {
			t.Fatal(err)
		}
		if errs := sim.Errors(); len(errs) > 0 {
			t.Fatal(errs[0])
		}
		for p, outs := range b.outputs {
			out[p] = out[p][:0]
			for _, n := range outs {
				val, err := sim.Signals().Get(n)
				if err != nil {
					t.Fatal(err)
				}
				out[p] = append(out[p], val)
			}
		}
		check(v, out)
	}
}

// vectors returns the input vectors to test: all 0, all 1, then every
// combination for up to 12 inputs or 4096 random vectors above that.
func vectors(n int) [][]bool {
	vs := [][]bool{make([]bool, n), make([]bool, n)}
	for i := range vs[1] {
		vs[1][i] = true
	}
	if n <= maxExhaustive {
		for i := 0; i < 1<<uint(n); i++ {
			v := make([]bool, n)
			for bit := range v {
				v[bit] = i&(1<<uint(bit)) != 0
			}
			vs = append(vs, v)
		}
		return vs
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 1<<maxExhaustive; i++ {
		v := make([]bool, n)
		for bit := range v {
			v[bit] = randBool(rng)
		}
		vs = append(vs, v)
	}
	return vs
}

func errString(p *hwlib.Part, in []bool, oname string, ex, got bool) string {
	var b strings.Builder
	for i, n := range p.Inputs {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", n, in[i])
	}
	return fmt.Sprintf("\n%s: expected %s => %s=%v\nGot %v", p.Name, b.String(), oname, ex, got)
}

// ComparePart takes two parts and compares their outputs given the same
// inputs. Both parts must have the same number of inputs and outputs, which
// are matched by position.
//
func ComparePart(t testing.TB, lib *gatesim.Library, part1, part2 *hwlib.Part) {
	t.Helper()

	if len(part1.Inputs) != len(part2.Inputs) {
		t.Fatalf("%s has %d inputs, %s has %d", part1.Name, len(part1.Inputs), part2.Name, len(part2.Inputs))
	}
	if len(part1.Outputs) != len(part2.Outputs) {
		t.Fatalf("%s has %d outputs, %s has %d", part1.Name, len(part1.Outputs), part2.Name, len(part2.Outputs))
	}

	start := time.Now()
	vs := vectors(len(part1.Inputs))
	newBench(t, part1, part2).run(t, lib, vs, func(in []bool, out [][]bool) {
		for o := range out[0] {
			if out[0][o] != out[1][o] {
				t.Fatal(errString(part2, in, part2.Outputs[o], out[0][o], out[1][o]))
			}
		}
	})
	t.Logf("%s vs %s: %d vectors in %v", part1.Name, part2.Name, len(vs), time.Since(start))
}

// TruthTable checks the outputs of part against fn for every input vector.
//
func TruthTable(t testing.TB, lib *gatesim.Library, part *hwlib.Part, fn func(in []bool) []bool) {
	t.Helper()
	newBench(t, part).run(t, lib, vectors(len(part.Inputs)), func(in []bool, out [][]bool) {
		exp := fn(in)
		for o, v := range out[0] {
			if v != exp[o] {
				t.Fatal(errString(part, in, part.Outputs[o], exp[o], v))
			}
		}
	})
}
