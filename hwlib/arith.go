// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/gatesim"
)

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder() *Part {
	return &Part{
		Name:    "HalfAdder",
		Inputs:  []string{pA, pB},
		Outputs: []string{"s", "c"},
		Gates: []gatesim.InstanceRecord{
			{Name: "x", Type: "XOR2", Output: "s", Inputs: []string{pA, pB}},
			{Name: "n", Type: "AND2", Output: "c", Inputs: []string{pA, pB}},
		},
	}
}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder() *Part {
	return &Part{
		Name:    "FullAdder",
		Inputs:  []string{pA, pB, "cin"},
		Outputs: []string{"s", "cout"},
		Gates: []gatesim.InstanceRecord{
			{Name: "x1", Type: "XOR2", Output: "p", Inputs: []string{pA, pB}},
			{Name: "x2", Type: "XOR2", Output: "s", Inputs: []string{"p", "cin"}},
			{Name: "n1", Type: "AND2", Output: "g", Inputs: []string{pA, pB}},
			{Name: "n2", Type: "AND2", Output: "q", Inputs: []string{"p", "cin"}},
			{Name: "o", Type: "OR2", Output: "cout", Inputs: []string{"g", "q"}},
		},
	}
}

// AdderN returns a N-bits ripple carry adder.
//
//	Inputs: a0..a(bits-1), b0..b(bits-1)
//	Outputs: s0..s(bits-1), c
//	Function: s = a + b, c = carry out
//
func AdderN(bits int) *Part {
	p := &Part{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, "s"), "c"),
	}
	carry := "c"
	for i := 0; i < bits; i++ {
		n := strconv.Itoa(i)
		if i < bits-1 {
			carry = "c" + n
		} else {
			carry = "c"
		}
		conns := map[string]string{pA: pA + n, pB: pB + n, "s": "s" + n}
		if i == 0 {
			conns["c"] = carry
			p.Gates = append(p.Gates, must(HalfAdder().Instantiate("ha"+n, conns))...)
			continue
		}
		conns["cin"] = "c" + strconv.Itoa(i-1)
		conns["cout"] = carry
		p.Gates = append(p.Gates, must(FullAdder().Instantiate("fa"+n, conns))...)
	}
	return p
}
