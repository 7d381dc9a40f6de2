// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/gatesim"
)

// Mux4 returns a 4 way multiplexer.
//
//	Inputs: a, b, c, d, sel0, sel1
//	Outputs: out
//	Function: out = [a, b, c, d][sel1*2 + sel0]
//
func Mux4() *Part {
	return &Part{
		Name:    "Mux4",
		Inputs:  []string{pA, pB, "c", "d", "sel0", "sel1"},
		Outputs: []string{pOut},
		Gates: []gatesim.InstanceRecord{
			{Name: "m0", Type: "MUX2", Output: "ab", Inputs: []string{pA, pB, "sel0"}},
			{Name: "m1", Type: "MUX2", Output: "cd", Inputs: []string{"c", "d", "sel0"}},
			{Name: "m2", Type: "MUX2", Output: pOut, Inputs: []string{"ab", "cd", "sel1"}},
		},
	}
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux() *Part {
	return &Part{
		Name:    "DMux",
		Inputs:  []string{pIn, pSel},
		Outputs: []string{pA, pB},
		Gates: []gatesim.InstanceRecord{
			{Name: "n", Type: "NOT", Output: "nsel", Inputs: []string{pSel}},
			{Name: "ga", Type: "AND2", Output: pA, Inputs: []string{pIn, "nsel"}},
			{Name: "gb", Type: "AND2", Output: pB, Inputs: []string{pIn, pSel}},
		},
	}
}
