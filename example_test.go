package gatesim_test

import (
	"fmt"

	gs "github.com/db47h/gatesim"
)

// A half adder driven by three stimuli.
//
func Example() {
	lib, err := gs.LoadTemplates([]gs.TemplateRecord{
		{Name: "XOR2", Inputs: 2, Expr: "i1 ^ i2", Delay: 4},
		{Name: "AND2", Inputs: 2, Expr: "(i1&i2)", Delay: 5},
	}, nil)
	if err != nil {
		panic(err)
	}
	nl, err := gs.NewNetlist(lib, []gs.InstanceRecord{
		{Name: "x", Type: "XOR2", Output: "sum", Inputs: []string{"a", "b"}},
		{Name: "c", Type: "AND2", Output: "carry", Inputs: []string{"a", "b"}},
	}, nil)
	if err != nil {
		panic(err)
	}
	sim, err := gs.New(nl, []gs.Stimulus{
		{Time: 0, Signal: "a", Value: true},
		{Time: 10, Signal: "b", Value: true},
		{Time: 20, Signal: "a", Value: false},
	}, gs.Config{})
	if err != nil {
		panic(err)
	}
	if err = sim.Run(); err != nil {
		panic(err)
	}
	tr := sim.Trace()
	tr.Normalize()
	for _, e := range tr.Entries() {
		fmt.Println(e)
	}

	// Output:
	// 0, a, 1
	// 0, carry, 0
	// 0, sum, 1
	// 10, b, 1
	// 14, sum, 0
	// 15, carry, 1
	// 20, a, 0
	// 24, sum, 1
	// 25, carry, 0
}
