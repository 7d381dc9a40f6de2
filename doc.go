/*
Package gatesim provides an event driven, delay annotated, gate level logic
simulator.

Gate types are described by templates: a boolean expression over the
positional placeholders i1..iN, using the operators ~ (NOT), & (AND), | (OR)
and ^ (XOR), together with a propagation delay:

	lib, err := gatesim.LoadTemplates([]gatesim.TemplateRecord{
		{Name: "AND2", Inputs: 2, Expr: "(i1&i2)", Delay: 5},
	}, nil)

Gate instances bind a template to concrete signals:

	nl, err := gatesim.NewNetlist(lib, []gatesim.InstanceRecord{
		{Name: "g1", Type: "AND2", Output: "out", Inputs: []string{"a", "b"}},
	}, nil)

A Simulation then drives the netlist with timed stimuli. Each applied event
updates one signal and re-evaluates the gates that read it; a gate whose
output changes schedules a new event after its delay:

	sim, err := gatesim.New(nl, []gatesim.Stimulus{
		{Time: 0, Signal: "a", Value: true},
		{Time: 10, Signal: "b", Value: true},
	}, gatesim.Config{})
	err = sim.Run()
	sim.Trace().Normalize()

Events scheduled for the same time are applied in the order they were
scheduled, so a simulation is fully deterministic.

*/
package gatesim
