// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of built-in gate types and reusable
// parts for gatesim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"log/slog"

	"github.com/db47h/gatesim"
)

// Built-in gate types. Every gate reads its inputs as i1..iN:
//
//	NOT    out = !i1
//	BUF    out = i1
//	AND2   out = i1 && i2
//	AND3   out = i1 && i2 && i3
//	NAND2  out = !(i1 && i2)
//	NAND3  out = !(i1 && i2 && i3)
//	OR2    out = i1 || i2
//	OR3    out = i1 || i2 || i3
//	NOR2   out = !(i1 || i2)
//	NOR3   out = !(i1 || i2 || i3)
//	XOR2   out = i1 != i2
//	XNOR2  out = i1 == i2
//	MUX2   if i3 { out = i2 } else { out = i1 }
//
var gates = []gatesim.TemplateRecord{
	{Name: "NOT", Inputs: 1, Expr: "~i1", Delay: 1},
	{Name: "BUF", Inputs: 1, Expr: "i1", Delay: 1},
	{Name: "AND2", Inputs: 2, Expr: "i1 & i2", Delay: 2},
	{Name: "AND3", Inputs: 3, Expr: "i1 & i2 & i3", Delay: 3},
	{Name: "NAND2", Inputs: 2, Expr: "~(i1 & i2)", Delay: 1},
	{Name: "NAND3", Inputs: 3, Expr: "~(i1 & i2 & i3)", Delay: 2},
	{Name: "OR2", Inputs: 2, Expr: "i1 | i2", Delay: 2},
	{Name: "OR3", Inputs: 3, Expr: "i1 | i2 | i3", Delay: 3},
	{Name: "NOR2", Inputs: 2, Expr: "~(i1 | i2)", Delay: 1},
	{Name: "NOR3", Inputs: 3, Expr: "~(i1 | i2 | i3)", Delay: 2},
	{Name: "XOR2", Inputs: 2, Expr: "i1 ^ i2", Delay: 3},
	{Name: "XNOR2", Inputs: 2, Expr: "~(i1 ^ i2)", Delay: 3},
	{Name: "MUX2", Inputs: 3, Expr: "(i1 & ~i3) | (i2 & i3)", Delay: 3},
}

// Templates returns the built-in gate type definitions.
//
func Templates() []gatesim.TemplateRecord {
	out := make([]gatesim.TemplateRecord, len(gates))
	copy(out, gates)
	return out
}

// Load adds the built-in gate types to lib. Types already defined in lib are
// kept, so built-ins never override user definitions.
//
func Load(lib *gatesim.Library, log *slog.Logger) error {
	log = gatesim.Logger(log)
	for _, r := range gates {
		if _, ok := lib.Lookup(r.Name); ok {
			continue
		}
		t, err := gatesim.NewTemplate(r)
		if err != nil {
			return err
		}
		if err = lib.Add(t); err != nil {
			return err
		}
		log.Debug("built-in gate type", "type", t.Name, "postfix", t.Postfix(), "delay", t.Delay)
	}
	return nil
}

// NewLibrary returns a library holding only the built-in gate types.
//
func NewLibrary() *gatesim.Library {
	lib := gatesim.NewLibrary()
	if err := Load(lib, nil); err != nil {
		panic(err)
	}
	return lib
}
