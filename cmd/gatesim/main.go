// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command gatesim runs an event driven gate level simulation.
//
//	gatesim [flags] <library> <circuit> <stimuli>
//
// Run gatesim --help for the list of flags.
package main

import (
	"os"

	"github.com/db47h/gatesim/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
