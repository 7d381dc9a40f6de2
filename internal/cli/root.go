// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cli implements the gatesim command.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/hwlib"
	"github.com/db47h/gatesim/metrics"
	"github.com/db47h/gatesim/netfile"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Options holds the command line flags.
//
type Options struct {
	Config    string
	Output    string
	MaxEvents uint64
	MaxTime   int64
	TraceMode string
	Builtin   bool
	Metrics   string
	Verbose   bool
}

// NewRootCommand creates the gatesim command.
//
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "gatesim [flags] <library> <circuit> <stimuli>",
		Short: "Event driven gate level logic simulator",
		Long: `Simulate a gate level circuit driven by timed stimuli.

The library file defines gate types, one per line:
  name, inputs, expression, delay
The circuit file defines gate instances:
  name type output input1 ... inputN
The stimuli file defines input changes:
  time signal value

The sorted trace of every signal change is written to the output file.

Example:
  gatesim lib.txt circuit.cir stimuli.stim
  gatesim -o and2.sim --max-events 100000 lib.txt and2.cir and2.stim`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				usage(cmd)
				return NewExitError(ExitCommandError, fmt.Sprintf("expected 3 arguments, got %d", len(args)))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1], args[2])
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		usage(cmd)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", DefaultOutput, "trace output file")
	f.StringVar(&opts.Config, "config", "", "YAML configuration file")
	f.Uint64Var(&opts.MaxEvents, "max-events", 0, "maximum number of applied events, 0 for no limit")
	f.Int64Var(&opts.MaxTime, "max-time", 0, "maximum simulated time, 0 for no limit")
	f.StringVar(&opts.TraceMode, "trace-mode", gatesim.TraceStrict.String(), "trace recording mode (strict|legacy)")
	f.BoolVar(&opts.Builtin, "builtin", false, "add the built-in gate types to the library")
	f.StringVar(&opts.Metrics, "metrics", "", "write Prometheus metrics to this file after the run")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	return cmd
}

// usage prints the command usage to the error stream.
func usage(cmd *cobra.Command) {
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
}

// Execute runs the gatesim command with the given arguments and returns the
// process exit code.
//
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "gatesim:", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// config merges the configuration file, if any, with the flags set on the
// command line.
func (o *Options) config(cmd *cobra.Command) (*FileConfig, error) {
	cfg := &FileConfig{Output: DefaultOutput}
	if o.Config != "" {
		c, err := LoadConfig(o.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = o.Output
	}
	if f.Changed("max-events") {
		cfg.MaxEvents = o.MaxEvents
	}
	if f.Changed("max-time") {
		cfg.MaxTime = o.MaxTime
	}
	if f.Changed("trace-mode") {
		m, err := gatesim.ParseTraceMode(o.TraceMode)
		if err != nil {
			return nil, err
		}
		cfg.TraceMode = m
	}
	if f.Changed("builtin") {
		cfg.Builtin = o.Builtin
	}
	if f.Changed("metrics") {
		cfg.Metrics = o.Metrics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler).With("run", uuid.NewString())
}

func run(cmd *cobra.Command, opts *Options, libPath, cirPath, stimPath string) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration", err)
	}
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	log.Info("loading library", "file", libPath)
	recs, err := netfile.LoadLibrary(libPath)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load library", err)
	}
	lib, err := gatesim.LoadTemplates(recs, log)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load library", err)
	}
	if cfg.Builtin {
		if err = hwlib.Load(lib, log); err != nil {
			return WrapExitError(ExitFailure, "failed to load built-in gate types", err)
		}
	}

	log.Info("loading circuit", "file", cirPath)
	insts, err := netfile.LoadCircuit(cirPath)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load circuit", err)
	}
	nl, err := gatesim.NewNetlist(lib, insts, log)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load circuit", err)
	}

	log.Info("loading stimuli", "file", stimPath)
	stim, err := netfile.LoadStimuli(stimPath)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load stimuli", err)
	}

	var reg *prometheus.Registry
	if cfg.Metrics != "" {
		reg = prometheus.NewRegistry()
		cfg.Observer = metrics.New(reg)
	}
	cfg.Logger = log
	sim, err := gatesim.New(nl, stim, cfg.Config)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to start simulation", err)
	}

	runErr := sim.Run()
	tr := sim.Trace()
	tr.Normalize()
	if err = netfile.CreateTrace(cfg.Output, tr.Entries()); err != nil {
		return WrapExitError(ExitFailure, "failed to write trace", err)
	}
	if reg != nil {
		if err = prometheus.WriteToTextfile(cfg.Metrics, reg); err != nil {
			return WrapExitError(ExitFailure, "failed to write metrics", err)
		}
	}

	st := sim.Stats()
	log.Info("simulation complete",
		"gates", len(nl.Gates()),
		"skipped", len(nl.Skipped()),
		"events", st.Events,
		"scheduled", st.Scheduled,
		"time", st.Time,
		"trace", tr.Len(),
		"output", cfg.Output)

	if runErr != nil {
		return WrapExitError(ExitFailure, "simulation aborted", runErr)
	}
	if errs := sim.Errors(); len(errs) > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d gate evaluation error(s)", len(errs)), errs[0])
	}
	return nil
}
