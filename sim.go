// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/db47h/gatesim/internal/hdl"
	"github.com/pkg/errors"
)

// Stimulus is an externally driven signal value at a given time.
//
type Stimulus struct {
	Time   int64
	Signal string
	Value  bool
}

// An Observer is notified of engine activity. Observer methods are called
// synchronously from the simulation loop.
//
type Observer interface {
	// EventApplied is called after e has been applied to the signal table
	// and recorded, before the fan-out of e.Signal is evaluated.
	EventApplied(e Event)
	// GateEvaluated is called for every gate evaluated in response to an
	// event. changed reports whether value differs from the recorded output
	// value of g.
	GateEvaluated(g *Gate, value, changed bool)
	// EventScheduled is called when the output change of g, caused by
	// cause, has been scheduled as e.
	EventScheduled(cause Event, g *Gate, e Event)
}

// Stats holds simulation counters.
//
type Stats struct {
	Events      uint64 // applied events
	Scheduled   uint64 // gate output events scheduled
	Evaluations uint64 // gate evaluations triggered by events
	Time        int64  // time of the last applied event
}

// Simulation is a runnable event driven simulation of a netlist. It owns the
// signal table, the event queue and the trace.
//
// A Simulation is not safe for concurrent use.
//
type Simulation struct {
	cfg     Config
	log     *slog.Logger
	obs     Observer
	netlist *Netlist
	signals *SignalTable
	queue   eventQueue
	trace   Trace
	stats   Stats
	errs    []error
}

// New builds a new simulation for the given netlist and stimuli.
//
// Every signal referenced by the netlist or the stimuli is registered with
// value 0. The stimuli scheduled at time 0 are then applied and the circuit
// is settled: gates are evaluated in netlist order, updating their outputs
// in place, until no output changes. The settled value of every gate output
// is recorded in the trace at time 0. Finally, every stimulus is queued as
// an event.
//
// Settling takes at most one pass per gate plus one. A circuit that does not
// settle (an oscillating loop) is logged and simulated from the state
// reached after the last pass.
//
func New(n *Netlist, stimuli []Stimulus, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:     cfg,
		log:     Logger(cfg.Logger),
		obs:     cfg.Observer,
		netlist: n,
		signals: InitialSignalState(n),
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	for i, st := range stimuli {
		if st.Time < 0 {
			return nil, errors.Errorf("stimulus %d: negative time %d for signal %s", i+1, st.Time, st.Signal)
		}
		if !hdl.IsName(st.Signal) {
			return nil, errors.Errorf("stimulus %d: invalid signal name %q", i+1, st.Signal)
		}
		s.signals.Register(st.Signal)
	}
	s.seed(stimuli)
	return s, nil
}

func (s *Simulation) seed(stimuli []Stimulus) {
	for _, st := range stimuli {
		if st.Time == 0 {
			_ = s.signals.Set(st.Signal, st.Value)
		}
	}

	s.settle()

	recorded := make(map[string]bool)
	for _, g := range s.netlist.Gates() {
		if recorded[g.Output] {
			continue
		}
		recorded[g.Output] = true
		v, _ := s.signals.Get(g.Output)
		s.trace.Append(Entry{Time: 0, Signal: g.Output, Value: v})
	}

	for _, st := range stimuli {
		s.queue.schedule(Event{Time: st.Time, Signal: st.Signal, Value: st.Value})
	}
	s.log.Debug("simulation seeded", "signals", s.signals.Len(), "gates", len(s.netlist.Gates()), "events", s.queue.Len())
}

func (s *Simulation) settle() {
	gates := s.netlist.Gates()
	for pass := 0; pass <= len(gates); pass++ {
		changed := false
		for _, g := range gates {
			v, err := g.Eval(s.signals)
			if err != nil {
				if pass == 0 {
					s.fail(err)
				}
				continue
			}
			if cur, _ := s.signals.Get(g.Output); cur != v {
				_ = s.signals.Set(g.Output, v)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
	s.log.Warn("circuit did not settle at power-up", "passes", len(gates)+1)
}

func (s *Simulation) fail(err error) {
	s.log.Error("gate failed", "error", err)
	s.errs = append(s.errs, err)
}

// Step applies the earliest pending event. It returns false if the queue is
// empty.
//
// Applying an event sets the signal value, records it in the trace, then
// evaluates every gate reading the signal. A gate whose new output differs
// from the recorded output value has its output updated immediately and an
// event scheduled for the new value at the current time plus the gate delay.
//
// Evaluation errors do not stop the simulation: they are logged, the gate is
// skipped and the error is available from Errors. The same applies to a gate
// whose delayed event would be past the largest representable time.
//
// If the event budget is exhausted or the next event is past the time
// horizon, Step returns a *DivergenceError and leaves the event in the queue.
//
func (s *Simulation) Step() (bool, error) {
	e, ok := s.queue.peek()
	if !ok {
		return false, nil
	}
	if s.cfg.MaxTime > 0 && e.Time > s.cfg.MaxTime {
		return false, errors.WithStack(&DivergenceError{Events: s.stats.Events, Time: e.Time, Limit: "time horizon " + strconv.FormatInt(s.cfg.MaxTime, 10) + " exceeded"})
	}
	if s.cfg.MaxEvents > 0 && s.stats.Events >= s.cfg.MaxEvents {
		return false, errors.WithStack(&DivergenceError{Events: s.stats.Events, Time: e.Time, Limit: "event budget " + strconv.FormatUint(s.cfg.MaxEvents, 10) + " exhausted"})
	}
	s.queue.next()
	s.apply(e)
	return true, nil
}

func (s *Simulation) apply(e Event) {
	if err := s.signals.Set(e.Signal, e.Value); err != nil {
		s.fail(err)
		return
	}
	s.stats.Events++
	s.stats.Time = e.Time
	s.trace.Append(Entry{Time: e.Time, Signal: e.Signal, Value: e.Value})
	s.log.Debug("event", "time", e.Time, "signal", e.Signal, "value", e.Value)
	s.obs.EventApplied(e)

	for _, g := range s.netlist.Fanout(e.Signal) {
		s.stats.Evaluations++
		v, err := g.Eval(s.signals)
		if err != nil {
			s.fail(err)
			continue
		}
		cur, _ := s.signals.Get(g.Output)
		s.obs.GateEvaluated(g, v, v != cur)
		if v == cur {
			continue
		}
		if e.Time > math.MaxInt64-g.Delay {
			s.fail(errors.WithStack(&DivergenceError{Events: s.stats.Events, Time: e.Time, Limit: "time overflow scheduling gate " + g.Name}))
			continue
		}
		_ = s.signals.Set(g.Output, v)
		ne := s.queue.schedule(Event{Time: e.Time + g.Delay, Signal: g.Output, Value: v})
		s.stats.Scheduled++
		if s.cfg.TraceMode == TraceLegacy {
			s.trace.Append(Entry{Time: ne.Time, Signal: ne.Signal, Value: ne.Value})
		}
		s.log.Debug("schedule", "gate", g.Name, "time", ne.Time, "signal", ne.Signal, "value", ne.Value)
		s.obs.EventScheduled(e, g, ne)
	}
}

// Run applies events until the queue is empty.
//
// Run terminates only if the circuit reaches a stable state. A combinational
// loop that oscillates forever, like an inverter feeding itself, never
// drains the queue: set Config.MaxEvents or Config.MaxTime to turn such a
// loop into a *DivergenceError.
//
func (s *Simulation) Run() error {
	for {
		ok, err := s.Step()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// RunUntil applies every pending event scheduled at or before time t.
//
func (s *Simulation) RunUntil(t int64) error {
	for {
		e, ok := s.queue.peek()
		if !ok || e.Time > t {
			return nil
		}
		if _, err := s.Step(); err != nil {
			return err
		}
	}
}

// Now returns the time of the last applied event.
//
func (s *Simulation) Now() int64 { return s.stats.Time }

// Pending returns the number of queued events.
//
func (s *Simulation) Pending() int { return s.queue.Len() }

// Stats returns the simulation counters.
//
func (s *Simulation) Stats() Stats { return s.stats }

// Trace returns the simulation trace.
//
func (s *Simulation) Trace() *Trace { return &s.trace }

// Signals returns the signal table.
//
func (s *Simulation) Signals() *SignalTable { return s.signals }

// Netlist returns the simulated netlist.
//
func (s *Simulation) Netlist() *Netlist { return s.netlist }

// Errors returns the gate evaluation and scheduling errors encountered so far.
//
func (s *Simulation) Errors() []error { return s.errs }

type nopObserver struct{}

func (nopObserver) EventApplied(Event)                 {}
func (nopObserver) GateEvaluated(*Gate, bool, bool)    {}
func (nopObserver) EventScheduled(Event, *Gate, Event) {}
