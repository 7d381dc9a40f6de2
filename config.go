// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TraceMode selects when the output change of a gate is recorded in the
// trace.
//
type TraceMode int

const (
	// TraceStrict records a gate output change when the delayed event is
	// applied.
	TraceStrict TraceMode = iota
	// TraceLegacy additionally records the change as soon as it is
	// scheduled. After normalization both modes yield the same trace unless
	// the simulation stops with events still pending, or a gate output
	// changes more than once before its first delayed event is applied.
	TraceLegacy
)

var traceModes = [...]string{
	TraceStrict: "strict",
	TraceLegacy: "legacy",
}

func (m TraceMode) String() string {
	if m < 0 || int(m) >= len(traceModes) {
		return "invalid"
	}
	return traceModes[m]
}

// ParseTraceMode parses "strict" or "legacy".
//
func ParseTraceMode(s string) (TraceMode, error) {
	for i, n := range traceModes {
		if n == s {
			return TraceMode(i), nil
		}
	}
	return 0, errors.Errorf("invalid trace mode %q, expected strict or legacy", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
//
func (m *TraceMode) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := ParseTraceMode(s)
	if err != nil {
		return errors.Wrapf(err, "line %d", n.Line)
	}
	*m = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
//
func (m TraceMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Config holds the simulation settings. The zero value is a valid
// configuration with no event or time budget.
//
type Config struct {
	// MaxEvents is the maximum number of events applied before Run gives up
	// with a *DivergenceError. 0 means no limit.
	MaxEvents uint64 `yaml:"max_events"`
	// MaxTime is the latest simulated time an event may be scheduled at
	// before Run gives up with a *DivergenceError. 0 means no limit.
	MaxTime int64 `yaml:"max_time"`
	// TraceMode selects when gate output changes are recorded.
	TraceMode TraceMode `yaml:"trace_mode"`

	// Logger receives simulation diagnostics. Nil discards them.
	Logger *slog.Logger `yaml:"-"`
	// Observer, if not nil, is notified of engine activity.
	Observer Observer `yaml:"-"`
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	if c.MaxTime < 0 {
		return errors.Errorf("negative max_time %d", c.MaxTime)
	}
	if c.TraceMode.String() == "invalid" {
		return errors.Errorf("invalid trace mode %d", int(c.TraceMode))
	}
	return nil
}
