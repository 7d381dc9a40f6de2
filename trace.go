// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"sort"
	"strconv"
)

// An Entry is a recorded signal value at a given time.
//
type Entry struct {
	Time   int64
	Signal string
	Value  bool
}

// String formats e as a trace file line: "time, signal, value".
//
func (e Entry) String() string {
	v := "0"
	if e.Value {
		v = "1"
	}
	return strconv.FormatInt(e.Time, 10) + ", " + e.Signal + ", " + v
}

// A Trace is an append-only record of signal values.
//
type Trace struct {
	entries []Entry
}

// Append records an entry.
//
func (t *Trace) Append(e Entry) { t.entries = append(t.entries, e) }

// Len returns the number of entries.
//
func (t *Trace) Len() int { return len(t.entries) }

// Entries returns the recorded entries. The returned slice must not be
// modified.
//
func (t *Trace) Entries() []Entry { return t.entries }

// Last returns the last recorded entry for the given signal.
//
func (t *Trace) Last(signal string) (Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Signal == signal {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}

// Normalize sorts the trace by time then signal name and removes adjacent
// exact duplicates. The sort is stable: entries for the same signal keep
// their recording order, so the last entry of a signal is still its final
// value. Normalizing an already normalized trace is a no-op.
//
func (t *Trace) Normalize() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := &t.entries[i], &t.entries[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Signal < b.Signal
	})
	if len(t.entries) == 0 {
		return
	}
	out := t.entries[:1]
	for _, e := range t.entries[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	t.entries = out
}
