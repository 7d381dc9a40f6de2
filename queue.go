// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"container/heap"
)

// An Event is a scheduled change of a signal value.
//
type Event struct {
	Time   int64
	Signal string
	Value  bool
	seq    uint64
}

// Seq returns the insertion sequence number of the event. Events scheduled
// for the same time are applied in sequence order.
//
func (e Event) Seq() uint64 { return e.seq }

// eventQueue is a min-heap of events ordered by (Time, seq).
//
type eventQueue struct {
	events []Event
	seq    uint64
}

func (q *eventQueue) Len() int { return len(q.events) }

func (q *eventQueue) Less(i, j int) bool {
	a, b := &q.events[i], &q.events[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}

func (q *eventQueue) Swap(i, j int) { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *eventQueue) Push(x interface{}) { q.events = append(q.events, x.(Event)) }

func (q *eventQueue) Pop() interface{} {
	n := len(q.events) - 1
	e := q.events[n]
	q.events[n] = Event{}
	q.events = q.events[:n]
	return e
}

// schedule stamps e with the next sequence number and queues it.
//
func (q *eventQueue) schedule(e Event) Event {
	e.seq = q.seq
	q.seq++
	heap.Push(q, e)
	return e
}

// next removes and returns the earliest event.
//
func (q *eventQueue) next() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return heap.Pop(q).(Event), true
}

// peek returns the earliest event without removing it.
//
func (q *eventQueue) peek() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return q.events[0], true
}
