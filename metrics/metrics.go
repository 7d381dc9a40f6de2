// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exports simulation activity as Prometheus metrics.
//
// A Collector is a gatesim.Observer: set it as Config.Observer and register
// it with a prometheus.Registerer. Batch runs can dump the registry with
// prometheus.WriteToTextfile.
//
package metrics

import (
	"github.com/db47h/gatesim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gatesim"

// Collector holds the simulation metrics.
//
type Collector struct {
	// EventsTotal counts applied events.
	EventsTotal prometheus.Counter
	// EvaluationsTotal counts gate evaluations by gate type and whether the
	// output changed.
	EvaluationsTotal *prometheus.CounterVec
	// ScheduledTotal counts gate output events by gate type.
	ScheduledTotal *prometheus.CounterVec
	// SimTime is the simulated time of the last applied event.
	SimTime prometheus.Gauge
	// EventDelay observes the delay between an event and the output event
	// it causes.
	EventDelay prometheus.Histogram
}

// New creates the simulation metrics and registers them with reg.
//
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		EventsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of applied events",
		}),
		EvaluationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_evaluations_total",
			Help:      "Total number of gate evaluations by gate type and output change",
		}, []string{"type", "changed"}),
		ScheduledTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_events_total",
			Help:      "Total number of gate output events scheduled by gate type",
		}, []string{"type"}),
		SimTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulated_time",
			Help:      "Simulated time of the last applied event",
		}),
		EventDelay: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_delay",
			Help:      "Delay between an event and the gate output event it causes",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// EventApplied implements gatesim.Observer.
//
func (c *Collector) EventApplied(e gatesim.Event) {
	c.EventsTotal.Inc()
	c.SimTime.Set(float64(e.Time))
}

// GateEvaluated implements gatesim.Observer.
//
func (c *Collector) GateEvaluated(g *gatesim.Gate, value, changed bool) {
	ch := "false"
	if changed {
		ch = "true"
	}
	c.EvaluationsTotal.WithLabelValues(g.Type.Name, ch).Inc()
}

// EventScheduled implements gatesim.Observer.
//
func (c *Collector) EventScheduled(cause gatesim.Event, g *gatesim.Gate, e gatesim.Event) {
	c.ScheduledTotal.WithLabelValues(g.Type.Name).Inc()
	c.EventDelay.Observe(float64(e.Time - cause.Time))
}
