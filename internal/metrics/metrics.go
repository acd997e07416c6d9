// Package metrics exposes the Prometheus collectors for the dispatch engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CallsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_calls_created_total",
		Help: "Calls registered by dispatchers.",
	})

	CallTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_call_transitions_total",
		Help: "Call lifecycle transitions by outcome.",
	}, []string{"transition"})

	EventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_events_sent_total",
		Help: "Realtime events pushed to connected clients, by event type.",
	}, []string{"event"})

	ConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_connected_clients",
		Help: "Currently connected realtime clients by role.",
	}, []string{"role"})

	MovementTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_movement_ticks_total",
		Help: "Waypoints traversed by the movement simulator.",
	})
)
