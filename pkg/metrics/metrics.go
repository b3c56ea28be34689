// Package metrics exposes Prometheus instrumentation for the network
// initializer and the spawned nodes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the mesh network.
type Registry struct {
	// Initialization metrics
	NodesSpawnedTotal       *prometheus.CounterVec
	WiringCommandsTotal     *prometheus.CounterVec
	ValidationFailuresTotal *prometheus.CounterVec

	// Traffic metrics, updated by node actors
	PacketsForwardedTotal prometheus.Counter
	PacketsDroppedTotal   prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.NodesSpawnedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshnet_nodes_spawned_total",
			Help: "Nodes spawned during initialization, by kind and variant",
		},
		[]string{"kind", "variant"},
	)

	r.WiringCommandsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshnet_wiring_commands_total",
			Help: "AddSender commands sent during neighbor wiring, by kind",
		},
		[]string{"kind"},
	)

	r.ValidationFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshnet_validation_failures_total",
			Help: "Topology validation failures, by violated rule",
		},
		[]string{"rule"},
	)

	r.PacketsForwardedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshnet_packets_forwarded_total",
			Help: "Packets forwarded by drones",
		},
	)

	r.PacketsDroppedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshnet_packets_dropped_total",
			Help: "Packets dropped by drones",
		},
	)

	return r
}

// RecordSpawn records one spawned node.
func (r *Registry) RecordSpawn(kind, variant string) {
	r.NodesSpawnedTotal.WithLabelValues(kind, variant).Inc()
}

// RecordWiring records one AddSender command sent during wiring.
func (r *Registry) RecordWiring(kind string) {
	r.WiringCommandsTotal.WithLabelValues(kind).Inc()
}

// RecordValidationFailure records one rejected configuration.
func (r *Registry) RecordValidationFailure(rule string) {
	r.ValidationFailuresTotal.WithLabelValues(rule).Inc()
}

// Handler returns the HTTP handler serving the registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
