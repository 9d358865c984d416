package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TransformationsApplied counts transformations flushed onto the origin, by kind.
	TransformationsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locomotion_transformations_applied_total",
			Help: "Total number of queued transformations applied to the origin",
		},
		[]string{"kind"},
	)

	// StateTransitions counts provider locomotion state changes.
	StateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locomotion_state_transitions_total",
			Help: "Total number of locomotion state transitions per provider",
		},
		[]string{"provider", "state"},
	)

	// InvalidRequests counts rejected provider requests (bad state, unknown provider).
	InvalidRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locomotion_invalid_requests_total",
			Help: "Total number of rejected locomotion requests",
		},
		[]string{"provider", "operation"},
	)

	// Grounded is 1 while the gravity arbiter reports the rig on the ground.
	Grounded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "locomotion_grounded",
			Help: "Whether the rig is currently grounded (1) or airborne (0)",
		},
	)

	// FallSpeed tracks the magnitude of the current fall velocity.
	FallSpeed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "locomotion_fall_speed",
			Help: "Current fall velocity magnitude in units per second",
		},
	)

	// GravityLocks tracks how many controllers hold each gravity override.
	GravityLocks = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "locomotion_gravity_locks",
			Help: "Number of controllers holding a gravity override",
		},
		[]string{"override"},
	)

	// TickDuration observes wall time spent per rig tick.
	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "locomotion_tick_duration_seconds",
			Help:    "Wall time spent running one rig tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	// ConnectedClients tracks open websocket sessions.
	ConnectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "locomotion_connected_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(TransformationsApplied)
	prometheus.MustRegister(StateTransitions)
	prometheus.MustRegister(InvalidRequests)
	prometheus.MustRegister(Grounded)
	prometheus.MustRegister(FallSpeed)
	prometheus.MustRegister(GravityLocks)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(ConnectedClients)
}

// BoolGauge converts a flag to a gauge value.
func BoolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
