// Package telemetry registers the Prometheus metrics this system exposes
// on its control/status server, following the teacher's idempotent
// sync.Once registration pattern.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FramesTransmitted counts every synthesized frame handed to the
	// radio driver, by frame type.
	FramesTransmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostwalk",
			Name:      "frames_transmitted_total",
			Help:      "Total number of synthesized 802.11 frames transmitted",
		},
		[]string{"frame_type"},
	)

	// SSIDsLearned counts SSIDs admitted into the SSID store from
	// observed probe requests.
	SSIDsLearned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostwalk",
			Name:      "ssids_learned_total",
			Help:      "Total number of SSIDs learned from passive observation",
		},
		[]string{},
	)

	// LifecycleRotations counts rotate_once invocations.
	LifecycleRotations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostwalk",
			Name:      "lifecycle_rotations_total",
			Help:      "Total number of swarm pool lifecycle rotations",
		},
		[]string{},
	)

	// GovernorLowMemoryEvents counts transitions into low-memory mode.
	GovernorLowMemoryEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostwalk",
			Name:      "governor_low_memory_events_total",
			Help:      "Total number of times the resource governor entered low-memory mode",
		},
		[]string{},
	)

	// MeshRebroadcasts counts opportunistic mesh-frame rebroadcasts.
	MeshRebroadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostwalk",
			Name:      "mesh_rebroadcasts_total",
			Help:      "Total number of cached mesh frames rebroadcast",
		},
		[]string{},
	)

	// ActivePoolSize reports the current size of the active device pool.
	ActivePoolSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ghostwalk",
			Name:      "active_pool_size",
			Help:      "Current number of devices in the active pool",
		},
		[]string{},
	)

	// DormantPoolSize reports the current size of the dormant device pool.
	DormantPoolSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ghostwalk",
			Name:      "dormant_pool_size",
			Help:      "Current number of devices in the dormant pool",
		},
		[]string{},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call multiple times. No package in this module
// increments or sets these collectors, so /metrics reports them at their
// zero values.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(FramesTransmitted)
		prometheus.DefaultRegisterer.Register(SSIDsLearned)
		prometheus.DefaultRegisterer.Register(LifecycleRotations)
		prometheus.DefaultRegisterer.Register(GovernorLowMemoryEvents)
		prometheus.DefaultRegisterer.Register(MeshRebroadcasts)
		prometheus.DefaultRegisterer.Register(ActivePoolSize)
		prometheus.DefaultRegisterer.Register(DormantPoolSize)
	})
}
