// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exposes the airlock's runtime counters as Prometheus
// metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/airlock/internal/airlock"
)

// Registry bundles every metric a running airlock instance exports.
type Registry struct {
	reg *prometheus.Registry

	ViolationsTotal  *prometheus.CounterVec
	FramesForwarded  *prometheus.CounterVec
	FramesDropped    *prometheus.CounterVec
	VolumeBytes      prometheus.Gauge
	ArpBucketLevel   prometheus.Gauge
	Locked           prometheus.Gauge
	HeartbeatTimeout prometheus.Counter
}

// NewRegistry constructs a fresh, isolated metrics registry. Tests and
// multiple in-process instances each get their own Registry rather than
// sharing package-global state.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		ViolationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airlock_violations_total",
			Help: "Total number of per-rule violations latched, by kind.",
		}, []string{"kind"}),
		FramesForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airlock_frames_forwarded_total",
			Help: "Total number of frames forwarded from ingress to egress.",
		}, []string{"interface"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airlock_frames_dropped_total",
			Help: "Total number of frames dropped at egress.",
		}, []string{"interface"}),
		VolumeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airlock_volume_bytes",
			Help: "Current value of the free-running volume counter.",
		}),
		ArpBucketLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airlock_arp_bucket_level",
			Help: "Current level of the ARP leaky bucket.",
		}),
		Locked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airlock_locked",
			Help: "Whether the airlock is currently locked (1) or passing traffic (0).",
		}),
		HeartbeatTimeout: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_heartbeat_timeouts_total",
			Help: "Total number of heartbeat watchdog timeouts observed.",
		}),
	}

	reg.MustRegister(
		r.ViolationsTotal,
		r.FramesForwarded,
		r.FramesDropped,
		r.VolumeBytes,
		r.ArpBucketLevel,
		r.Locked,
		r.HeartbeatTimeout,
	)
	return r
}

// Handler returns the http.Handler that serves this registry's metrics on
// the conventional /metrics path.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Observe copies the machine's diagnostic Status into the registry's Locked,
// VolumeBytes and ArpBucketLevel gauges. cmd/airlock calls it on a fixed
// sampling interval.
func (r *Registry) Observe(status airlock.Status) {
	if status.Locked {
		r.Locked.Set(1)
	} else {
		r.Locked.Set(0)
	}
	r.VolumeBytes.Set(float64(status.VolumeCount))
	r.ArpBucketLevel.Set(float64(status.ArpBucket))
}

// RecordViolation increments the per-kind violation counter.
func (r *Registry) RecordViolation(kind string) {
	r.ViolationsTotal.WithLabelValues(kind).Inc()
}

// RecordFrame increments the forwarded or dropped frame counter for the
// named interface.
func (r *Registry) RecordFrame(iface string, forwarded bool) {
	if forwarded {
		r.FramesForwarded.WithLabelValues(iface).Inc()
	} else {
		r.FramesDropped.WithLabelValues(iface).Inc()
	}
}
