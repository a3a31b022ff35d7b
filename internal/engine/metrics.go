package engine

import (
	"github.com/lox/stonetell/internal/action"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "stonetell"
	metricsSubsystem = "engine"
)

// Metrics counts engine outcomes. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	decisions    *prometheus.CounterVec
	signatures   *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	eliminations *prometheus.CounterVec
}

// NewMetrics creates the engine counters and registers them with reg. Use a
// fresh prometheus.NewRegistry() in tests to avoid global collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "decisions_total",
			Help:      "Decisions returned by profile and action kind",
		}, []string{"profile", "kind"}),
		signatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "signature_moves_total",
			Help:      "Signature moves that bypassed weighted selection",
		}, []string{"profile", "signature"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fallback_passes_total",
			Help:      "Passes forced by a missing board or exhausted target resolution",
		}, []string{"profile"}),
		eliminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "eliminations_total",
			Help:      "Hidden stones identified by elimination",
		}, []string{"profile"}),
	}
	if reg != nil {
		reg.MustRegister(m.decisions, m.signatures, m.fallbacks, m.eliminations)
	}
	return m
}

func (m *Metrics) recordDecision(profile string, d action.Decision) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(profile, d.Kind.String()).Inc()
	if d.Signature != "" {
		m.signatures.WithLabelValues(profile, d.Signature).Inc()
	}
}

func (m *Metrics) recordFallback(profile string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(profile).Inc()
}

func (m *Metrics) recordElimination(profile string) {
	if m == nil {
		return
	}
	m.eliminations.WithLabelValues(profile).Inc()
}
