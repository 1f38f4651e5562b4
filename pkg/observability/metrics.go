package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	Traces         *prometheus.CounterVec
	TraceSteps     *prometheus.HistogramVec
	CursorMoves    *prometheus.CounterVec
	PlaybackRuns   *prometheus.CounterVec
	PlaybackActive prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		Traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_traces_total",
				Help: "Traces served, by algorithm and whether they came from the cache.",
			},
			[]string{"algorithm", "cached"},
		),
		TraceSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepwise_trace_steps",
				Help:    "Number of steps of generated traces.",
				Buckets: prometheus.ExponentialBuckets(2, 2, 8),
			},
			[]string{"algorithm"},
		),
		CursorMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_cursor_moves_total",
				Help: "Cursor commands applied, by command.",
			},
			[]string{"command"},
		),
		PlaybackRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_playback_runs_total",
				Help: "Finished playback runs, by outcome.",
			},
			[]string{"outcome"},
		),
		PlaybackActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stepwise_playback_active",
				Help: "Players currently running.",
			},
		),
	}
	reg.MustRegister(m.Traces, m.TraceSteps, m.CursorMoves, m.PlaybackRuns, m.PlaybackActive)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records every lifecycle event on the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(_ context.Context, e *domain.TraceEvent) {
			m.Traces.WithLabelValues(e.Algorithm, strconv.FormatBool(e.Cached)).Inc()
			if !e.Cached {
				m.TraceSteps.WithLabelValues(e.Algorithm).Observe(float64(e.Steps))
			}
		},
		OnCursorMove: func(_ context.Context, e *domain.CursorEvent) {
			m.CursorMoves.WithLabelValues(string(e.Command.Type)).Inc()
		},
		OnPlaybackStart: func(context.Context, *domain.PlaybackEvent) {
			m.PlaybackActive.Inc()
		},
		OnPlaybackStop: func(_ context.Context, e *domain.PlaybackEvent) {
			m.PlaybackActive.Dec()
			m.PlaybackRuns.WithLabelValues(string(e.Outcome)).Inc()
		},
	}
}
