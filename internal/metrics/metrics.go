// Package metrics counts worksheet exports and times renders.
//
// There is no long-running server to scrape, so the CLI writes the registry
// to a node_exporter textfile when asked.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Export outcomes used as the "result" label.
const (
	ResultOK       = "ok"
	ResultDegraded = "degraded"
	ResultFailed   = "failed"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg *prometheus.Registry

	exports  *prometheus.CounterVec
	render   prometheus.Histogram
	previews *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statsheet_exports_total",
				Help: "Worksheet exports by result.",
			},
			[]string{"result"},
		),
		render: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statsheet_render_duration_seconds",
				Help:    "Wall time of one LaTeX compile.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		previews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statsheet_previews_total",
				Help: "First-page previews by result.",
			},
			[]string{"result"},
		),
	}
	m.reg.MustRegister(m.exports, m.render, m.previews)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveRender records one compile that started at start. degraded and
// err pick the result label.
func (m *Metrics) ObserveRender(start time.Time, degraded bool, err error) {
	if m == nil {
		return
	}
	m.render.Observe(time.Since(start).Seconds())

	result := ResultOK
	switch {
	case err != nil:
		result = ResultFailed
	case degraded:
		result = ResultDegraded
	}
	m.exports.WithLabelValues(result).Inc()
}

// ObservePreview counts one rasterization attempt.
func (m *Metrics) ObservePreview(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.previews.WithLabelValues(ResultFailed).Inc()
		return
	}
	m.previews.WithLabelValues(ResultOK).Inc()
}

// WriteTextfile writes every collector to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
