// Package metrics exposes dashboard counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cafeteria"

// Metrics groups the collectors the dashboard updates.
type Metrics struct {
	registry *prometheus.Registry

	SectionRenders *prometheus.CounterVec
	ChartRenders   *prometheus.CounterVec
	CleanRuns      prometheus.Counter
	CellsFilled    *prometheus.CounterVec
	DatasetRows    prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SectionRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_renders_total",
			Help:      "Section renders by section and outcome.",
		}, []string{"section", "outcome"}),
		ChartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Chart renders by chart and outcome.",
		}, []string{"chart", "outcome"}),
		CleanRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preprocessing_runs_total",
			Help:      "Preprocessing runs applied to the shared table.",
		}),
		CellsFilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_filled_total",
			Help:      "Missing cells filled, by strategy.",
		}, []string{"strategy"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded survey table.",
		}),
	}
	reg.MustRegister(
		m.SectionRenders,
		m.ChartRenders,
		m.CleanRuns,
		m.CellsFilled,
		m.DatasetRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome labels an error for the outcome dimension.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
