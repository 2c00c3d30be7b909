// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes refresh and catalog metrics for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
	"github.com/nikbelko/Minsk-event/internal/store"
)

const namespace = "afisha"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	refreshes   *prometheus.CounterVec
	added       *prometheus.CounterVec
	duplicates  *prometheus.CounterVec
	foreign     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	catalogRows *prometheus.GaugeVec
	lastRun     prometheus.Gauge
	lastFailed  prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}

	m.refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_refreshes_total",
		Help:      "Source refreshes by outcome",
	}, []string{"source", "outcome"})
	m.added = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_added_total",
		Help:      "Events inserted into the catalog",
	}, []string{"source"})
	m.duplicates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicates_skipped_total",
		Help:      "Candidates skipped as cross-source duplicates, by matching tier",
	}, []string{"source", "tier"})
	m.foreign = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "foreign_city_rejected_total",
		Help:      "Listing items rejected for naming another city",
	}, []string{"source"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_refresh_duration_seconds",
		Help:      "Time spent refreshing one source",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"source"})
	m.catalogRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_events",
		Help:      "Catalog rows per source",
	}, []string{"source"})
	m.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last refresh run finished",
	})
	m.lastFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_failed_sources",
		Help:      "Sources that did not refresh in the last run",
	})

	m.reg.MustRegister(
		m.refreshes,
		m.added,
		m.duplicates,
		m.foreign,
		m.duration,
		m.catalogRows,
		m.lastRun,
		m.lastFailed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRefresh records one source refresh.
func (m *Metrics) ObserveRefresh(res refresh.Result) {
	m.refreshes.WithLabelValues(res.Source, string(res.Outcome)).Inc()
	m.added.WithLabelValues(res.Source).Add(float64(res.Added))
	m.foreign.WithLabelValues(res.Source).Add(float64(res.Foreign))
	m.duration.WithLabelValues(res.Source).Observe(res.Elapsed.Seconds())
	for tier, n := range res.Duplicates {
		m.duplicates.WithLabelValues(res.Source, tier).Add(float64(n))
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(rep scheduler.Report) {
	m.lastRun.Set(float64(rep.FinishedAt.Unix()))
	m.lastFailed.Set(float64(rep.Failed))
}

// SetCatalogRows replaces the per-source row gauge.
func (m *Metrics) SetCatalogRows(counts []store.SourceCount) {
	m.catalogRows.Reset()
	for _, c := range counts {
		m.catalogRows.WithLabelValues(c.SourceName).Set(float64(c.Count))
	}
}

// Registry returns the registry backing the handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
