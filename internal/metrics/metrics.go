// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the process-wide Prometheus collectors. They are
// registered on the default registry and served by the web layer at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	OutcomeSuccess           = "success"
	OutcomeError             = "error"
	OutcomeCancelled         = "cancelled"
	OutcomeMissingCredential = "missing_credential"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundmatch_searches_total",
			Help: "Total number of fund searches by outcome",
		},
		[]string{"format", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundmatch_search_duration_seconds",
			Help:    "Duration of fund searches in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"format"},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fundmatch_search_fallbacks_total",
			Help: "Total number of requests retried without the search tool after a permission denial",
		},
	)

	ParseStagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundmatch_parse_stages_total",
			Help: "Structured responses by the parser stage that produced the funds",
		},
		[]string{"stage"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fundmatch_sessions_active",
			Help: "Number of browser sessions currently tracked",
		},
	)

	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundmatch_leads_total",
			Help: "Total number of consultation requests by result",
		},
		[]string{"result"},
	)
)
