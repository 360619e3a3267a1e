package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_runs_total",
		Help: "Total number of analysis pipeline runs started",
	})

	AnalysisRunsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_runs_failed_total",
		Help: "Total number of failed analysis runs",
	}, []string{"stage"})

	AnalysisRowsRetained = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_rows_retained",
		Help:    "Rows surviving preprocessing per run",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})

	PipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Latency of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	LowConfidenceForecastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_confidence_forecasts_total",
		Help: "Forecasts produced from less history than the seasonal model wants",
	})

	AlertsRequestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_requested_total",
		Help: "Total number of alert dispatch requests",
	}, []string{"type"})

	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_sent_total",
		Help: "Total number of alerts accepted by the SMS gateway",
	}, []string{"type"})

	AlertsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_failed_total",
		Help: "Total number of alerts rejected by the SMS gateway",
	}, []string{"type", "reason"})

	SnapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_hits_total",
		Help: "Analysis snapshot reads served from Redis",
	})

	SnapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_misses_total",
		Help: "Analysis snapshot reads that fell back to memory",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
