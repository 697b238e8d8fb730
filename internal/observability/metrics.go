package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codemap_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codemap_scan_seconds",
		Help:    "Time spent on a full extraction scan.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})

	TypesExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codemap_types_extracted",
		Help: "Number of type definitions produced by the last scan.",
	})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codemap_files_scanned",
		Help: "Number of source files visited by the last scan.",
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codemap_parse_failures_total",
		Help: "Total number of files skipped because parsing or extraction failed.",
	})

	LimitHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codemap_limit_hits_total",
		Help: "Total number of scans that were truncated, by limit kind.",
	}, []string{"limit"})

	ToolRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codemap_tool_requests_total",
		Help: "Total number of tool invocations, by tool and outcome.",
	}, []string{"tool", "outcome"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codemap_rate_limited_total",
		Help: "Total number of tool invocations rejected by the rate limiter.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codemap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
