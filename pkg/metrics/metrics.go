package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ItemsTotal          *prometheus.CounterVec
	ItemDuration        *prometheus.HistogramVec
	FieldsFoundTotal    prometheus.Counter
	RowsWrittenTotal    prometheus.Counter
	PaceSecondsTotal    prometheus.Counter
	ItemsRemaining      prometheus.Gauge

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by the status server.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the status server.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speccrawl_items_total",
			Help: "Processed crawl items by outcome.",
		},
		[]string{"status", "stage"}, // status: success, failure
	)

	ItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speccrawl_item_duration_seconds",
			Help:    "Time spent fetching and extracting one item, pacing excluded.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	FieldsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speccrawl_fields_found_total",
		Help: "Non-empty field values extracted.",
	})

	RowsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speccrawl_rows_written_total",
		Help: "Rows appended to the result sink.",
	})

	PaceSecondsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speccrawl_pace_seconds_total",
		Help: "Seconds spent in the inter-request pacing delay.",
	})

	ItemsRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speccrawl_items_remaining",
		Help: "Items of the current crawl list not processed yet.",
	})
}
