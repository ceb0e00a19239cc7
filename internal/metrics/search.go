package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "geosearch"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of compiled searches by sort tier and outcome",
		},
		[]string{"tier", "status"}, // geo|text|browse, success|invalid|backend_error|error
	)

	SearchBackendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_backend_duration_seconds",
			Help:      "Search backend call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ShapeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shape_cache_total",
			Help:      "Query shape cache lookups",
		},
		[]string{"result"}, // hit|miss|invalid
	)

	RecognizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognizer_requests_total",
			Help:      "Total number of remote place recognizer requests",
		},
		[]string{"provider", "status"},
	)

	RecognizerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recognizer_request_duration_seconds",
			Help:      "Remote place recognizer request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchBackendDuration)
	prometheus.MustRegister(ShapeCacheTotal)
	prometheus.MustRegister(RecognizerRequestsTotal)
	prometheus.MustRegister(RecognizerRequestDuration)
	searchMetricsRegistered = true
}
