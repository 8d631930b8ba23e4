package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultRevision labels requests that did not pick a target revision.
const defaultRevision = "config"

// HTTP series carry the requested target revision next to the route, so
// conversion traffic splits per output revision. Codec series are labelled
// by DXF record type and, for durations, by op (decode|encode) and revision.
var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dxftags",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, status and target revision.",
		},
		[]string{"node", "method", "path", "status", "revision"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dxftags",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status", "revision"},
	)
	httpBodyBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dxftags",
			Subsystem: "http",
			Name:      "request_body_bytes",
			Help:      "Size of uploaded DXF bodies.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"node", "path"},
	)
	codecRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dxftags",
			Subsystem: "codec",
			Name:      "records_total",
			Help:      "Records decoded, by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
	codecIssues = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dxftags",
			Subsystem: "codec",
			Name:      "issues_total",
			Help:      "Non-fatal load issues (defaulted or fixed attributes).",
		},
		[]string{"type"},
	)
	codecDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dxftags",
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Decode and encode duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "revision"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, httpBodyBytes, codecRecords, codecIssues, codecDuration)
	})
}

// RecordHTTPRequest records one request. An empty rev means the server's
// configured target revision; bodyBytes <= 0 records no body size.
func RecordHTTPRequest(node, method, path, rev string, status int, bodyBytes int64, duration time.Duration) {
	RegisterMetrics()
	if rev == "" {
		rev = defaultRevision
	}
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel, rev).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel, rev).Observe(duration.Seconds())
	if bodyBytes > 0 {
		httpBodyBytes.WithLabelValues(node, path).Observe(float64(bodyBytes))
	}
}

// RecordRecord counts one decoded record. outcome is loaded, skipped or
// passthrough.
func RecordRecord(dxftype, outcome string, issues int) {
	RegisterMetrics()
	codecRecords.WithLabelValues(dxftype, outcome).Inc()
	if issues > 0 {
		codecIssues.WithLabelValues(dxftype).Add(float64(issues))
	}
}

func RecordCodec(op, revision string, duration time.Duration) {
	RegisterMetrics()
	codecDuration.WithLabelValues(op, revision).Observe(duration.Seconds())
}
