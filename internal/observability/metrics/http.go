package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestInFlight  prometheus.Gauge
	rateLimitedTotal *prometheus.CounterVec

	searchQueriesTotal  *prometheus.CounterVec
	searchHitTotal      *prometheus.CounterVec
	searchNoAnswerTotal *prometheus.CounterVec
	searchResultCount   *prometheus.HistogramVec
	searchTopScore      *prometheus.HistogramVec
	searchDuration      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regas",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regas",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "regas",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regas",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter.",
		},
		[]string{"service"},
	)
	searchQueriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total answered questions by detected intent.",
		},
		[]string{"service", "intent"},
	)
	searchHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "hit_total",
			Help:      "Total questions answered with at least one source.",
		},
		[]string{"service"},
	)
	searchNoAnswerTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "no_answer_total",
			Help:      "Total questions with no sufficiently confident match.",
		},
		[]string{"service"},
	)
	searchResultCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "result_count",
			Help:      "Distribution of returned candidates per question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service"},
	)
	searchTopScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "top_score",
			Help:      "Distribution of the best candidate score per question.",
			Buckets:   []float64{0, 30, 50, 70, 80, 100, 130, 170, 220},
		},
		[]string{"service"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regas",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Question pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		rateLimitedTotal,
		searchQueriesTotal,
		searchHitTotal,
		searchNoAnswerTotal,
		searchResultCount,
		searchTopScore,
		searchDuration,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		rateLimitedTotal:    rateLimitedTotal,
		searchQueriesTotal:  searchQueriesTotal,
		searchHitTotal:      searchHitTotal,
		searchNoAnswerTotal: searchNoAnswerTotal,
		searchResultCount:   searchResultCount,
		searchTopScore:      searchTopScore,
		searchDuration:      searchDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordRateLimited(service string) {
	m.rateLimitedTotal.WithLabelValues(service).Inc()
}

// RecordSearch captures one completed question: intent, outcome, result
// set size, best score and end-to-end duration.
func (m *HTTPServerMetrics) RecordSearch(service, intent string, resultCount int, topScore float64, duration time.Duration) {
	if intent == "" {
		intent = "unknown"
	}
	m.searchQueriesTotal.WithLabelValues(service, intent).Inc()
	m.searchResultCount.WithLabelValues(service).Observe(float64(resultCount))
	m.searchDuration.WithLabelValues(service).Observe(duration.Seconds())

	if resultCount > 0 {
		m.searchHitTotal.WithLabelValues(service).Inc()
		m.searchTopScore.WithLabelValues(service).Observe(topScore)
		return
	}
	m.searchNoAnswerTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
