// Package metrics provides Prometheus metrics for spacemap.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Redraw kinds
const (
	RedrawFull    = "full"
	RedrawPartial = "partial"
)

var redrawBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spacemap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spacemap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Scan metrics
	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spacemap_scan_duration_seconds",
			Help:    "Time to scan a tree",
			Buckets: []float64{.01, .1, .5, 1, 5, 15, 60, 300},
		},
	)

	treeNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spacemap_tree_nodes",
			Help: "Number of nodes in the loaded tree",
		},
	)

	// Layout metrics
	layoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spacemap_layout_duration_seconds",
			Help:    "Time to compute a layout",
			Buckets: redrawBuckets,
		},
	)

	layoutRects = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spacemap_layout_rects",
			Help:    "Number of rects produced per layout",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		},
	)

	staleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spacemap_stale_responses_total",
			Help: "Provider responses dropped because a newer request was issued",
		},
	)

	// Viewer metrics
	redrawDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spacemap_redraw_duration_seconds",
			Help:    "Time to redraw the visible surface",
			Buckets: redrawBuckets,
		},
		[]string{"kind"},
	)

	picksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spacemap_picks_total",
			Help: "Pointer picks resolved through the picking buffer",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordScan records a completed scan and the size of the resulting tree.
func RecordScan(duration time.Duration, nodes int) {
	scanDuration.Observe(duration.Seconds())
	treeNodes.Set(float64(nodes))
}

// RecordLayout records a layout computation.
func RecordLayout(duration time.Duration, rects int) {
	layoutDuration.Observe(duration.Seconds())
	layoutRects.Observe(float64(rects))
}

// RecordStaleResponse counts a dropped provider response.
func RecordStaleResponse() {
	staleResponses.Inc()
}

// RecordRedraw records a full or partial redraw.
func RecordRedraw(kind string, duration time.Duration) {
	redrawDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPick records a pointer pick.
func RecordPick(hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	picksTotal.WithLabelValues(result).Inc()
}

// Middleware returns HTTP middleware that records request metrics.
// Requests are labelled with the chi route pattern, not the raw path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}
