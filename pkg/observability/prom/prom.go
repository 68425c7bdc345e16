// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/exprtree/pkg/observability"
)

const namespace = "exprtree"

// Hooks records pipeline, cache, and HTTP events as Prometheus metrics.
type Hooks struct {
	compiles        *prometheus.CounterVec
	compileDuration prometheus.Histogram
	layouts         *prometheus.CounterVec
	layoutDuration  prometheus.Histogram
	renders         *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)

// NewHooks registers every metric with reg and returns the hooks. Passing
// prometheus.DefaultRegisterer exposes them on promhttp.Handler.
func NewHooks(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	fast := []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}
	return &Hooks{
		compiles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compiles_total",
			Help:      "Expressions compiled, by status (ok, recovered, error).",
		}, []string{"status"}),
		compileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time to parse, annotate, and evaluate an expression.",
			Buckets:   fast,
		}),
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Layouts computed, by status.",
		}, []string{"status"}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to compute a layout.",
			Buckets:   fast,
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Artifacts rendered, by format and status.",
		}, []string{"format", "status"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to render all requested formats.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event (hit, miss, set).",
		}, []string{"type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route, and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnCompileStart(context.Context, string) {}

func (h *Hooks) OnCompileComplete(_ context.Context, _, diagnostics int, d time.Duration, err error) {
	s := status(err)
	if err == nil && diagnostics > 0 {
		s = "recovered"
	}
	h.compiles.WithLabelValues(s).Inc()
	h.compileDuration.Observe(d.Seconds())
}

func (h *Hooks) OnLayoutStart(context.Context, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.layouts.WithLabelValues(status(err)).Inc()
	h.layoutDuration.Observe(d.Seconds())
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		h.renders.WithLabelValues(f, status(err)).Inc()
	}
	h.renderDuration.Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Register installs h as the global pipeline, cache, and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
