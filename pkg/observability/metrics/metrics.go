// Package metrics implements the observability hooks with Prometheus
// collectors.
//
// The CLI has no listener, so metrics are flushed once at exit in the text
// exposition format with [Collector.WriteTextfile], ready for a node
// exporter textfile collector.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
)

// Collector bundles the domespec metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Computations     *prometheus.CounterVec
	ComputeDurations prometheus.Histogram
	Fallbacks        *prometheus.CounterVec

	Renders         *prometheus.CounterVec
	RenderDurations *prometheus.HistogramVec
	RenderBytes     *prometheus.CounterVec

	CacheEvents *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to a fresh
// registry when nil.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	computations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domespec_computations_total",
		Help: "Spec computations, labeled by result (ok or the error code).",
	}, []string{"result"}), "domespec_computations_total")
	if err != nil {
		return nil, err
	}

	computeDurations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "domespec_compute_duration_seconds",
		Help:    "Spec computation latency in seconds.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}), "domespec_compute_duration_seconds")
	if err != nil {
		return nil, err
	}

	fallbacks, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domespec_fallbacks_total",
		Help: "Search fallbacks taken during computation, labeled by fallback.",
	}, []string{"fallback"}), "domespec_fallbacks_total")
	if err != nil {
		return nil, err
	}

	renders, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domespec_renders_total",
		Help: "Rendered artifacts, labeled by kind, format and result.",
	}, []string{"kind", "format", "result"}), "domespec_renders_total")
	if err != nil {
		return nil, err
	}

	renderDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "domespec_render_duration_seconds",
		Help:    "Render latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind", "format"}), "domespec_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	renderBytes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domespec_render_bytes_total",
		Help: "Bytes of rendered output, labeled by kind and format.",
	}, []string{"kind", "format"}), "domespec_render_bytes_total")
	if err != nil {
		return nil, err
	}

	cacheEvents, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domespec_cache_events_total",
		Help: "Cache events, labeled by key type and event (hit, miss, set).",
	}, []string{"key_type", "event"}), "domespec_cache_events_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         reg,
		Computations:     computations,
		ComputeDurations: computeDurations,
		Fallbacks:        fallbacks,
		Renders:          renders,
		RenderDurations:  renderDurations,
		RenderBytes:      renderBytes,
		CacheEvents:      cacheEvents,
	}, nil
}

// Register installs c as the engine, render and cache hooks.
func (c *Collector) Register() {
	observability.SetEngineHooks(c)
	observability.SetRenderHooks(c)
	observability.SetCacheHooks(c)
}

// WriteTextfile writes every gathered metric to path in the text format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.gatherer)
}

// OnComputeStart implements observability.EngineHooks.
func (c *Collector) OnComputeStart(context.Context) {}

// OnComputeComplete implements observability.EngineHooks.
func (c *Collector) OnComputeComplete(_ context.Context, fallbacks []string, d time.Duration, err error) {
	c.Computations.WithLabelValues(result(err)).Inc()
	c.ComputeDurations.Observe(d.Seconds())
	for _, f := range fallbacks {
		c.Fallbacks.WithLabelValues(f).Inc()
	}
}

// OnRenderStart implements observability.RenderHooks.
func (c *Collector) OnRenderStart(context.Context, string, string) {}

// OnRenderComplete implements observability.RenderHooks.
func (c *Collector) OnRenderComplete(_ context.Context, kind, format string, size int, d time.Duration, err error) {
	c.Renders.WithLabelValues(kind, format, result(err)).Inc()
	c.RenderDurations.WithLabelValues(kind, format).Observe(d.Seconds())
	if err == nil {
		c.RenderBytes.WithLabelValues(kind, format).Add(float64(size))
	}
}

// OnCacheHit implements observability.CacheHooks.
func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (c *Collector) OnCacheSet(_ context.Context, keyType string, _ int) {
	c.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

var (
	_ observability.EngineHooks = (*Collector)(nil)
	_ observability.RenderHooks = (*Collector)(nil)
	_ observability.CacheHooks  = (*Collector)(nil)
)
