package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
)

func TestCollectorRecordsComputations(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	ctx := context.Background()

	c.OnComputeComplete(ctx, nil, time.Millisecond, nil)
	c.OnComputeComplete(ctx, []string{"vertical_adjusted", "scan_fallback"}, time.Millisecond, nil)
	c.OnComputeComplete(ctx, nil, time.Millisecond, errors.New(errors.ErrCodeComputation, "boom"))

	if got := testutil.ToFloat64(c.Computations.WithLabelValues("ok")); got != 2 {
		t.Errorf("computations{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Computations.WithLabelValues("COMPUTATION_FAILED")); got != 1 {
		t.Errorf("computations{COMPUTATION_FAILED} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Fallbacks.WithLabelValues("scan_fallback")); got != 1 {
		t.Errorf("fallbacks{scan_fallback} = %v, want 1", got)
	}
}

func TestCollectorRecordsRenders(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	ctx := context.Background()

	c.OnRenderComplete(ctx, "wireframe", "svg", 1000, time.Millisecond, nil)
	c.OnRenderComplete(ctx, "wireframe", "svg", 500, time.Millisecond, nil)
	c.OnRenderComplete(ctx, "wireframe", "pdf", 0, time.Millisecond, os.ErrNotExist)

	if got := testutil.ToFloat64(c.RenderBytes.WithLabelValues("wireframe", "svg")); got != 1500 {
		t.Errorf("render bytes = %v, want 1500", got)
	}
	if got := testutil.ToFloat64(c.Renders.WithLabelValues("wireframe", "pdf", "error")); got != 1 {
		t.Errorf("renders{pdf,error} = %v, want 1", got)
	}
}

func TestCollectorRecordsCache(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	ctx := context.Background()

	c.OnCacheMiss(ctx, "spec")
	c.OnCacheSet(ctx, "spec", 10)
	c.OnCacheHit(ctx, "spec")
	c.OnCacheHit(ctx, "spec")

	for event, want := range map[string]float64{"hit": 2, "miss": 1, "set": 1} {
		if got := testutil.ToFloat64(c.CacheEvents.WithLabelValues("spec", event)); got != want {
			t.Errorf("cache{%s} = %v, want %v", event, got, want)
		}
	}
}

func TestNewCollectorTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	if a.Computations != b.Computations {
		t.Error("second collector should reuse the registered counter")
	}
}

func TestRegisterInstallsHooks(t *testing.T) {
	defer observability.Reset()

	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.Register()

	if observability.Engine() != c || observability.Render() != c || observability.Cache() != c {
		t.Error("Register should install the collector for every hook category")
	}
}

func TestWriteTextfile(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.OnComputeComplete(context.Background(), nil, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "domespec.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `domespec_computations_total{result="ok"} 1`) {
		t.Errorf("textfile missing computation counter:\n%s", data)
	}
}
