package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/domespec/pkg/cache"
	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateViews(t *testing.T) {
	if err := ValidateViews([]string{"a", "b"}); err != nil {
		t.Errorf("Valid views should pass: %v", err)
	}
	if err := ValidateViews([]string{"a", "z"}); !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("ValidateViews(z) = %v, want %s", err, errors.ErrCodeInvalidView)
	}
}

func defaultOptions() Options {
	return Options{
		Params:    engine.DefaultParams(),
		Constants: engine.DefaultConstants(),
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := defaultOptions()
	opts.Views = []string{"B", "b"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Views) != 1 || opts.Views[0] != "b" {
		t.Errorf("Views = %v, want [b]", opts.Views)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight || opts.Scale != DefaultScale {
		t.Errorf("size = %vx%v@%v, want defaults", opts.Width, opts.Height, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	all := defaultOptions()
	if err := all.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(all.Views) != 2 {
		t.Errorf("default views = %v, want both presets", all.Views)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"BadParams", func(o *Options) { o.Params.DiameterMM = 0 }, errors.ErrCodeInvalidInput},
		{"BadConstants", func(o *Options) { o.Constants.WaveformDuty = 0 }, errors.ErrCodeInvalidConfig},
		{"BadFormat", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"BadView", func(o *Options) { o.Views = []string{"top"} }, errors.ErrCodeInvalidView},
		{"BadSize", func(o *Options) { o.Width = -1 }, errors.ErrCodeInvalidInput},
		{"TinyFrame", func(o *Options) { o.Width, o.Height = 40, 40 }, errors.ErrCodeInvalidInput},
		{"ShortFrame", func(o *Options) { o.Height = wireframe.MinHeight - 1 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.modify(&opts)
			if err := opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	opts := Options{Views: []string{"a", "b"}, Formats: []string{"svg", "json"}, Topology: true}
	got := plan(opts)
	want := []job{
		{KindWireframe, "a", "svg"}, {KindWireframe, "a", "json"},
		{KindWireframe, "b", "svg"}, {KindWireframe, "b", "json"},
		{KindTopology, "", "svg"}, {KindTopology, "", "json"},
	}
	if len(got) != len(want) {
		t.Fatalf("plan() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plan()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		a    Artifact
		want string
	}{
		{Artifact{Kind: KindWireframe, View: "a", Format: "svg"}, "view-a.svg"},
		{Artifact{Kind: KindWireframe, View: "b", Format: "png"}, "view-b.png"},
		{Artifact{Kind: KindTopology, Format: "pdf"}, "topology.pdf"},
	}
	for _, tt := range tests {
		if got := tt.a.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	r := NewRunner(mem, nil, nil)

	opts := defaultOptions()
	opts.Formats = []string{FormatSVG, FormatJSON}
	opts.Room = true

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.SpecHit || first.CacheInfo.RenderHits != 0 {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}
	if len(first.Artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(first.Artifacts))
	}
	for _, a := range first.Artifacts {
		if len(a.Data) == 0 {
			t.Errorf("%s is empty", a.Name())
		}
	}
	if !bytes.HasPrefix(first.Artifacts[0].Data, []byte("<svg")) {
		t.Errorf("%s is not svg", first.Artifacts[0].Name())
	}
	if !json.Valid(first.Artifacts[1].Data) {
		t.Errorf("%s is not json", first.Artifacts[1].Name())
	}
	if first.SpecHash == "" {
		t.Error("SpecHash is empty")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.SpecHit || second.CacheInfo.RenderHits != 4 {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if second.SpecHash != first.SpecHash {
		t.Errorf("SpecHash changed across cache round trip: %s vs %s", second.SpecHash, first.SpecHash)
	}
	for i := range first.Artifacts {
		if !bytes.Equal(first.Artifacts[i].Data, second.Artifacts[i].Data) {
			t.Errorf("%s differs between runs", first.Artifacts[i].Name())
		}
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.SpecHit || third.CacheInfo.RenderHits != 0 {
		t.Errorf("refresh run CacheInfo = %+v, want all misses", third.CacheInfo)
	}
}

func TestExecuteOptionsChangeKeys(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, nil)

	opts := defaultOptions()
	opts.Views = []string{"a"}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	opts.Flip = true
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.CacheInfo.SpecHit {
		t.Error("spec should be cached across render options")
	}
	if res.CacheInfo.RenderHits != 0 {
		t.Errorf("RenderHits = %d, want 0 after flipping", res.CacheInfo.RenderHits)
	}
}

func TestExecuteNullCache(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := defaultOptions()
	opts.Views = []string{"b"}
	for range 2 {
		res, err := r.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if res.CacheInfo.SpecHit || res.CacheInfo.RenderHits != 0 {
			t.Errorf("CacheInfo = %+v, want no hits with NullCache", res.CacheInfo)
		}
	}
}

func TestRenderNilSpec(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Render(context.Background(), nil, defaultOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(nil) = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

type countingEngineHooks struct {
	observability.NoopEngineHooks
	completed atomic.Int32
}

func (h *countingEngineHooks) OnComputeComplete(context.Context, []string, time.Duration, error) {
	h.completed.Add(1)
}

func TestComputeReportsHooks(t *testing.T) {
	hooks := &countingEngineHooks{}
	observability.SetEngineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := defaultOptions()

	var wg sync.WaitGroup
	specs := make([]*engine.Spec, 8)
	for i := range specs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Compute(context.Background(), opts)
			if err != nil {
				t.Errorf("Compute() error: %v", err)
				return
			}
			specs[i] = s
		}()
	}
	wg.Wait()

	n := hooks.completed.Load()
	if n < 1 || n > int32(len(specs)) {
		t.Errorf("engine ran %d times, want between 1 and %d", n, len(specs))
	}
	for i, s := range specs {
		if s == nil || s.TotalModules != specs[0].TotalModules {
			t.Errorf("spec %d differs", i)
		}
	}
	if _, err := r.Compute(context.Background(), opts); err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if got := hooks.completed.Load(); got != n {
		t.Errorf("cached Compute ran the engine again: %d -> %d", n, got)
	}
}
