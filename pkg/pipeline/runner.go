package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/domespec/pkg/cache"
	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
	"github.com/matzehuels/domespec/pkg/observability/tracing"
)

const tracerName = "github.com/matzehuels/domespec/pkg/pipeline"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; concurrent computations of the same
// parameters are collapsed into one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	computes singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (_ *Result, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "pipeline.execute")
	defer func() { tracing.End(span, err) }()

	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Compute
	computeStart := time.Now()
	spec, hit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Spec = spec
	result.SpecHash = SpecHash(spec)
	result.Stats.ComputeTime = time.Since(computeStart)
	result.CacheInfo.SpecHit = hit

	r.Logger.Info("computed spec",
		"modules", spec.TotalModules,
		"pitch_mm", spec.PitchMM,
		"cached", hit,
		"duration", result.Stats.ComputeTime)
	for _, w := range spec.Warnings() {
		r.Logger.Warn(w)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, spec, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHits = hits

	r.Logger.Info("rendered outputs",
		"artifacts", len(artifacts),
		"cached", hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo derives the spec with caching and returns cache hit info.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, opts Options) (_ *engine.Spec, hit bool, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "pipeline.compute")
	defer func() {
		span.SetAttributes(attribute.Bool("cache.hit", hit))
		tracing.End(span, err)
	}()

	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.SpecKey(opts.Params, opts.Constants)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var s engine.Spec
			if err := json.Unmarshal(data, &s); err == nil {
				observability.Cache().OnCacheHit(ctx, "spec")
				return &s, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "spec")
	}

	v, err, _ := r.computes.Do(cacheKey, func() (any, error) {
		return Compute(ctx, opts.Params, opts.Constants)
	})
	if err != nil {
		return nil, false, err
	}
	s := v.(*engine.Spec)

	if data, err := json.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, 0); err == nil {
			observability.Cache().OnCacheSet(ctx, "spec", len(data))
		}
	}

	return s, false, nil // Cache miss
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, opts Options) (*engine.Spec, error) {
	s, _, err := r.ComputeWithCacheInfo(ctx, opts)
	return s, err
}

// Compute runs the engine once and reports it to the engine hooks.
func Compute(ctx context.Context, p engine.Params, c engine.Constants) (*engine.Spec, error) {
	ctx, span := tracing.Start(ctx, tracerName, "engine.compute",
		attribute.Float64("diameter_mm", p.DiameterMM),
		attribute.Int("resolution_h", p.ResolutionH))

	hooks := observability.Engine()
	hooks.OnComputeStart(ctx)
	start := time.Now()
	s, err := engine.Compute(p, c)
	var fallbacks []string
	if err == nil {
		fallbacks = s.Fallbacks()
		span.SetAttributes(
			attribute.Int("modules", s.TotalModules),
			attribute.StringSlice("fallbacks", fallbacks))
	}
	hooks.OnComputeComplete(ctx, fallbacks, time.Since(start), err)
	tracing.End(span, err)
	return s, err
}

// SpecHash returns the content hash of a spec.
func SpecHash(s *engine.Spec) string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// RenderWithCacheInfo renders every requested artifact with caching and
// returns how many came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *engine.Spec, opts Options) (_ []Artifact, hits int, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "pipeline.render")
	defer func() {
		span.SetAttributes(attribute.Int("cache.hits", hits))
		tracing.End(span, err)
	}()

	if s == nil {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "nothing to render: spec is nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, 0, err
	}

	jobs := plan(opts)
	specHash := SpecHash(s)
	artifacts := make([]Artifact, len(jobs))
	var missing []int

	for i, j := range jobs {
		artifacts[i] = Artifact{Kind: j.kind, View: j.view, Format: j.format}
		if opts.Refresh {
			missing = append(missing, i)
			continue
		}
		key := r.Keyer.ArtifactKey(specHash, opts.ArtifactKeyOpts(j.kind, j.view, j.format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[i].Data = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, i)
	}
	hits = len(jobs) - len(missing)
	span.SetAttributes(attribute.Int("artifacts", len(jobs)))
	if len(missing) == 0 {
		return artifacts, hits, nil // All artifacts from cache
	}

	todo := make([]job, len(missing))
	for k, i := range missing {
		todo[k] = jobs[i]
	}
	rendered, err := renderJobs(ctx, s, todo, opts)
	if err != nil {
		return nil, 0, err
	}

	for k, i := range missing {
		artifacts[i].Data = rendered[k]
		key := r.Keyer.ArtifactKey(specHash, opts.ArtifactKeyOpts(jobs[i].kind, jobs[i].view, jobs[i].format))
		if err := r.Cache.Set(ctx, key, rendered[k], 0); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(rendered[k]))
		}
	}
	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *engine.Spec, opts Options) ([]Artifact, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
