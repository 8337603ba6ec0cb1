package pipeline

import (
	"context"
	"encoding/json"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
	"github.com/matzehuels/domespec/pkg/observability/tracing"
	"github.com/matzehuels/domespec/pkg/render/sink"
	"github.com/matzehuels/domespec/pkg/render/topology"
	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

// job is one artifact to produce.
type job struct {
	kind   string
	view   string
	format string
}

// plan lists the artifacts opts asks for: every view in every format, then
// the topology diagram in every format.
func plan(opts Options) []job {
	var jobs []job
	for _, v := range opts.Views {
		for _, f := range opts.Formats {
			jobs = append(jobs, job{kind: KindWireframe, view: v, format: f})
		}
	}
	if opts.Topology {
		for _, f := range opts.Formats {
			jobs = append(jobs, job{kind: KindTopology, format: f})
		}
	}
	return jobs
}

// renderJobs produces the data of each job concurrently. The scene is built
// once and shared; projection only reads it. The first failure cancels the
// remaining jobs.
func renderJobs(ctx context.Context, s *engine.Spec, jobs []job, opts Options) ([][]byte, error) {
	var scene *wireframe.Scene
	var dot string
	for _, j := range jobs {
		switch {
		case j.kind == KindWireframe && scene == nil:
			sc, err := wireframe.Build(s.Geometry(), opts.WireframeOptions())
			if err != nil {
				return nil, err
			}
			scene = sc
		case j.kind == KindTopology && dot == "":
			dot = topology.ToDOT(s, topology.Options{Detailed: opts.Detailed})
		}
	}

	out := make([][]byte, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jctx, span := tracing.Start(gctx, tracerName, "render.artifact",
				attribute.String("kind", j.kind),
				attribute.String("view", j.view),
				attribute.String("format", j.format))
			hooks := observability.Render()
			hooks.OnRenderStart(jctx, j.kind, j.format)
			start := time.Now()

			var data []byte
			var err error
			switch j.kind {
			case KindWireframe:
				data, err = renderWireframe(scene, j.view, j.format, opts)
			case KindTopology:
				data, err = renderTopology(jctx, dot, j.format, opts)
			default:
				err = errors.New(errors.ErrCodeInternal, "unknown artifact kind %q", j.kind)
			}

			hooks.OnRenderComplete(jctx, j.kind, j.format, len(data), time.Since(start), err)
			span.SetAttributes(attribute.Int("bytes", len(data)))
			tracing.End(span, err)
			if err != nil {
				return err
			}
			opts.Logger.Debug("rendered", "kind", j.kind, "view", j.view, "format", j.format, "bytes", len(data))
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderWireframe(scene *wireframe.Scene, view, format string, opts Options) ([]byte, error) {
	cam, err := wireframe.ViewByName(view)
	if err != nil {
		return nil, err
	}
	cam.Flip = opts.Flip
	frame := scene.Project(cam, opts.Width, opts.Height)

	switch format {
	case FormatSVG:
		return sink.RenderSVG(frame), nil
	case FormatPNG:
		return sink.RenderPNG(frame, sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(frame)
	case FormatJSON:
		return sink.RenderJSON(frame)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported wireframe format: %s", format)
	}
}

func renderTopology(ctx context.Context, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return topology.RenderSVG(ctx, dot)
	case FormatPNG:
		return topology.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return topology.RenderPDF(ctx, dot)
	case FormatJSON:
		return json.Marshal(struct {
			DOT string `json:"dot"`
		}{dot})
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format: %s", format)
	}
}
