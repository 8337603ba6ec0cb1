// Package pkg provides the libraries behind domespec, the LED dome display
// specification tool.
//
// # Overview
//
// Domespec turns a handful of customer parameters (sphere diameter, field of
// view, resolution, luminance, frame rate) into the engineering
// specification of a spherical LED display and draws its module layout:
//
//  1. [engine] - the specification calculation (tiling, scan, power, room)
//  2. [geometry] - the narrow layout record the renderer consumes
//  3. [render] - wireframe views, output sinks and the signal topology
//  4. [report] - the customer-facing product table and exports
//  5. [pipeline] - orchestration (compute → render) with caching
//
// Supporting packages: [config] (constants, job files, environment),
// [cache], [errors], [observability] and [buildinfo].
//
// # Architecture
//
//	Params + Constants
//	         ↓
//	    [engine] package (Validate, Compute)
//	         ↓
//	    engine.Spec ──→ [report] (document number, KPIs, table)
//	         ↓
//	    [geometry] Layout
//	         ↓
//	    [render/wireframe] Scene → Frame ──→ [render/sink] SVG/PNG/PDF/JSON
//
// # Quick Start
//
//	p := engine.DefaultParams()
//	p.DiameterMM = 5000
//	if err := engine.Validate(p); err != nil {
//	    return err
//	}
//	spec, err := engine.Compute(p, engine.DefaultConstants())
//	if err != nil {
//	    return err
//	}
//
//	scene, err := wireframe.Build(spec.Geometry(), wireframe.Options{Room: true})
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(scene.Project(wireframe.ViewB, 800, 600))
//
// The [pipeline] package wraps these steps with caching and concurrent
// rendering; the domespec CLI is built on it.
//
// [engine]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/engine
// [geometry]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/geometry
// [render]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/render
// [render/wireframe]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/render/wireframe
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/render/sink
// [report]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/domespec/pkg/buildinfo
package pkg
