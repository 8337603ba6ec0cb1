// Package render draws a computed dome.
//
// # Overview
//
//   - Wireframe views of the module tiling (in [wireframe] subpackage)
//   - Output sinks for projected frames (in [sink] subpackage)
//   - Signal topology diagrams (in [topology] subpackage)
//   - SVG to PDF/PNG conversion
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Wireframe PNGs do not need it; they rasterize natively.
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//
// # Wireframes
//
// The [wireframe] subpackage builds a 3D scene from a [geometry.Layout] and
// projects it orthographically for a camera:
//
//	scene, err := wireframe.Build(spec.Geometry(), wireframe.Options{Room: true})
//	frame := scene.Project(wireframe.ViewA, 800, 800)
//	svg := sink.RenderSVG(frame)
//
// [wireframe]: github.com/matzehuels/domespec/pkg/render/wireframe
// [sink]: github.com/matzehuels/domespec/pkg/render/sink
// [topology]: github.com/matzehuels/domespec/pkg/render/topology
// [geometry.Layout]: github.com/matzehuels/domespec/pkg/geometry#Layout
package render
