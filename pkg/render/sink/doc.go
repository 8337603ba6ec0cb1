// Package sink writes projected wireframe frames to output formats.
//
// A sink takes a [wireframe.Frame] (already projected for one camera and
// viewport) and encodes it:
//
//   - SVG: hand-written vector markup, see [RenderSVG]
//   - PNG: rasterized natively with fogleman/gg, see [RenderPNG]
//   - PDF: SVG converted through rsvg-convert, see [RenderPDF]
//   - JSON: the frame itself, for external tools, see [RenderJSON]
//
// All sinks paint in the same order: background, module faces back to
// front, grid lines, room and dimension lines, labels, then the view title.
// Colors come from a shared [Palette] so the vector and raster outputs
// match.
//
// PNG does not need librsvg. PDF does:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [wireframe.Frame]: github.com/matzehuels/domespec/pkg/render/wireframe#Frame
package sink
