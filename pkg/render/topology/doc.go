// Package topology draws the signal chain of a computed display.
//
// The diagram reads left to right: the sending controllers, the receiving
// hubs with their module budget, then one node per module row grouped by
// hemisphere. It complements the wireframe, which shows where modules sit,
// by showing how pixels reach them.
//
//	dot := topology.ToDOT(spec, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// Graphviz runs in-process through goccy/go-graphviz, so SVG output needs
// no system packages. [RenderPDF] and [RenderPNG] convert that SVG with
// rsvg-convert and need librsvg installed.
package topology
