package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/render"
)

// Options configures topology diagram rendering.
type Options struct {
	// Detailed adds per-row IC counts and boundary widths to row labels.
	// When false, rows show only their LED count.
	Detailed bool
}

// ToDOT converts a spec's signal chain to Graphviz DOT: sending
// controllers feed the receiving hubs, which fan out to the module rows of
// each hemisphere. Rows appear in physical order, north edge first.
func ToDOT(s *engine.Spec, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightsteelblue];\n", "controllers",
		fmt.Sprintf("Controller x %d\n%d x %d px", s.TotalControllers, s.Params.ResolutionH, s.ResolutionVFinal))
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightyellow];\n", "hubs",
		fmt.Sprintf("Hub x %d\n%d modules / hub\n%d px budget", s.TotalHubs, s.ModulesPerReceiver, s.ReceiverCapacity))
	buf.WriteString("  \"controllers\" -> \"hubs\";\n")

	for _, h := range []struct {
		id    engine.Hemisphere
		title string
		n     int
	}{
		{engine.North, "North", s.ModulesNorth},
		{engine.South, "South", s.ModulesSouth},
	} {
		if h.n == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%s\" {\n", h.id)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("%s (%d rows x %d modules)", h.title, h.n, s.ModulesH))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, r := range s.Rows {
			if r.Hemisphere != h.id {
				continue
			}
			fmt.Fprintf(&buf, "    %q [label=%q];\n", rowID(r), rowLabel(r, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, r := range s.Rows {
		fmt.Fprintf(&buf, "  \"hubs\" -> %q;\n", rowID(r))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rowID(r engine.Row) string {
	return fmt.Sprintf("row-%d", r.Index)
}

func rowLabel(r engine.Row, detailed bool) string {
	label := fmt.Sprintf("Row %d\n%d LEDs / module", r.Index, r.LEDs)
	if !detailed {
		return label
	}
	parts := []string{
		label,
		fmt.Sprintf("width: %d-%d px", r.Upper, r.Lower),
		fmt.Sprintf("scan ICs: %s", strconv.FormatFloat(r.Scan, 'f', -1, 64)),
		fmt.Sprintf("PWM ICs: %s", strconv.FormatFloat(r.PWM, 'f', -1, 64)),
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render topology")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the diagram scales like the wireframe sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion (needs librsvg).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion (needs librsvg).
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
