package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette Palette
	title   bool
	faces   bool
}

func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }
func WithoutTitle() SVGOption         { return func(r *svgRenderer) { r.title = false } }
func WithoutFaces() SVGOption         { return func(r *svgRenderer) { r.faces = false } }

func RenderSVG(f wireframe.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	p := r.palette

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", p.Background)

	if r.faces {
		fmt.Fprintf(&buf, `  <g class="faces" fill="%s" stroke="%s" stroke-width="%.1f">`+"\n",
			p.Face, p.FaceStroke, faceStrokeWidth)
		for _, face := range f.Faces {
			fmt.Fprintf(&buf, `    <polygon id="m-%d-%d" points="%s"/>`+"\n", face.Row, face.Col, points(face.Points))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="lines" fill="none">` + "\n")
	for _, l := range f.Lines {
		s := p.line(l.Kind)
		dash := ""
		if s.dashed {
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(&buf, `    <polyline class="%s" stroke="%s" stroke-width="%.1f"%s points="%s"/>`+"\n",
			l.Kind, s.color, s.width, dash, points(l.Points))
	}
	buf.WriteString("  </g>\n")

	if len(f.Labels) > 0 {
		fmt.Fprintf(&buf, `  <g class="labels" fill="%s" font-family="sans-serif" font-size="%.0f" text-anchor="middle">`+"\n",
			p.Text, labelFontSize)
		for _, lb := range f.Labels {
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n", lb.At.X, lb.At.Y, html.EscapeString(lb.Text))
		}
		buf.WriteString("  </g>\n")
	}

	if r.title && f.Camera.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="%.0f" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
			f.Width/2, titleBaseline, p.Text, titleFontSize, html.EscapeString(f.Camera.Title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette, title: true, faces: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func points(pts []wireframe.Point2) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.X, p.Y)
	}
	return sb.String()
}
