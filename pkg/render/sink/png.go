package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	palette Palette
	scale   float64
	title   bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGPalette overrides the colors.
func WithPNGPalette(p Palette) PNGOption {
	return func(r *pngRenderer) { r.palette = p }
}

// WithPNGTitle toggles the view title (on by default).
func WithPNGTitle(on bool) PNGOption {
	return func(r *pngRenderer) { r.title = on }
}

// RenderPNG rasterizes the frame directly, without librsvg. Labels use the
// built-in bitmap face, so glyphs do not grow with the scale factor.
func RenderPNG(f wireframe.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{palette: DefaultPalette, scale: 2.0, title: true}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}
	w := int(math.Ceil(f.Width * r.scale))
	h := int(math.Ceil(f.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty frame %vx%v", f.Width, f.Height)
	}

	p := r.palette
	dc := gg.NewContext(w, h)
	dc.SetHexColor(p.Background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	for _, face := range f.Faces {
		path(dc, face.Points, true)
		dc.SetHexColor(p.Face)
		dc.FillPreserve()
		dc.SetHexColor(p.FaceStroke)
		dc.SetLineWidth(faceStrokeWidth)
		dc.Stroke()
	}

	for _, l := range f.Lines {
		s := p.line(l.Kind)
		if s.dashed {
			dc.SetDash(6, 4)
		}
		path(dc, l.Points, false)
		dc.SetHexColor(s.color)
		dc.SetLineWidth(s.width)
		dc.Stroke()
		dc.SetDash()
	}

	dc.SetHexColor(p.Text)
	for _, lb := range f.Labels {
		dc.DrawStringAnchored(lb.Text, lb.At.X, lb.At.Y, 0.5, 0)
	}
	if r.title && f.Camera.Title != "" {
		dc.DrawStringAnchored(f.Camera.Title, f.Width/2, titleBaseline, 0.5, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func path(dc *gg.Context, pts []wireframe.Point2, closed bool) {
	dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}
