package wireframe

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/geometry"
)

// Camera is an orthographic viewpoint. Angles are in degrees.
type Camera struct {
	Name  string  `json:"name"`
	Title string  `json:"title"`
	Elev  float64 `json:"elev_deg"`
	Azim  float64 `json:"azim_deg"`
	Flip  bool    `json:"flip,omitempty"` // mirror left-right
}

// Preset views.
var (
	ViewA = Camera{Name: "a", Title: "View A", Elev: 0, Azim: 180}
	ViewB = Camera{Name: "b", Title: "View B", Elev: 15, Azim: 230}
)

// Views lists the presets in display order.
var Views = []Camera{ViewA, ViewB}

// ViewByName returns the preset named name ("a" or "b", case-insensitive).
func ViewByName(name string) (Camera, error) {
	for _, v := range Views {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Camera{}, errors.New(errors.ErrCodeInvalidView, "unknown view %q (want a or b)", name)
}

// basis returns the screen right and up axes and the direction toward the
// eye.
func (c Camera) basis() (right, up, toward r3.Vector) {
	el, az := geometry.Radians(c.Elev), geometry.Radians(c.Azim)
	sinEl, cosEl := math.Sincos(el)
	sinAz, cosAz := math.Sincos(az)
	right = r3.Vector{X: -sinAz, Y: cosAz}
	up = r3.Vector{X: -cosAz * sinEl, Y: -sinAz * sinEl, Z: cosEl}
	toward = r3.Vector{X: cosEl * cosAz, Y: cosEl * sinAz, Z: sinEl}
	if c.Flip {
		right = right.Mul(-1)
	}
	return right, up, toward
}

// Point2 is a point in frame coordinates: pixels, origin top-left, y down.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a projected face.
type Polygon struct {
	Row    int      `json:"row"`
	Col    int      `json:"col"`
	Points []Point2 `json:"points"`
	Depth  float64  `json:"depth"`
}

// Line is a projected polyline.
type Line struct {
	Kind   LineKind `json:"kind"`
	Points []Point2 `json:"points"`
}

// Text is a projected label.
type Text struct {
	Text string `json:"text"`
	At   Point2 `json:"at"`
}

// Frame is a scene flattened for one camera and viewport.
type Frame struct {
	Camera Camera    `json:"camera"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Faces  []Polygon `json:"faces"`
	Lines  []Line    `json:"lines"`
	Labels []Text    `json:"labels,omitempty"`
}

// Frame layout in pixels.
const (
	frameMargin = 24
	titleHeight = 32
)

// Smallest viewport that leaves room for the drawing inside the margins.
const (
	MinWidth  = 2*frameMargin + 1
	MinHeight = 2*frameMargin + titleHeight + 1
)

// Project flattens the scene for cam into a width×height viewport, scaled
// uniformly to fit inside the margins. Faces come back farthest first.
func (s *Scene) Project(cam Camera, width, height float64) Frame {
	right, up, toward := cam.basis()
	flat := func(v r3.Vector) (float64, float64) {
		return v.Dot(right), v.Dot(up)
	}

	// Bounds over everything drawn.
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	grow := func(v r3.Vector) {
		u, w := flat(v)
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, w), math.Max(maxV, w)
	}
	for _, f := range s.Faces {
		for _, c := range f.Corners {
			grow(c)
		}
	}
	for _, l := range s.Lines {
		for _, p := range l.Points {
			grow(p)
		}
	}

	// Keeps the scale positive below MinWidth/MinHeight.
	availW := max(width-2*frameMargin, 1)
	availH := max(height-2*frameMargin-titleHeight, 1)
	spanU, spanV := maxU-minU, maxV-minV
	scale := math.Min(availW/nonZero(spanU), availH/nonZero(spanV))
	cx := frameMargin + availW/2
	cy := frameMargin + titleHeight + availH/2
	midU, midV := (minU+maxU)/2, (minV+maxV)/2

	to2 := func(v r3.Vector) Point2 {
		u, w := flat(v)
		return Point2{X: cx + (u-midU)*scale, Y: cy - (w-midV)*scale}
	}

	f := Frame{Camera: cam, Width: width, Height: height}

	f.Faces = make([]Polygon, len(s.Faces))
	for i, face := range s.Faces {
		p := Polygon{Row: face.Row, Col: face.Col, Points: make([]Point2, 4)}
		var center r3.Vector
		for k, c := range face.Corners {
			p.Points[k] = to2(c)
			center = center.Add(c)
		}
		p.Depth = center.Mul(0.25).Dot(toward)
		f.Faces[i] = p
	}
	slices.SortStableFunc(f.Faces, func(a, b Polygon) int {
		return cmp.Compare(a.Depth, b.Depth)
	})

	f.Lines = make([]Line, len(s.Lines))
	for i, l := range s.Lines {
		pts := make([]Point2, len(l.Points))
		for k, p := range l.Points {
			pts[k] = to2(p)
		}
		f.Lines[i] = Line{Kind: l.Kind, Points: pts}
	}

	for _, lb := range s.Labels {
		f.Labels = append(f.Labels, Text{Text: lb.Text, At: to2(lb.At)})
	}
	return f
}

func nonZero(v float64) float64 {
	if v < 1e-9 {
		return 1e-9
	}
	return v
}
