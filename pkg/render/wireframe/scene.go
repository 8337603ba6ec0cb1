package wireframe

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/geometry"
)

// Default sample counts for curved lines.
const (
	DefaultEquatorSamples  = 400
	DefaultParallelSamples = 400
	DefaultMeridianSamples = 200
)

// LineKind classifies a polyline for styling.
type LineKind string

const (
	LineEquator   LineKind = "equator"
	LineMeridian  LineKind = "meridian"
	LineParallel  LineKind = "parallel"
	LineRoom      LineKind = "room"
	LineDimension LineKind = "dimension"
)

// Options controls what [Build] adds to the scene.
type Options struct {
	// Room draws the room box when the layout carries one.
	Room bool

	// Labels adds dimension annotations (room size, display height, ground
	// clearance).
	Labels bool

	// Sample counts; zero selects the defaults.
	EquatorSamples  int
	ParallelSamples int
	MeridianSamples int
}

// Polyline is an open chain of 3D points.
type Polyline struct {
	Kind   LineKind
	Points []r3.Vector
}

// Face is one module quad, corners in winding order.
type Face struct {
	Row, Col int
	Corners  [4]r3.Vector
}

// Label is a text annotation anchored at a 3D point.
type Label struct {
	Text string
	At   r3.Vector
}

// Scene is the 3D wireframe of a layout.
type Scene struct {
	Layout geometry.Layout
	Faces  []Face
	Lines  []Polyline
	Labels []Label
}

// Build tessellates the layout. It fails with INVALID_INPUT when the dome
// has no modules or no size.
func Build(l geometry.Layout, opts Options) (*Scene, error) {
	d := l.Dome
	if !(d.DiameterMM > 0) || d.ModulesH <= 0 || d.ModulesV <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"cannot draw a %v mm dome with %dx%d modules", d.DiameterMM, d.ModulesH, d.ModulesV)
	}
	opts = withDefaults(opts)

	s := &Scene{Layout: l}
	r := d.Radius()
	tMin, tMax := d.ThetaRange()
	pMin, pMax := d.PhiRange()
	thetas := geometry.Linspace(tMin, tMax, d.ModulesV+1)
	phis := geometry.Linspace(pMin, pMax, d.ModulesH+1)

	s.Faces = make([]Face, 0, d.ModulesV*d.ModulesH)
	for i := 0; i < d.ModulesV; i++ {
		for j := 0; j < d.ModulesH; j++ {
			s.Faces = append(s.Faces, Face{
				Row: i,
				Col: j,
				Corners: [4]r3.Vector{
					geometry.Point(r, thetas[i], phis[j]),
					geometry.Point(r, thetas[i], phis[j+1]),
					geometry.Point(r, thetas[i+1], phis[j+1]),
					geometry.Point(r, thetas[i+1], phis[j]),
				},
			})
		}
	}

	s.Lines = append(s.Lines, Polyline{
		Kind:   LineEquator,
		Points: arc(r, math.Pi/2, math.Pi/2, pMin, pMax, opts.EquatorSamples),
	})
	for _, phi := range phis {
		s.Lines = append(s.Lines, Polyline{
			Kind:   LineMeridian,
			Points: arc(r, tMin, tMax, phi, phi, opts.MeridianSamples),
		})
	}
	for _, theta := range thetas {
		s.Lines = append(s.Lines, Polyline{
			Kind:   LineParallel,
			Points: arc(r, theta, theta, pMin, pMax, opts.ParallelSamples),
		})
	}

	if opts.Room && l.Room != nil {
		s.addRoom(opts.Labels)
	}
	if opts.Labels {
		s.addDisplayLabels()
	}
	return s, nil
}

func withDefaults(o Options) Options {
	if o.EquatorSamples <= 1 {
		o.EquatorSamples = DefaultEquatorSamples
	}
	if o.ParallelSamples <= 1 {
		o.ParallelSamples = DefaultParallelSamples
	}
	if o.MeridianSamples <= 1 {
		o.MeridianSamples = DefaultMeridianSamples
	}
	return o
}

// arc samples n points on the sphere from (t0, p0) to (t1, p1), varying
// theta and phi linearly.
func arc(r, t0, t1, p0, p1 float64, n int) []r3.Vector {
	ts := geometry.Linspace(t0, t1, n)
	ps := geometry.Linspace(p0, p1, n)
	out := make([]r3.Vector, n)
	for i := range out {
		out[i] = geometry.Point(r, ts[i], ps[i])
	}
	return out
}

// FloorZ returns the z coordinate of the floor: the window's bottom edge
// lowered by the ground offset.
func (s *Scene) FloorZ() float64 {
	return s.Layout.Dome.BottomZ() - s.Layout.GroundOffsetMM
}

// RoomCorners returns the eight corners of the room box: the four floor
// corners then the four ceiling corners. The box's far wall touches the
// dome apex at x = R.
func (s *Scene) RoomCorners() [8]r3.Vector {
	room := s.Layout.Room
	r := s.Layout.Dome.Radius()
	x0, x1 := r-room.LengthMM, r
	y := room.WidthMM / 2
	z0 := s.FloorZ()
	z1 := z0 + room.HeightMM
	return [8]r3.Vector{
		{X: x0, Y: -y, Z: z0}, {X: x1, Y: -y, Z: z0}, {X: x1, Y: y, Z: z0}, {X: x0, Y: y, Z: z0},
		{X: x0, Y: -y, Z: z1}, {X: x1, Y: -y, Z: z1}, {X: x1, Y: y, Z: z1}, {X: x0, Y: y, Z: z1},
	}
}

// roomEdges lists the box edges as corner index pairs.
var roomEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func (s *Scene) addRoom(labels bool) {
	c := s.RoomCorners()
	for _, e := range roomEdges {
		s.Lines = append(s.Lines, Polyline{Kind: LineRoom, Points: []r3.Vector{c[e[0]], c[e[1]]}})
	}
	if !labels {
		return
	}
	room := s.Layout.Room
	s.Labels = append(s.Labels,
		Label{Text: fmt.Sprintf("W %.0f mm", room.WidthMM), At: mid(c[0], c[3])},
		Label{Text: fmt.Sprintf("L %.0f mm", room.LengthMM), At: mid(c[2], c[3])},
		Label{Text: fmt.Sprintf("H %.0f mm", room.HeightMM), At: mid(c[3], c[7])},
	)
}

func (s *Scene) addDisplayLabels() {
	d := s.Layout.Dome
	r := d.Radius()
	top := geometry.Point(r, geometry.Radians(90-d.FOVNorth), 0)
	bottom := geometry.Point(r, geometry.Radians(90+d.FOVSouth), 0)
	s.Lines = append(s.Lines, Polyline{Kind: LineDimension, Points: []r3.Vector{top, bottom}})
	s.Labels = append(s.Labels, Label{
		Text: fmt.Sprintf("Display height %.0f mm", d.DisplayHeightMM()),
		At:   mid(top, bottom),
	})

	if g := s.Layout.GroundOffsetMM; g > 0 {
		floor := r3.Vector{X: bottom.X, Y: bottom.Y, Z: s.FloorZ()}
		s.Lines = append(s.Lines, Polyline{Kind: LineDimension, Points: []r3.Vector{bottom, floor}})
		s.Labels = append(s.Labels, Label{
			Text: fmt.Sprintf("Ground clearance %.0f mm", g),
			At:   mid(bottom, floor),
		})
	}
}

func mid(a, b r3.Vector) r3.Vector {
	return a.Add(b).Mul(0.5)
}
