// Package geometry holds the spherical parametrization shared by the spec
// engine and the wireframe renderer.
//
// A dome is a sector of a sphere of radius R = diameter/2 centered on the
// origin. Polar angle θ is measured from +Z, so the equator is θ = 90°; the
// window spans θ ∈ [90−north, 90+south] and φ ∈ [−fovH/2, +fovH/2]:
//
//	x = R·sinθ·cosφ
//	y = R·sinθ·sinφ
//	z = R·cosθ
//
// Both components must use these helpers so the tiling the engine counts and
// the tiling the renderer draws cannot drift apart.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Dome describes the tiled spherical sector.
type Dome struct {
	DiameterMM float64 `json:"diameter_mm"`
	FOVH       float64 `json:"fov_h_deg"`
	FOVNorth   float64 `json:"fov_north_deg"`
	FOVSouth   float64 `json:"fov_south_deg"`
	ModulesH   int     `json:"modules_h"`
	ModulesV   int     `json:"modules_v"`
}

// Room is an axis-aligned clearance box around the dome.
type Room struct {
	WidthMM  float64 `json:"width_mm"`
	LengthMM float64 `json:"length_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Layout is the read-only projection of a computation that a renderer needs.
type Layout struct {
	Dome           Dome    `json:"dome"`
	Room           *Room   `json:"room,omitempty"`
	GroundOffsetMM float64 `json:"ground_offset_mm"`
}

// Radius returns the sphere radius in millimetres.
func (d Dome) Radius() float64 {
	return d.DiameterMM / 2
}

// ThetaRange returns the polar angle window in radians, top edge first.
func (d Dome) ThetaRange() (min, max float64) {
	return Radians(90 - d.FOVNorth), Radians(90 + d.FOVSouth)
}

// PhiRange returns the azimuth window in radians.
func (d Dome) PhiRange() (min, max float64) {
	return Radians(-d.FOVH / 2), Radians(d.FOVH / 2)
}

// DisplayHeightMM returns the vertical extent of the dome window.
func (d Dome) DisplayHeightMM() float64 {
	return d.Radius() * (math.Sin(Radians(d.FOVNorth)) + math.Sin(Radians(d.FOVSouth)))
}

// BottomZ returns the z coordinate of the lowest edge of the window.
func (d Dome) BottomZ() float64 {
	return -d.Radius() * math.Sin(Radians(d.FOVSouth))
}

// Point returns the point on a sphere of radius r at polar angle theta and
// azimuth phi, both in radians.
func Point(r, theta, phi float64) r3.Vector {
	return r3.Vector{
		X: r * math.Sin(theta) * math.Cos(phi),
		Y: r * math.Sin(theta) * math.Sin(phi),
		Z: r * math.Cos(theta),
	}
}

// Radians converts degrees to radians the same way the engine does.
func Radians(deg float64) float64 {
	return deg / 180 * math.Pi
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// ParallelArcMM returns the arc length of the parallel at latitude latDeg
// inside a horizontal window of fovH degrees on a sphere of the given
// diameter. Latitude is measured from the equator.
func ParallelArcMM(diameterMM, latDeg, fovH float64) float64 {
	return diameterMM * math.Pi * math.Cos(Radians(latDeg)) * fovH / 360
}

// ArcMM returns the great-circle arc length spanned by angleDeg.
func ArcMM(diameterMM, angleDeg float64) float64 {
	return math.Pi * diameterMM * (angleDeg / 360)
}
