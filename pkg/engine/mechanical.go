package engine

import (
	"math"

	"github.com/matzehuels/domespec/pkg/geometry"
)

// Clearances added around the structure when sizing the room, in mm.
const (
	roomClearanceMM    = 3000
	ceilingClearanceMM = 1500
)

// Cabinet mass per reference area: 870 kg per 10.4576 m².
const (
	referenceAreaM2   = 10.4576
	referenceWeightKG = 870
)

// DisplayAreaM2 returns the lit surface area of the spherical zone in m².
func DisplayAreaM2(diameterMM, fovH, fovNorth, fovSouth float64) float64 {
	r := diameterMM / 2000
	band := math.Sin(geometry.Radians(fovNorth)) + math.Sin(geometry.Radians(fovSouth))
	return math.Abs(2 * math.Pi * r * r * band * fovH / 360)
}

// WeightKG estimates cabinet weight from display area.
func WeightKG(areaM2 float64) float64 {
	return areaM2 / referenceAreaM2 * referenceWeightKG
}

// RecommendRoom sizes a room that clears the dome. Windows up to 180° use
// the chord and sagitta of the visible arc; wider windows need the full
// diameter.
func RecommendRoom(p Params, fovNorth, fovSouth float64) Room {
	r := p.DiameterMM / 2
	half := geometry.Radians(p.FOVH / 2)

	room := Room{
		LengthMM: r*(1-math.Cos(half)) + roomClearanceMM,
		HeightMM: r*(math.Sin(geometry.Radians(fovNorth))+math.Sin(geometry.Radians(fovSouth))) +
			ceilingClearanceMM + p.BottomEdgeHeightMM,
	}
	if p.FOVH <= 180 {
		room.WidthMM = 2*r*math.Sin(half) + roomClearanceMM
		room.Layout = RoomChord
	} else {
		room.WidthMM = p.DiameterMM + roomClearanceMM
		room.Layout = RoomWraparound
	}
	return room
}
