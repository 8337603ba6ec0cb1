package engine

import (
	"math"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/geometry"
)

// vertical candidates tried before falling back: n, n+4, ..., n+16.
const verticalCandidates = 5

// ModuleWidthLimitMM returns the widest module allowed by the physical size
// cap and the angular cap converted to arc length.
func ModuleWidthLimitMM(diameterMM float64, c Constants) float64 {
	arcLimit := diameterMM * math.Pi / (360 / c.ModuleAngleLimitDeg)
	return math.Min(c.ModuleSizeLimitMM, arcLimit)
}

// roundUpTo4 rounds n up to the next multiple of 4.
func roundUpTo4(n int) int {
	if r := n % 4; r != 0 {
		n += 4 - r
	}
	return n
}

// searchHorizontal returns the smallest multiple of 4, at or above the count
// the width limit requires, that divides the horizontal resolution.
func searchHorizontal(arcH float64, p Params, c Constants) (int, error) {
	start := roundUpTo4(int(math.Ceil(arcH / ModuleWidthLimitMM(p.DiameterMM, c))))
	if start < 4 {
		start = 4
	}
	for n := start; n <= p.ResolutionH; n += 4 {
		if p.ResolutionH%n == 0 {
			return n, nil
		}
	}
	return 0, errors.New(errors.ErrCodeComputation,
		"no multiple of 4 between %d and %d divides the horizontal resolution %d",
		start, p.ResolutionH, p.ResolutionH)
}

type verticalTiling struct {
	modules    int
	resolution int
	arc        float64
	fov        float64
	outcome    VerticalOutcome
}

// VerticalCandidates returns the vertical module counts tried in order.
func VerticalCandidates(diameterMM, fovV float64, c Constants) []int {
	arcV := geometry.ArcMM(diameterMM, fovV)
	n := roundUpTo4(int(math.Ceil(arcV / c.ModuleSizeLimitMM)))
	out := make([]int, verticalCandidates)
	for k := range out {
		out[k] = n + 4*k
	}
	return out
}

// fitsDriverTiling reports whether a module with pxV vertical pixels can be
// tiled by the drivers (multiple of 3 or 4).
func fitsDriverTiling(pxV int) bool {
	return pxV%3 == 0 || pxV%4 == 0
}

// searchVertical takes the first candidate that divides the target resolution
// into a driver-friendly module height. If none does, it keeps the smallest
// candidate and moves the resolution to the nearest multiple of 4×candidate.
func searchVertical(target int, pitch float64, p Params, c Constants) verticalTiling {
	fovV := p.FOVV()
	arcV := geometry.ArcMM(p.DiameterMM, fovV)
	cands := VerticalCandidates(p.DiameterMM, fovV, c)

	for _, nv := range cands {
		if target%nv == 0 && fitsDriverTiling(target/nv) {
			return verticalTiling{
				modules:    nv,
				resolution: target,
				arc:        arcV,
				fov:        fovV,
				outcome:    VerticalExact,
			}
		}
	}

	nv := cands[0]
	base := 4 * nv
	res := max(base, int(math.RoundToEven(float64(target)/float64(base)))*base)
	arc := pitch * float64(res)
	return verticalTiling{
		modules:    nv,
		resolution: res,
		arc:        arc,
		fov:        arc * 360 / (math.Pi * p.DiameterMM),
		outcome:    VerticalAdjusted,
	}
}

type verticalSplit struct {
	angle              float64
	north, south       int
	fovNorth, fovSouth float64
}

// splitVertical shares modules between hemispheres in proportion to the
// requested north:south ratio. South takes the remainder so the two always
// sum to the total.
func splitVertical(p Params, fovVFinal float64, modules int) verticalSplit {
	ratioN := p.FOVNorth / (p.FOVNorth + p.FOVSouth)
	angle := fovVFinal / float64(modules)
	north := int(math.RoundToEven(fovVFinal * ratioN / angle))
	south := modules - north
	return verticalSplit{
		angle:    angle,
		north:    north,
		south:    south,
		fovNorth: float64(north) * angle,
		fovSouth: float64(south) * angle,
	}
}
