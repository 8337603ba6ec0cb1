package engine

import (
	"math"

	"github.com/matzehuels/domespec/pkg/geometry"
)

// BoundaryPixels returns the horizontal pixel count of one module at the
// k-th boundary away from the equator. Boundaries past a pole clamp to 0.
func BoundaryPixels(s *Spec, k int) int {
	lat := float64(k) * s.AnglePerModuleV
	arc := geometry.ParallelArcMM(s.Params.DiameterMM, lat, s.Params.FOVH)
	px := int(math.RoundToEven(arc / float64(s.ModulesH) / s.PitchMM))
	return max(px, 0)
}

// buildRows lays out every module row from the north edge to the south edge.
func buildRows(s *Spec, c Constants) []Row {
	rows := make([]Row, 0, s.ModulesV)
	for i := 1; i <= s.ModulesNorth; i++ {
		k := s.ModulesNorth + 1 - i
		rows = append(rows, Row{
			Hemisphere: North,
			Upper:      BoundaryPixels(s, k),
			Lower:      BoundaryPixels(s, k-1),
		})
	}
	for k := 1; k <= s.ModulesSouth; k++ {
		rows = append(rows, Row{
			Hemisphere: South,
			Upper:      BoundaryPixels(s, k-1),
			Lower:      BoundaryPixels(s, k),
		})
	}

	scanPerGroup := ceilDiv(s.MaxScan, 8)
	for i := range rows {
		r := &rows[i]
		r.Index = i + 1
		r.LEDs = int(math.RoundToEven(float64(r.Upper+r.Lower) * float64(s.PixelsPerModuleV) / 2))

		peak := r.PeakPixels()
		region := 1
		if peak > c.ChannelThresholdForDoubleScan {
			region = 2
		}
		r.Scan = float64(scanPerGroup*region) * s.DataGroupsPerModule
		r.PWM = float64(ceilDiv(peak, 16)*3) * s.DataGroupsPerModule
	}
	return rows
}

// controllerPixels is the pixel budget of one sending controller (one 4K frame).
const controllerPixels = 3840 * 2160

// tallyTotals fills the whole-dome counts from the rows.
func tallyTotals(s *Spec) {
	var leds int
	var scan, pwm float64
	for _, r := range s.Rows {
		leds += r.LEDs
		scan += r.Scan
		pwm += r.PWM
	}
	nEq := float64(s.ModulesH)
	s.TotalLEDsK = float64(leds) * nEq / 1000
	s.TotalScan = scan * nEq
	s.TotalPWM = pwm * nEq
	s.TotalModules = s.ModulesH * s.ModulesV
	s.TotalHubs = s.TotalModules / s.ModulesPerReceiver
	s.TotalControllers = ceilDiv(s.PixelCount(), controllerPixels)
}

// PixelCount returns the total pixel count of the final canvas.
func (s *Spec) PixelCount() int {
	return s.Params.ResolutionH * s.ResolutionVFinal
}
