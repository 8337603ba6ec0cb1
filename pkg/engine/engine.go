package engine

import (
	"math"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/geometry"
)

// Compute derives the full specification for p under the constants c.
//
// Compute does not validate p; see [Validate]. Inputs that make any step
// divide by zero, or that leave a search with no answer and no fallback,
// return an error with code COMPUTATION_FAILED and a nil Spec.
func Compute(p Params, c Constants) (*Spec, error) {
	if err := checkDegenerate(p, c); err != nil {
		return nil, err
	}

	s := &Spec{Params: p, Constants: c}

	// Steps 1-3
	arcH := geometry.ArcMM(p.DiameterMM, p.FOVH)
	s.PitchMM = arcH / float64(p.ResolutionH)
	s.FOVV = p.FOVV()
	s.ResolutionVTarget = int(math.RoundToEven(float64(p.ResolutionH) * (s.FOVV / p.FOVH)))
	if s.ResolutionVTarget <= 0 {
		return nil, errors.New(errors.ErrCodeComputation,
			"vertical resolution rounds to %d px for a %.4g° vertical window", s.ResolutionVTarget, s.FOVV)
	}
	s.ReceiverCapacity, s.ReceiverOutcome = ReceiverCapacity(p.FrameRate)

	// Step 4
	h, err := searchHorizontal(arcH, p, c)
	if err != nil {
		return nil, err
	}
	s.ModulesH = h
	s.AnglePerModuleH = p.FOVH / float64(h)
	s.WidthPerModuleMM = arcH / float64(h)
	s.PixelsPerModuleH = p.ResolutionH / h

	// Step 5
	v := searchVertical(s.ResolutionVTarget, s.PitchMM, p, c)
	s.ModulesV = v.modules
	s.VerticalOutcome = v.outcome
	s.ResolutionVFinal = v.resolution
	s.FOVVFinal = v.fov
	s.HeightPerModuleMM = v.arc / float64(v.modules)
	s.PixelsPerModuleV = v.resolution / v.modules

	// Step 6
	split := splitVertical(p, s.FOVVFinal, s.ModulesV)
	s.AnglePerModuleV = split.angle
	s.ModulesNorth, s.ModulesSouth = split.north, split.south
	s.FOVNorthFinal, s.FOVSouthFinal = split.fovNorth, split.fovSouth

	// Step 7
	s.DisplayAreaM2 = DisplayAreaM2(p.DiameterMM, p.FOVH, s.FOVNorthFinal, s.FOVSouthFinal)

	// Steps 8-9
	s.ModulesPerReceiver = ModulesPerReceiver(s.PixelsPerModuleH, s.PixelsPerModuleV, s.ReceiverCapacity)
	s.MaxDataGroupsPerModule = 32 / s.ModulesPerReceiver
	scan := searchScan(s.PixelsPerModuleH, s.PixelsPerModuleV, s.MaxDataGroupsPerModule, p.FrameRate, c)
	s.ScanCandidates = scan.candidates
	s.MaxScan = scan.max
	s.ScanOutcome = scan.outcome
	s.DataGroupsPerModule = float64(s.PixelsPerModuleV) / float64(s.MaxScan)
	s.DCLKMHz = DCLKMHz(s.MaxScan, s.PixelsPerModuleH, p.FrameRate)

	// Steps 10-11
	s.Rows = buildRows(s, c)
	tallyTotals(s)

	// Step 12
	power := computePower(s, c)
	s.LEDPackage = power.pkg.Name
	s.CurrentRmA, s.CurrentGmA, s.CurrentBmA = power.current[0], power.current[1], power.current[2]
	s.LEDPowerW = power.ledW
	s.SystemPowerW = power.systemW
	s.TotalPowerKW = power.totalW / 1000

	// Step 13
	s.WeightKG = WeightKG(s.DisplayAreaM2)
	s.Room = RecommendRoom(p, s.FOVNorthFinal, s.FOVSouthFinal)

	if err := checkFinite(s); err != nil {
		return nil, err
	}
	return s, nil
}

// checkDegenerate rejects inputs that make a later step divide by zero.
func checkDegenerate(p Params, c Constants) error {
	fail := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeComputation, format, args...)
	}
	switch {
	case !(p.DiameterMM > 0):
		return fail("diameter %v mm leaves no arc to tile", p.DiameterMM)
	case !(p.FOVH > 0):
		return fail("horizontal FOV %v° leaves no arc to tile", p.FOVH)
	case p.ResolutionH <= 0:
		return fail("horizontal resolution %d px divides the arc by zero", p.ResolutionH)
	case p.FOVNorth < 0 || p.FOVSouth < 0 || !(p.FOVV() > 0):
		return fail("vertical FOV %v°+%v° cannot be split into north and south", p.FOVNorth, p.FOVSouth)
	case !(c.ModuleAngleLimitDeg > 0):
		return fail("module angle limit %v° caps modules at zero width", c.ModuleAngleLimitDeg)
	case !(c.ModuleSizeLimitMM > 0):
		return fail("module size limit %v mm caps modules at zero size", c.ModuleSizeLimitMM)
	case c.ScanRatioLimit < 1:
		return fail("scan ratio limit %d leaves no scan ratio to choose", c.ScanRatioLimit)
	case !(c.WaveformDuty > 0):
		return fail("waveform duty %v divides drive current by zero", c.WaveformDuty)
	case !(c.CalibrationRatio < 1):
		return fail("calibration ratio %v leaves no usable brightness", c.CalibrationRatio)
	}
	return nil
}

// checkFinite guards against NaN or infinities leaking out of the formulas.
func checkFinite(s *Spec) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"pitch", s.PitchMM},
		{"vertical FOV", s.FOVVFinal},
		{"display area", s.DisplayAreaM2},
		{"data groups per module", s.DataGroupsPerModule},
		{"total LED count", s.TotalLEDsK},
		{"LED power", s.LEDPowerW},
		{"system power", s.SystemPowerW},
		{"total power", s.TotalPowerKW},
		{"weight", s.WeightKG},
		{"room height", s.Room.HeightMM},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeComputation, "%s is not a finite number", f.name)
		}
	}
	return nil
}
