package engine

import (
	"math"

	"github.com/matzehuels/domespec/pkg/errors"
)

// Validate checks p against the input preconditions and reports every
// violation at once as an INVALID_INPUT error. Call it before [Compute].
func Validate(p Params) error {
	v := &errors.ValidationError{}
	check := func(err error) {
		if err != nil {
			v.Add("%s", errors.UserMessage(err))
		}
	}

	check(errors.ValidatePositive("diameter", p.DiameterMM))
	check(errors.ValidatePositive("horizontal FOV", p.FOVH))
	if p.FOVH > 360 {
		v.Add("horizontal FOV must not exceed 360°, got %v", p.FOVH)
	}
	check(errors.ValidateNonNegative("north FOV", p.FOVNorth))
	check(errors.ValidateNonNegative("south FOV", p.FOVSouth))
	if fov := p.FOVV(); !math.IsNaN(fov) && fov <= 0 {
		v.Add("north and south FOV must sum to more than 0°")
	}
	if p.ResolutionH <= 0 {
		v.Add("horizontal resolution must be positive, got %d", p.ResolutionH)
	}
	check(errors.ValidatePositive("luminance", p.LuminanceNits))
	check(errors.ValidateNonNegative("bottom edge height", p.BottomEdgeHeightMM))

	return v.Err()
}

// ValidateConstants checks that c describes usable hardware.
func ValidateConstants(c Constants) error {
	v := &errors.ValidationError{}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"module_angle_limit_deg", c.ModuleAngleLimitDeg},
		{"module_size_limit_mm", c.ModuleSizeLimitMM},
		{"dclk_limit_mhz", c.DCLKLimitMHz},
		{"waveform_duty", c.WaveformDuty},
	} {
		if err := errors.ValidatePositive(f.name, f.val); err != nil {
			v.Add("%s", errors.UserMessage(err))
		}
	}
	if c.WaveformDuty > 1 {
		v.Add("waveform_duty must be at most 1, got %v", c.WaveformDuty)
	}
	if c.ScanRatioLimit < 1 {
		v.Add("scan_ratio_limit must be at least 1, got %d", c.ScanRatioLimit)
	}
	if c.ChannelThresholdForDoubleScan < 1 {
		v.Add("channel_threshold_for_double_scan must be at least 1, got %d", c.ChannelThresholdForDoubleScan)
	}
	if !(c.CalibrationRatio >= 0 && c.CalibrationRatio < 1) {
		v.Add("calibration_ratio must be in [0, 1), got %v", c.CalibrationRatio)
	}
	if err := v.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid engineering constants")
	}
	return nil
}
