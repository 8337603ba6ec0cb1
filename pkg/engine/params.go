package engine

// Supported frame rates with a dedicated receiver budget.
const (
	FrameRate60  = 60
	FrameRate120 = 120
)

// Params are the customer-facing inputs of one computation.
type Params struct {
	DiameterMM         float64 `json:"diameter_mm" toml:"diameter_mm"`
	FOVH               float64 `json:"fov_h_deg" toml:"fov_h_deg"`
	FOVNorth           float64 `json:"fov_v_n_deg" toml:"fov_v_n_deg"`
	FOVSouth           float64 `json:"fov_v_s_deg" toml:"fov_v_s_deg"`
	ResolutionH        int     `json:"resolution_h" toml:"resolution_h"`
	LuminanceNits      float64 `json:"luminance_nits" toml:"luminance_nits"`
	FrameRate          int     `json:"frame_rate" toml:"frame_rate"`
	BottomEdgeHeightMM float64 `json:"bottom_edge_height_mm,omitempty" toml:"bottom_edge_height_mm"`
}

// FOVV returns the requested total vertical field of view in degrees.
func (p Params) FOVV() float64 {
	return p.FOVNorth + p.FOVSouth
}

// DefaultParams returns the reference 3 m half dome.
func DefaultParams() Params {
	return Params{
		DiameterMM:    3000,
		FOVH:          180,
		FOVNorth:      67.5,
		FOVSouth:      33.75,
		ResolutionH:   3840,
		LuminanceNits: 800,
		FrameRate:     FrameRate60,
	}
}

// Constants are the engineering limits of the module and driver hardware.
// They are configuration, not user input.
type Constants struct {
	// ModuleAngleLimitDeg caps the angular width of one module.
	ModuleAngleLimitDeg float64 `json:"module_angle_limit_deg" toml:"module_angle_limit_deg"`

	// ModuleSizeLimitMM caps the physical width and height of one module.
	ModuleSizeLimitMM float64 `json:"module_size_limit_mm" toml:"module_size_limit_mm"`

	// DCLKLimitMHz is the maximum data clock of the driver chain.
	DCLKLimitMHz float64 `json:"dclk_limit_mhz" toml:"dclk_limit_mhz"`

	// WaveformDuty is the PWM duty cycle, in (0, 1].
	WaveformDuty float64 `json:"waveform_duty" toml:"waveform_duty"`

	// ScanRatioLimit is the highest scan ratio the drivers support.
	ScanRatioLimit int `json:"scan_ratio_limit" toml:"scan_ratio_limit"`

	// ChannelThresholdForDoubleScan is the row width in pixels above which a
	// row needs two scan driver banks.
	ChannelThresholdForDoubleScan int `json:"channel_threshold_for_double_scan" toml:"channel_threshold_for_double_scan"`

	// CalibrationRatio is the brightness lost to calibration, in [0, 1).
	CalibrationRatio float64 `json:"calibration_ratio" toml:"calibration_ratio"`
}

// DefaultConstants returns the production engineering constants.
func DefaultConstants() Constants {
	return Constants{
		ModuleAngleLimitDeg:           6,
		ModuleSizeLimitMM:             250,
		DCLKLimitMHz:                  10,
		WaveformDuty:                  0.7,
		ScanRatioLimit:                45,
		ChannelThresholdForDoubleScan: 64,
		CalibrationRatio:              0.1,
	}
}
