package engine

import (
	"fmt"

	"github.com/matzehuels/domespec/pkg/geometry"
)

// ReceiverOutcome records how the receiver pixel budget was chosen.
type ReceiverOutcome string

const (
	ReceiverExact        ReceiverOutcome = "exact"
	ReceiverFallback60Hz ReceiverOutcome = "fallback_60hz"
)

// VerticalOutcome records how the vertical module count was chosen.
type VerticalOutcome string

const (
	// VerticalExact means a candidate divided the target vertical resolution
	// into a per-module height divisible by 3 or 4.
	VerticalExact VerticalOutcome = "exact"

	// VerticalAdjusted means no candidate fit; the vertical resolution and
	// vertical field of view were moved away from the request.
	VerticalAdjusted VerticalOutcome = "adjusted"
)

// ScanOutcome records how the scan ratio was chosen.
type ScanOutcome string

const (
	ScanExact    ScanOutcome = "exact"
	ScanFallback ScanOutcome = "fallback"
)

// RoomLayout names the formula used for the room footprint.
type RoomLayout string

const (
	// RoomChord sizes the room from the chord and sagitta of the visible arc.
	RoomChord RoomLayout = "chord"

	// RoomWraparound sizes the room for a horizontal window wider than 180°.
	RoomWraparound RoomLayout = "wraparound"
)

// Hemisphere identifies which side of the equator a module row is on.
type Hemisphere string

const (
	North Hemisphere = "north"
	South Hemisphere = "south"
)

// Row holds the per-row quantities of one ring of modules.
// Upper and Lower are horizontal pixel counts at the row's boundaries.
type Row struct {
	Index      int        `json:"index" toml:"index"`
	Hemisphere Hemisphere `json:"hemisphere" toml:"hemisphere"`
	Upper      int        `json:"upper_px" toml:"upper_px"`
	Lower      int        `json:"lower_px" toml:"lower_px"`
	LEDs       int        `json:"leds" toml:"leds"`
	Scan       float64    `json:"scan_ics" toml:"scan_ics"`
	PWM        float64    `json:"pwm_ics" toml:"pwm_ics"`
}

// PeakPixels returns the wider of the row's two boundaries.
func (r Row) PeakPixels() int {
	return max(r.Upper, r.Lower)
}

// Room is the recommended room size in millimetres.
type Room struct {
	WidthMM  float64    `json:"width_mm" toml:"width_mm"`
	LengthMM float64    `json:"length_mm" toml:"length_mm"`
	HeightMM float64    `json:"height_mm" toml:"height_mm"`
	Layout   RoomLayout `json:"layout" toml:"layout"`
}

// Spec is the derived specification of one computation.
// It is fully determined by the Params and Constants it was computed from.
type Spec struct {
	Params    Params    `json:"params" toml:"params"`
	Constants Constants `json:"constants" toml:"constants"`

	// Basics
	PitchMM           float64         `json:"pitch_mm" toml:"pitch_mm"`
	FOVV              float64         `json:"fov_v_deg" toml:"fov_v_deg"`
	FOVVFinal         float64         `json:"fov_v_final_deg" toml:"fov_v_final_deg"`
	ResolutionVTarget int             `json:"resolution_v_target" toml:"resolution_v_target"`
	ResolutionVFinal  int             `json:"resolution_v_final" toml:"resolution_v_final"`
	ReceiverCapacity  int             `json:"receiver_capacity" toml:"receiver_capacity"`
	ReceiverOutcome   ReceiverOutcome `json:"receiver_outcome" toml:"receiver_outcome"`

	// Horizontal tiling
	ModulesH         int     `json:"n_equator_final" toml:"n_equator_final"`
	AnglePerModuleH  float64 `json:"angle_per_module_h_deg" toml:"angle_per_module_h_deg"`
	WidthPerModuleMM float64 `json:"width_per_module_mm" toml:"width_per_module_mm"`
	PixelsPerModuleH int     `json:"px_per_module_h" toml:"px_per_module_h"`

	// Vertical tiling
	ModulesV          int             `json:"n_vertical_final" toml:"n_vertical_final"`
	VerticalOutcome   VerticalOutcome `json:"vertical_outcome" toml:"vertical_outcome"`
	AnglePerModuleV   float64         `json:"angle_per_module_v_deg" toml:"angle_per_module_v_deg"`
	HeightPerModuleMM float64         `json:"height_per_module_mm" toml:"height_per_module_mm"`
	PixelsPerModuleV  int             `json:"px_per_module_v" toml:"px_per_module_v"`
	ModulesNorth      int             `json:"n_vertical_n" toml:"n_vertical_n"`
	ModulesSouth      int             `json:"n_vertical_s" toml:"n_vertical_s"`
	FOVNorthFinal     float64         `json:"fov_v_n_final_deg" toml:"fov_v_n_final_deg"`
	FOVSouthFinal     float64         `json:"fov_v_s_final_deg" toml:"fov_v_s_final_deg"`
	DisplayAreaM2     float64         `json:"display_area_m2" toml:"display_area_m2"`

	// Data path
	ModulesPerReceiver     int         `json:"n_module_per_receiver" toml:"n_module_per_receiver"`
	MaxDataGroupsPerModule int         `json:"max_data_groups_per_module" toml:"max_data_groups_per_module"`
	DataGroupsPerModule    float64     `json:"data_groups_per_module" toml:"data_groups_per_module"`
	ScanCandidates         []int       `json:"scan_candidates" toml:"scan_candidates"`
	MaxScan                int         `json:"max_scan" toml:"max_scan"`
	ScanOutcome            ScanOutcome `json:"scan_outcome" toml:"scan_outcome"`
	DCLKMHz                float64     `json:"dclk_mhz" toml:"dclk_mhz"`

	// Rows in physical order: north outer to inner, then south inner to outer.
	Rows []Row `json:"rows" toml:"rows"`

	// Totals
	TotalLEDsK       float64 `json:"total_n_led_kpcs" toml:"total_n_led_kpcs"`
	TotalPWM         float64 `json:"total_n_pwm" toml:"total_n_pwm"`
	TotalScan        float64 `json:"total_n_scan" toml:"total_n_scan"`
	TotalModules     int     `json:"total_n_module" toml:"total_n_module"`
	TotalHubs        int     `json:"total_n_hub" toml:"total_n_hub"`
	TotalControllers int     `json:"total_n_controller" toml:"total_n_controller"`

	// Power
	LEDPackage   string  `json:"led_package" toml:"led_package"`
	CurrentRmA   float64 `json:"r_current_ma" toml:"r_current_ma"`
	CurrentGmA   float64 `json:"g_current_ma" toml:"g_current_ma"`
	CurrentBmA   float64 `json:"b_current_ma" toml:"b_current_ma"`
	LEDPowerW    float64 `json:"led_power_w" toml:"led_power_w"`
	SystemPowerW float64 `json:"system_power_w" toml:"system_power_w"`
	TotalPowerKW float64 `json:"total_power_kw" toml:"total_power_kw"`

	// Mechanical
	WeightKG float64 `json:"weight_kg" toml:"weight_kg"`
	Room     Room    `json:"room" toml:"room"`
}

// Exact reports whether every search found an exact answer.
func (s *Spec) Exact() bool {
	return s.ReceiverOutcome == ReceiverExact &&
		s.VerticalOutcome == VerticalExact &&
		s.ScanOutcome == ScanExact
}

// Fallbacks names every fallback the computation took, for metrics and
// logs. It is empty when [Spec.Exact] is true.
func (s *Spec) Fallbacks() []string {
	var out []string
	if s.ReceiverOutcome == ReceiverFallback60Hz {
		out = append(out, "receiver_"+string(ReceiverFallback60Hz))
	}
	if s.VerticalOutcome == VerticalAdjusted {
		out = append(out, "vertical_"+string(VerticalAdjusted))
	}
	if s.ScanOutcome == ScanFallback {
		out = append(out, "scan_"+string(ScanFallback))
	}
	return out
}

// Warnings describes every fallback the computation took.
func (s *Spec) Warnings() []string {
	var out []string
	if s.ReceiverOutcome == ReceiverFallback60Hz {
		out = append(out, fmt.Sprintf("frame rate %d Hz has no receiver budget; using the 60 Hz budget (%d)",
			s.Params.FrameRate, s.ReceiverCapacity))
	}
	if s.VerticalOutcome == VerticalAdjusted {
		out = append(out, fmt.Sprintf("vertical resolution adjusted from %d to %d px; vertical FOV is now %.2f° (requested %.2f°)",
			s.ResolutionVTarget, s.ResolutionVFinal, s.FOVVFinal, s.FOVV))
	}
	if s.ScanOutcome == ScanFallback {
		out = append(out, fmt.Sprintf("no scan ratio fits the %.1f MHz clock limit; using 1/%d scan at %.3f MHz",
			s.Constants.DCLKLimitMHz, s.MaxScan, s.DCLKMHz))
	}
	return out
}

// Geometry returns the narrow record the wireframe renderer consumes.
func (s *Spec) Geometry() geometry.Layout {
	return geometry.Layout{
		Dome: geometry.Dome{
			DiameterMM: s.Params.DiameterMM,
			FOVH:       s.Params.FOVH,
			FOVNorth:   s.FOVNorthFinal,
			FOVSouth:   s.FOVSouthFinal,
			ModulesH:   s.ModulesH,
			ModulesV:   s.ModulesV,
		},
		Room: &geometry.Room{
			WidthMM:  s.Room.WidthMM,
			LengthMM: s.Room.LengthMM,
			HeightMM: s.Room.HeightMM,
		},
		GroundOffsetMM: s.Params.BottomEdgeHeightMM,
	}
}
