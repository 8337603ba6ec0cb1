// Package report turns a computed spec into the customer-facing product
// specification: a document number, the KPI strip, the specification table
// and machine-readable exports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Taipei must resolve on hosts without zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
)

// SuperstructureDiameterMM is the diameter from which weight and room size
// need an external superstructure evaluation instead of the estimate.
const SuperstructureDiameterMM = 10000

// SuperstructureNotice replaces mechanical values for large domes.
const SuperstructureNotice = "Need external superstructure evaluation"

// DocumentZone is the time zone document numbers are stamped in.
const DocumentZone = "Asia/Taipei"

// Report is one issued product specification.
type Report struct {
	ID          uuid.UUID    `json:"id" toml:"id"`
	DocumentNo  string       `json:"document_no" toml:"document_no"`
	Project     string       `json:"project" toml:"project"`
	GeneratedAt time.Time    `json:"generated_at" toml:"generated_at"`
	Warnings    []string     `json:"warnings,omitempty" toml:"warnings,omitempty"`
	Spec        *engine.Spec `json:"spec" toml:"spec"`
}

// New issues a report for spec, stamped with the current time and a random ID.
func New(project string, spec *engine.Spec) (*Report, error) {
	return Build(project, spec, time.Now(), uuid.New())
}

// Build issues a report with an explicit timestamp and ID.
func Build(project string, spec *engine.Spec, at time.Time, id uuid.UUID) (*Report, error) {
	if err := errors.ValidateProjectName(project); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no spec to report")
	}
	docNo, err := DocumentNumber(project, at)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:          id,
		DocumentNo:  docNo,
		Project:     project,
		GeneratedAt: at,
		Warnings:    spec.Warnings(),
		Spec:        spec,
	}, nil
}

// DocumentNumber returns "<project>_<YYYYMMDDHHMMSS>" with spaces in the
// project name replaced by underscores and the time taken in Asia/Taipei.
func DocumentNumber(project string, at time.Time) (string, error) {
	loc, err := time.LoadLocation(DocumentZone)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "load time zone %s", DocumentZone)
	}
	return strings.ReplaceAll(project, " ", "_") + "_" + at.In(loc).Format("20060102150405"), nil
}

// NeedsSuperstructure reports whether a dome of this diameter is too large
// for the built-in weight and room estimates.
func NeedsSuperstructure(diameterMM float64) bool {
	return diameterMM >= SuperstructureDiameterMM
}

// Item is one labelled value of the KPI strip or specification table.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KPIs returns the headline figures.
func (r *Report) KPIs() []Item {
	s := r.Spec
	return []Item{
		{"Pitch (mm)", fmt.Sprintf("%.3f", s.PitchMM)},
		{"Module Types (Vertical)", fmt.Sprint(s.ModulesV)},
		{"Module Qty. (H)", fmt.Sprint(s.ModulesH)},
		{"Total Power (kW)", fmt.Sprintf("%.2f", s.TotalPowerKW)},
	}
}

// Table returns the product specification rows in display order.
func (r *Report) Table() []Item {
	s := r.Spec
	p := s.Params

	weight := SuperstructureNotice
	roomW, roomL, roomH := SuperstructureNotice, SuperstructureNotice, SuperstructureNotice
	if !NeedsSuperstructure(p.DiameterMM) {
		weight = ceil(s.WeightKG)
		roomW = ceil(s.Room.WidthMM)
		roomL = ceil(s.Room.LengthMM)
		roomH = ceil(s.Room.HeightMM)
		if p.BottomEdgeHeightMM == 0 {
			roomH += " + Bottom Edge Height Above Floor"
		}
	}

	return []Item{
		{"Sphere Diameter (m)", fmt.Sprintf("%.2f", p.DiameterMM/1000)},
		{"Display area (m2)", fmt.Sprintf("%.2f", s.DisplayAreaM2)},
		{"Pixel Pitch (mm)", fmt.Sprintf("%.2f", s.PitchMM)},
		{"Resolution (H)", fmt.Sprint(p.ResolutionH)},
		{"Resolution (V)", fmt.Sprint(s.ResolutionVFinal)},
		{"Sphere FOV (H)", fmt.Sprintf("%.2f", p.FOVH)},
		{"Sphere FOV (V)", fmt.Sprintf("%.2f", s.FOVVFinal)},
		{"Module Types", fmt.Sprint(s.ModulesV)},
		{"Maximum Module Size (mm)", fmt.Sprintf("%.2f x %.2f", s.WidthPerModuleMM, s.HeightPerModuleMM)},
		{"Module Qty", fmt.Sprint(s.TotalModules)},
		{"Hub Qty (with PSU/RX)", fmt.Sprint(s.TotalHubs)},
		{"4K controller Qty", fmt.Sprint(s.TotalControllers)},
		{"Brightness (nits)", fmt.Sprintf("%.1f", p.LuminanceNits)},
		{"Total Power (kW)", fmt.Sprintf("%.2f", s.TotalPowerKW)},
		{"Weight (kg)", weight},
		{"Room size_W (mm)", roomW},
		{"Room size_L (mm)", roomL},
		{"Room size_H (mm)", roomH},
	}
}

func ceil(v float64) string {
	return fmt.Sprintf("%.0f", math.Ceil(v))
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTOML writes the report as TOML.
func (r *Report) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}
