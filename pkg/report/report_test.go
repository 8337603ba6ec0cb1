package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
)

var testID = uuid.MustParse("6f1c2a8e-5b7d-4c1e-9a3f-0d2e4b6c8a10")

func compute(t *testing.T, p engine.Params) *engine.Spec {
	t.Helper()
	s, err := engine.Compute(p, engine.DefaultConstants())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return s
}

func TestDocumentNumber(t *testing.T) {
	// 2025-03-01 16:30:05 UTC is 2025-03-02 00:30:05 in Taipei (UTC+8).
	at := time.Date(2025, 3, 1, 16, 30, 5, 0, time.UTC)
	got, err := DocumentNumber("Planetarium North Hall", at)
	if err != nil {
		t.Fatalf("DocumentNumber: %v", err)
	}
	want := "Planetarium_North_Hall_20250302003005"
	if got != want {
		t.Errorf("DocumentNumber = %q, want %q", got, want)
	}
}

func TestBuildRejectsBadProject(t *testing.T) {
	s := compute(t, engine.DefaultParams())
	for _, name := range []string{"", "   ", "a/b", "../x"} {
		if _, err := Build(name, s, time.Now(), testID); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Build(%q) = %v, want %s", name, err, errors.ErrCodeInvalidInput)
		}
	}
	if _, err := Build("ok", nil, time.Now(), testID); err == nil {
		t.Error("Build with nil spec should fail")
	}
}

func tableValue(t *testing.T, items []Item, label string) string {
	t.Helper()
	for _, it := range items {
		if it.Label == label {
			return it.Value
		}
	}
	t.Fatalf("no %q row", label)
	return ""
}

func TestTable(t *testing.T) {
	r, err := Build("Demo", compute(t, engine.DefaultParams()), time.Now(), testID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	items := r.Table()
	if len(items) != 18 {
		t.Fatalf("len(Table()) = %d, want 18", len(items))
	}

	tests := []struct {
		label string
		want  string
	}{
		{"Sphere Diameter (m)", "3.00"},
		{"Display area (m2)", "10.46"},
		{"Pixel Pitch (mm)", "1.23"},
		{"Resolution (H)", "3840"},
		{"Resolution (V)", "2160"},
		{"Sphere FOV (V)", "101.25"},
		{"Module Types", "12"},
		{"Maximum Module Size (mm)", "147.26 x 220.89"},
		{"Module Qty", "384"},
		{"Hub Qty (with PSU/RX)", "48"},
		{"4K controller Qty", "1"},
		{"Brightness (nits)", "800.0"},
		{"Total Power (kW)", "3.85"},
		{"Weight (kg)", "871"},
		{"Room size_W (mm)", "6000"},
		{"Room size_L (mm)", "4500"},
		{"Room size_H (mm)", "3720 + Bottom Edge Height Above Floor"},
	}
	for _, tt := range tests {
		if got := tableValue(t, items, tt.label); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestTableWithBottomEdge(t *testing.T) {
	p := engine.DefaultParams()
	p.BottomEdgeHeightMM = 800
	r, err := Build("Demo", compute(t, p), time.Now(), testID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tableValue(t, r.Table(), "Room size_H (mm)"); got != "4520" {
		t.Errorf("Room size_H = %q, want 4520", got)
	}
}

func TestTableSuperstructure(t *testing.T) {
	tests := []struct {
		diameter float64
		gated    bool
	}{
		{9999, false},
		{10000, true},
		{12000, true},
	}
	for _, tt := range tests {
		p := engine.DefaultParams()
		p.DiameterMM = tt.diameter
		r, err := Build("Big", compute(t, p), time.Now(), testID)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		items := r.Table()
		for _, label := range []string{"Weight (kg)", "Room size_W (mm)", "Room size_L (mm)", "Room size_H (mm)"} {
			got := tableValue(t, items, label) == SuperstructureNotice
			if got != tt.gated {
				t.Errorf("diameter %v: %s gated = %v, want %v", tt.diameter, label, got, tt.gated)
			}
		}
		// The spec itself keeps the numbers.
		if !(r.Spec.WeightKG > 0) {
			t.Errorf("diameter %v: WeightKG = %v", tt.diameter, r.Spec.WeightKG)
		}
	}
}

func TestKPIs(t *testing.T) {
	r, err := Build("Demo", compute(t, engine.DefaultParams()), time.Now(), testID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Item{
		{"Pitch (mm)", "1.227"},
		{"Module Types (Vertical)", "12"},
		{"Module Qty. (H)", "32"},
		{"Total Power (kW)", "3.85"},
	}
	got := r.KPIs()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KPIs()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	r, err := Build("Demo", compute(t, engine.DefaultParams()), at, testID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		ID         string `json:"id"`
		DocumentNo string `json:"document_no"`
		Spec       struct {
			ModulesH int          `json:"n_equator_final"`
			Rows     []engine.Row `json:"rows"`
		} `json:"spec"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ID != testID.String() {
		t.Errorf("id = %q, want %q", decoded.ID, testID)
	}
	if decoded.DocumentNo != "Demo_20250301080000" {
		t.Errorf("document_no = %q", decoded.DocumentNo)
	}
	if decoded.Spec.ModulesH != 32 || len(decoded.Spec.Rows) != 12 {
		t.Errorf("spec = %d modules, %d rows", decoded.Spec.ModulesH, len(decoded.Spec.Rows))
	}
}

func TestWriteTOML(t *testing.T) {
	r, err := Build("Demo", compute(t, engine.DefaultParams()), time.Now(), testID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := r.WriteTOML(&buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`id = "` + testID.String() + `"`, "[spec]", "[[spec.rows]]", "n_equator_final = 32"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOML output missing %q", want)
		}
	}

	var decoded map[string]any
	if _, err := toml.Decode(out, &decoded); err != nil {
		t.Errorf("output is not valid TOML: %v", err)
	}
}
