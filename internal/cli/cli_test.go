package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matzehuels/domespec/pkg/config"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/observability"
)

// run executes the root command with args and returns its stdout. The
// environment is isolated from any real .env file.
func run(t *testing.T, args ...string) (*CLI, string, error) {
	t.Helper()
	t.Setenv(config.EnvConstants, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvTraceFile, "")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return c, out.String(), err
}

func TestConstantsCommand(t *testing.T) {
	_, out, err := run(t, "constants")
	if err != nil {
		t.Fatalf("constants: %v", err)
	}
	for _, key := range []string{"module_angle_limit_deg", "dclk_limit_mhz", "scan_ratio_limit = 45"} {
		if !strings.Contains(out, key) {
			t.Errorf("constants output missing %q:\n%s", key, out)
		}
	}
}

func TestConstantsFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.toml")
	if err := os.WriteFile(path, []byte("scan_ratio_limit = 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, out, err := run(t, "--constants", path, "constants")
	if err != nil {
		t.Fatalf("constants: %v", err)
	}
	if !strings.Contains(out, "scan_ratio_limit = 32") {
		t.Errorf("override not applied:\n%s", out)
	}
	if got := c.Config.Profile(); got != "wide" {
		t.Errorf("Profile() = %q, want %q", got, "wide")
	}
}

func TestCalcJSON(t *testing.T) {
	_, out, err := run(t, "calc", "--format", "json", "--project", "North Hall")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}

	var got struct {
		DocumentNo string `json:"document_no"`
		Project    string `json:"project"`
		Spec       struct {
			TotalModules int     `json:"total_n_module"`
			PitchMM      float64 `json:"pitch_mm"`
		} `json:"spec"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !strings.HasPrefix(got.DocumentNo, "North_Hall_") {
		t.Errorf("document_no = %q, want prefix North_Hall_", got.DocumentNo)
	}
	if got.Project != "North Hall" {
		t.Errorf("project = %q, want North Hall", got.Project)
	}
	if got.Spec.TotalModules <= 0 || got.Spec.PitchMM <= 0 {
		t.Errorf("spec = %+v, want positive modules and pitch", got.Spec)
	}
}

func TestCalcTableToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.txt")
	if _, _, err := run(t, "calc", "-o", path); err != nil {
		t.Fatalf("calc: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sphere Diameter (m)", "3.00", "Room size_H (mm)"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestCalcErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"bad format", []string{"calc", "--format", "yaml"}, errors.ErrCodeInvalidFormat},
		{"negative diameter", []string{"calc", "--diameter=-1"}, errors.ErrCodeInvalidInput},
		{"missing job", []string{"calc", "--job", "/nonexistent/job.toml"}, errors.ErrCodeFileNotFound},
		{"empty project", []string{"calc", "--project", " "}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestRenderWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := run(t, "render", "-o", dir, "-f", "svg,json", "--topology", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{
		"Dome_Project-view-a.svg",
		"Dome_Project-view-b.svg",
		"Dome_Project-view-a.json",
		"Dome_Project-topology.svg",
		"Dome_Project-topology.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderInvalidView(t *testing.T) {
	_, _, err := run(t, "render", "-o", t.TempDir(), "--view", "c")
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidView {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidView)
	}
}

func TestMetricsFile(t *testing.T) {
	t.Cleanup(observability.Reset)
	path := filepath.Join(t.TempDir(), "domespec.prom")

	c, _, err := run(t, "--metrics-file", path, "calc", "--format", "json")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `domespec_computations_total{result="ok"} 1`) {
		t.Errorf("metrics missing computation count:\n%s", data)
	}
}

func TestTraceFile(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	path := filepath.Join(t.TempDir(), "trace.json")

	c, _, err := run(t, "--trace-file", path, "calc", "--format", "json")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"Name":"pipeline.compute"`, `"Name":"engine.compute"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("trace file missing %s", want)
		}
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dome Project", "Dome_Project"},
		{"  North Hall ", "North_Hall"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := fileStem(tt.in); got != tt.want {
			t.Errorf("fileStem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	got, err := outputPath(dir, "a.svg")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "a.svg") {
		t.Errorf("outputPath = %q", got)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("outputPath did not create %s", dir)
	}

	if got, _ := outputPath("", "a.svg"); got != "a.svg" {
		t.Errorf("outputPath with no dir = %q, want a.svg", got)
	}
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := writeReport(io.Discard, testReport(t), calcOpts{format: outputJSON, output: path}); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("file is not JSON: %.80s", data)
	}
}

func TestWriteReportFlushError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	err := writeReport(io.Discard, testReport(t), calcOpts{format: outputJSON, output: "/dev/full"})
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidPath {
		t.Errorf("writeReport(/dev/full) code = %q (%v), want %q", got, err, errors.ErrCodeInvalidPath)
	}
}
