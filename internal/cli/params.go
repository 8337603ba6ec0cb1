package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/config"
	"github.com/matzehuels/domespec/pkg/engine"
)

// paramFlags binds the customer parameters to command flags. A --job file
// supplies the base values; flags given explicitly override it.
type paramFlags struct {
	job     string
	project string
	params  engine.Params
}

// paramSetters copies one flag's field between parameter sets.
var paramSetters = map[string]func(dst *engine.Params, src engine.Params){
	"diameter":     func(d *engine.Params, s engine.Params) { d.DiameterMM = s.DiameterMM },
	"fov-h":        func(d *engine.Params, s engine.Params) { d.FOVH = s.FOVH },
	"fov-north":    func(d *engine.Params, s engine.Params) { d.FOVNorth = s.FOVNorth },
	"fov-south":    func(d *engine.Params, s engine.Params) { d.FOVSouth = s.FOVSouth },
	"resolution-h": func(d *engine.Params, s engine.Params) { d.ResolutionH = s.ResolutionH },
	"luminance":    func(d *engine.Params, s engine.Params) { d.LuminanceNits = s.LuminanceNits },
	"frame-rate":   func(d *engine.Params, s engine.Params) { d.FrameRate = s.FrameRate },
	"bottom-edge":  func(d *engine.Params, s engine.Params) { d.BottomEdgeHeightMM = s.BottomEdgeHeightMM },
}

func newParamFlags() *paramFlags {
	return &paramFlags{project: defaultProject, params: engine.DefaultParams()}
}

func (f *paramFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.job, "job", "", "TOML job file with project and [params]")
	fs.StringVarP(&f.project, "project", "p", f.project, "project name (used in the document number)")
	fs.Float64Var(&f.params.DiameterMM, "diameter", f.params.DiameterMM, "sphere diameter in mm")
	fs.Float64Var(&f.params.FOVH, "fov-h", f.params.FOVH, "horizontal field of view in degrees")
	fs.Float64Var(&f.params.FOVNorth, "fov-north", f.params.FOVNorth, "vertical field of view above the equator in degrees")
	fs.Float64Var(&f.params.FOVSouth, "fov-south", f.params.FOVSouth, "vertical field of view below the equator in degrees")
	fs.IntVar(&f.params.ResolutionH, "resolution-h", f.params.ResolutionH, "horizontal resolution in pixels")
	fs.Float64Var(&f.params.LuminanceNits, "luminance", f.params.LuminanceNits, "target luminance in nits")
	fs.IntVar(&f.params.FrameRate, "frame-rate", f.params.FrameRate, "frame rate in Hz (60 or 120)")
	fs.Float64Var(&f.params.BottomEdgeHeightMM, "bottom-edge", 0, "height of the display's bottom edge above the floor in mm")
}

// resolve returns the project name and parameters, merging the job file
// and explicitly set flags.
func (f *paramFlags) resolve(cmd *cobra.Command) (string, engine.Params, error) {
	if f.job == "" {
		return f.project, f.params, nil
	}

	job, err := config.LoadJob(f.job)
	if err != nil {
		return "", engine.Params{}, err
	}
	project, params := job.Project, job.Params
	if project == "" || cmd.Flags().Changed("project") {
		project = f.project
	}
	for name, set := range paramSetters {
		if cmd.Flags().Changed(name) {
			set(&params, f.params)
		}
	}
	return project, params, nil
}

// parseList splits a comma-separated flag value, dropping blanks.
// If empty, it returns def.
func parseList(s string, def []string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
