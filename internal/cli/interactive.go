package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
)

// paramForm holds the form's field values. huh inputs edit strings.
type paramForm struct {
	project     string
	diameter    string
	fovH        string
	fovNorth    string
	fovSouth    string
	resolutionH string
	luminance   string
	frameRate   string
	bottomEdge  string
}

var frameRateOptions = []huh.Option[string]{
	huh.NewOption("60 Hz", strconv.Itoa(engine.FrameRate60)),
	huh.NewOption("120 Hz", strconv.Itoa(engine.FrameRate120)),
}

func newParamForm(project string, p engine.Params) *paramForm {
	return &paramForm{
		project:     project,
		diameter:    formatFloat(p.DiameterMM),
		fovH:        formatFloat(p.FOVH),
		fovNorth:    formatFloat(p.FOVNorth),
		fovSouth:    formatFloat(p.FOVSouth),
		resolutionH: strconv.Itoa(p.ResolutionH),
		luminance:   formatFloat(p.LuminanceNits),
		frameRate:   strconv.Itoa(p.FrameRate),
		bottomEdge:  formatFloat(p.BottomEdgeHeightMM),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// form builds the two-step input form: the sphere, then the picture.
func (f *paramForm) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project").
				Value(&f.project).
				Validate(errors.ValidateProjectName),
			huh.NewInput().
				Title("Sphere diameter (mm)").
				Value(&f.diameter).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("Horizontal FOV (°)").
				Description("Up to 360").
				Value(&f.fovH).
				Validate(validateFOVH),
			huh.NewInput().
				Title("North FOV (°)").
				Description("Above the equator").
				Value(&f.fovNorth).
				Validate(validateNonNegativeFloat),
			huh.NewInput().
				Title("South FOV (°)").
				Description("Below the equator").
				Value(&f.fovSouth).
				Validate(validateNonNegativeFloat),
		).Title("Sphere"),
		huh.NewGroup(
			huh.NewInput().
				Title("Horizontal resolution (px)").
				Value(&f.resolutionH).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Luminance (nits)").
				Value(&f.luminance).
				Validate(validatePositiveFloat),
			huh.NewSelect[string]().
				Title("Frame rate").
				Options(frameRateOptions...).
				Value(&f.frameRate),
			huh.NewInput().
				Title("Bottom edge height (mm)").
				Description("0 when unknown").
				Value(&f.bottomEdge).
				Validate(validateNonNegativeFloat),
		).Title("Picture"),
	).WithTheme(huh.ThemeBase())
}

// params parses the field values. Every field has passed its validator
// when the form completes; params still reports parse failures.
func (f *paramForm) params() (string, engine.Params, error) {
	var p engine.Params
	var err error
	floats := []struct {
		name string
		src  string
		dst  *float64
	}{
		{"diameter", f.diameter, &p.DiameterMM},
		{"horizontal FOV", f.fovH, &p.FOVH},
		{"north FOV", f.fovNorth, &p.FOVNorth},
		{"south FOV", f.fovSouth, &p.FOVSouth},
		{"luminance", f.luminance, &p.LuminanceNits},
		{"bottom edge height", f.bottomEdge, &p.BottomEdgeHeightMM},
	}
	for _, fl := range floats {
		if *fl.dst, err = parseFloat(fl.src); err != nil {
			return "", engine.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", fl.name)
		}
	}
	if p.ResolutionH, err = strconv.Atoi(strings.TrimSpace(f.resolutionH)); err != nil {
		return "", engine.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "horizontal resolution")
	}
	if p.FrameRate, err = strconv.Atoi(f.frameRate); err != nil {
		return "", engine.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "frame rate")
	}
	return strings.TrimSpace(f.project), p, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func validatePositiveFloat(s string) error {
	v, err := parseFloat(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateNonNegativeFloat(s string) error {
	v, err := parseFloat(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateFOVH(s string) error {
	if err := validatePositiveFloat(s); err != nil {
		return err
	}
	if v, _ := parseFloat(s); v > 360 {
		return fmt.Errorf("must not exceed 360")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// interactiveCommand creates the interactive command: a form for the
// parameters, then a browser over the computed report.
func (c *CLI) interactiveCommand() *cobra.Command {
	pf := newParamFlags()
	var noBrowser bool

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Enter parameters in a form and browse the result",
		Long: `Prompt for the dome parameters, compute the specification and open a
browser over the product table, the per-row breakdown and any warnings.

Flags and --job set the form's initial values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, params, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runInteractive(cmd.Context(), cmd.OutOrStdout(), newParamForm(project, params), noBrowser)
		},
	}

	pf.bind(cmd)
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the report instead of opening the browser")

	return cmd
}

func (c *CLI) runInteractive(ctx context.Context, w io.Writer, pf *paramForm, noBrowser bool) error {
	if err := pf.form().RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			printInfo("Cancelled")
			return nil
		}
		return err
	}

	project, params, err := pf.params()
	if err != nil {
		return err
	}
	r, err := c.runCalc(ctx, project, params)
	if err != nil {
		return err
	}

	if noBrowser {
		printNewline()
		printReport(w, r)
		return nil
	}
	_, err = tea.NewProgram(NewResultModel(r), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
