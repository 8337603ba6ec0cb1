package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	views     string  // comma-separated view presets
	formats   string  // comma-separated output formats
	outputDir string  // directory for the generated files
	width     float64 // frame width
	height    float64 // frame height
	scale     float64 // PNG pixel scale
	flip      bool    // mirror views left-right
	room      bool    // draw the recommended room
	labels    bool    // dimension labels
	topology  bool    // also draw the signal chain
	detailed  bool    // per-row details in the topology
	noCache   bool    // recompute everything
}

// renderCommand creates the render command, which draws the module layout
// of one dome and optionally its signal chain.
func (c *CLI) renderCommand() *cobra.Command {
	pf := newParamFlags()
	opts := renderOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the dome wireframe views",
		Long: `Draw the module layout of a dome from two preset cameras.

View a looks at the dome face-on from the equator; view b from above and to
the side. Files are named <project>-view-<v>.<format> and
<project>-topology.<format>.`,
		Example: `  domespec render --room --labels -f svg,png
  domespec render --job planetarium.toml --topology --detailed -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, params, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			popts := pipeline.Options{
				Params:    params,
				Constants: c.Config.Constants,
				Views:     parseList(opts.views, nil),
				Formats:   parseList(opts.formats, []string{pipeline.FormatSVG}),
				Width:     opts.width,
				Height:    opts.height,
				Scale:     opts.scale,
				Flip:      opts.flip,
				Room:      opts.room,
				Labels:    opts.labels,
				Topology:  opts.topology,
				Detailed:  opts.detailed,
				Logger:    c.Logger,
			}
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), project, popts, opts)
		},
	}

	pf.bind(cmd)
	cmd.Flags().StringVarP(&opts.views, "view", "V", "", "view preset(s): a, b (comma-separated, default all)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the generated files")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "pixel scale for PNG output")
	cmd.Flags().BoolVar(&opts.flip, "flip", false, "mirror the views left-right")
	cmd.Flags().BoolVar(&opts.room, "room", false, "draw the recommended room")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "add dimension labels")
	cmd.Flags().BoolVar(&opts.topology, "topology", false, "also draw the controller, hub and row topology")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show per-row details in the topology")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("view", cobra.FixedCompletions(
		[]string{"a", "b"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runRender computes the spec, renders it and writes every artifact to disk.
func (c *CLI) runRender(ctx context.Context, project string, popts pipeline.Options, opts renderOpts) error {
	if err := errors.ValidateProjectName(project); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s (%s)", project, popts.String())
	prog := newProgress(logger)

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Computing specification...")
	spin.Start()
	spec, specHit, err := runner.ComputeWithCacheInfo(ctx, popts)
	if err != nil {
		spin.StopWithError("Computation failed")
		return err
	}
	spin.SetMessage(fmt.Sprintf("Rendering %d modules...", spec.TotalModules))
	artifacts, renderHits, err := runner.RenderWithCacheInfo(ctx, spec, popts)
	if err != nil {
		spin.StopWithError("Rendering failed")
		return err
	}
	spin.Stop()

	for _, w := range spec.Warnings() {
		printWarning("%s", w)
	}

	stem := fileStem(project)
	for _, a := range artifacts {
		path, err := outputPath(opts.outputDir, stem+"-"+a.Name())
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.outputDir)
		}
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}

	prog.done(fmt.Sprintf("Rendered %d artifacts", len(artifacts)))
	printStats(spec.TotalModules, len(artifacts), specHit && renderHits == len(artifacts))
	printNextStep("Product table", calcHint(project, popts))
	return nil
}

// calcHint returns the calc invocation matching a render.
func calcHint(project string, popts pipeline.Options) string {
	p := popts.Params
	args := []string{appName, "calc",
		fmt.Sprintf("--diameter %g", p.DiameterMM),
		fmt.Sprintf("--fov-h %g", p.FOVH),
		fmt.Sprintf("--fov-north %g", p.FOVNorth),
		fmt.Sprintf("--fov-south %g", p.FOVSouth),
		fmt.Sprintf("--resolution-h %d", p.ResolutionH),
	}
	if project != defaultProject {
		args = append(args, fmt.Sprintf("--project %q", project))
	}
	return strings.Join(args, " ")
}
