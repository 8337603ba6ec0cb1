package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/pipeline"
	"github.com/matzehuels/domespec/pkg/report"
)

// Report output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputTOML  = "toml"
)

// calcOpts holds the command-line flags for the calc command.
type calcOpts struct {
	format string // table, json or toml
	output string // file to write instead of stdout
}

// calcCommand creates the calc command, which computes one specification
// and prints the product table.
func (c *CLI) calcCommand() *cobra.Command {
	pf := newParamFlags()
	opts := calcOpts{format: outputTable}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a dome specification",
		Long: `Compute the specification of one dome from its customer parameters.

Parameters come from flags, optionally on top of a --job TOML file.`,
		Example: `  domespec calc --diameter 5000 --fov-h 200 --resolution-h 4096
  domespec calc --job planetarium.toml --format json -o spec.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(opts.format); err != nil {
				return err
			}
			project, params, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			r, err := c.runCalc(cmd.Context(), project, params)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), r, opts)
		},
	}

	pf.bind(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json, toml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file")

	return cmd
}

// runCalc computes the spec and issues the report.
func (c *CLI) runCalc(ctx context.Context, project string, params engine.Params) (*report.Report, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := c.newRunner(true)
	defer runner.Close()

	spec, err := runner.Compute(ctx, pipeline.Options{
		Params:    params,
		Constants: c.Config.Constants,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Computed %d modules at %.3f mm pitch", spec.TotalModules, spec.PitchMM))

	return report.New(project, spec)
}

// writeReport writes r in the requested format, to opts.output when set.
func writeReport(stdout io.Writer, r *report.Report, opts calcOpts) error {
	if err := validateOutputFormat(opts.format); err != nil {
		return err
	}
	if opts.output == "" {
		return encodeReport(stdout, r, opts.format)
	}

	if err := errors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
	}
	bw := bufio.NewWriter(f)
	err = encodeReport(bw, r, opts.format)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}

	printSuccess("Wrote %s", r.DocumentNo)
	printFile(opts.output)
	return nil
}

// encodeReport writes r to w in one of the output formats.
func encodeReport(w io.Writer, r *report.Report, format string) error {
	switch format {
	case outputJSON:
		return r.WriteJSON(w)
	case outputTOML:
		return r.WriteTOML(w)
	default:
		printReport(w, r)
		return nil
	}
}

// validateOutputFormat checks a calc --format value.
func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON, outputTOML:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: table, json, toml)", format)
}
