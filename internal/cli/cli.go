// Package cli implements the domespec command-line interface.
//
// # Commands
//
//   - calc: compute a specification and print the product table
//   - render: draw the wireframe views and the signal topology
//   - interactive: fill in the parameters in a form, then browse the result
//   - constants: print the engineering constants in effect as TOML
//   - completion, version
//
// # Configuration
//
// Settings load from the environment and an optional .env file (see
// [config.Load]). --constants overrides DOMESPEC_CONSTANTS; --verbose
// overrides DOMESPEC_LOG_LEVEL. With --metrics-file, Prometheus metrics for
// the run are written in the textfile exposition format when the command
// exits; --trace-file (or DOMESPEC_TRACE_FILE) records OpenTelemetry spans.
//
// [config.Load]: github.com/matzehuels/domespec/pkg/config#Load
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/buildinfo"
	"github.com/matzehuels/domespec/pkg/cache"
	"github.com/matzehuels/domespec/pkg/config"
	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/observability/metrics"
	"github.com/matzehuels/domespec/pkg/observability/tracing"
	"github.com/matzehuels/domespec/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "domespec"

	// defaultProject names the job when no project is given.
	defaultProject = "Dome Project"
)

// LogInfo is the initial log level, exported for use in main.go.
const LogInfo = log.InfoLevel

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	verbose       bool
	envFile       string
	constantsPath string
	metricsPath   string
	tracePath     string
	metrics       *metrics.Collector
	stopTracing   func(context.Context) error
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration is reloaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &config.Config{LogLevel: "info", LogFormat: config.LogFormatText},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	buildinfo.Resolve()
	c.Config.Constants = engine.DefaultConstants()

	root := &cobra.Command{
		Use:   appName,
		Short: "Domespec sizes LED dome displays",
		Long: `Domespec computes the engineering specification of a spherical LED display
(pixel pitch, module tiling, scan and driver counts, power, weight and room
size) from a handful of customer parameters, and draws the module layout.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load (missing is fine)")
	root.PersistentFlags().StringVar(&c.constantsPath, "constants", "", "TOML file overriding engineering constants")
	root.PersistentFlags().StringVar(&c.metricsPath, "metrics-file", "", "write Prometheus metrics to this file on exit")
	root.PersistentFlags().StringVar(&c.tracePath, "trace-file", "", "write OpenTelemetry spans to this file")

	// Register all subcommands
	root.AddCommand(c.calcCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.constantsCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// setup loads configuration and wires logging and metrics before any
// subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	if c.constantsPath != "" {
		if err := cfg.UseConstantsFile(c.constantsPath); err != nil {
			return err
		}
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	if cfg.LogFormat == config.LogFormatJSON {
		c.Logger.SetFormatter(log.JSONFormatter)
	}

	if c.metricsPath != "" && c.metrics == nil {
		collector, err := metrics.NewCollector(nil)
		if err != nil {
			return err
		}
		collector.Register()
		c.metrics = collector
	}

	if c.tracePath != "" {
		cfg.TraceFile = c.tracePath
	}
	if cfg.TraceFile != "" && c.stopTracing == nil {
		stop, err := tracing.Init(cmd.Context(), tracing.Config{Path: cfg.TraceFile}, c.Logger)
		if err != nil {
			return err
		}
		c.stopTracing = stop
	}

	c.Logger.Debug("configuration loaded", "config", cfg.String())
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close flushes spans and metrics, if requested. It is called once after
// the command tree has run, whether or not the command failed.
func (c *CLI) Close() error {
	if c.stopTracing != nil {
		tracing.ShutdownWithTimeout(context.Background(), c.stopTracing, c.Logger)
		c.stopTracing = nil
	}
	if c.metrics == nil {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsPath); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsPath)
	return nil
}

// versionCommand prints the full build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(buildinfo.String())
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Specs computed under a
// constants file are keyed apart from those under the defaults.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewMemoryCache()
	if noCache {
		store = cache.NewNullCache()
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Profile())
	return pipeline.NewRunner(store, keyer, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// outputPath joins dir and name, creating dir when needed.
func outputPath(dir, name string) (string, error) {
	if dir == "" {
		return name, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// fileStem turns a project name into a file name prefix.
func fileStem(project string) string {
	return strings.ReplaceAll(strings.TrimSpace(project), " ", "_")
}
