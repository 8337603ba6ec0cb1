// Package pipeline runs the compute → render flow shared by every CLI
// command.
//
// A run has two stages:
//
//  1. Compute: validate the parameters and derive the [engine.Spec]
//  2. Render: draw the wireframe views and the topology diagram in every
//     requested format, concurrently
//
// Both stages go through a [cache.Cache] so the interactive browser can
// revisit a configuration without recomputing it, and both report to the
// [observability] hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Params:    engine.DefaultParams(),
//	    Constants: engine.DefaultConstants(),
//	    Formats:   []string{"svg", "png"},
//	})
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.Name(), a.Data, 0o644)
//	}
//
// [observability]: github.com/matzehuels/domespec/pkg/observability
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/domespec/pkg/cache"
	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Artifact kinds.
const (
	KindWireframe = "wireframe"
	KindTopology  = "topology"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Compute options
	Params    engine.Params    `json:"params"`
	Constants engine.Constants `json:"constants"`

	// Render options
	Views    []string `json:"views,omitempty"` // preset names, default all
	Formats  []string `json:"formats,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Scale    float64  `json:"scale,omitempty"` // PNG only
	Flip     bool     `json:"flip,omitempty"`
	Room     bool     `json:"room,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Topology bool     `json:"topology,omitempty"` // also draw the signal chain
	Detailed bool     `json:"detailed,omitempty"` // detailed topology rows

	// Refresh bypasses cached entries (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Artifact is one rendered output.
type Artifact struct {
	Kind   string
	View   string // wireframe only
	Format string
	Data   []byte
}

// Name returns a file name for the artifact, e.g. "view-a.svg" or
// "topology.pdf".
func (a Artifact) Name() string {
	if a.Kind == KindTopology {
		return KindTopology + "." + a.Format
	}
	return "view-" + a.View + "." + a.Format
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the computed specification.
	Spec *engine.Spec

	// SpecHash is the content hash of the spec, used in artifact cache keys.
	SpecHash string

	// Artifacts are ordered by kind, view, then format as requested.
	Artifacts []Artifact

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SpecHit    bool // Whether the spec came from cache
	RenderHits int  // How many artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateViews checks that every view names a preset.
func ValidateViews(views []string) error {
	for _, v := range views {
		if _, err := wireframe.ViewByName(v); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute checks the parameters and constants.
func (o *Options) ValidateForCompute() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := engine.Validate(o.Params); err != nil {
		return err
	}
	return engine.ValidateConstants(o.Constants)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Views) == 0 {
		for _, v := range wireframe.Views {
			o.Views = append(o.Views, v.Name)
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for i, v := range o.Views {
		o.Views[i] = strings.ToLower(v)
	}
	o.Views = slices.Compact(o.Views)
	if err := ValidateViews(o.Views); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < wireframe.MinWidth || o.Height < wireframe.MinHeight {
		return errors.New(errors.ErrCodeInvalidInput, "frame size %vx%v is below the minimum %dx%d",
			o.Width, o.Height, wireframe.MinWidth, wireframe.MinHeight)
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v must be positive", o.Scale)
	}
	return nil
}

// WireframeOptions returns the scene options for the wireframe renderer.
func (o *Options) WireframeOptions() wireframe.Options {
	return wireframe.Options{Room: o.Room, Labels: o.Labels}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(kind, view, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Kind: kind, Format: format}
	if format == FormatPNG {
		k.Width = int(o.Width * o.Scale)
		k.Height = int(o.Height * o.Scale)
	}
	switch kind {
	case KindWireframe:
		k.View = view
		k.Flip = o.Flip
		k.Room = o.Room
		k.Labels = o.Labels
		if format != FormatPNG {
			k.Width, k.Height = int(o.Width), int(o.Height)
		}
	case KindTopology:
		k.Labels = o.Detailed
	}
	return k
}

func (o *Options) String() string {
	return fmt.Sprintf("views=%v formats=%v size=%.0fx%.0f topology=%t", o.Views, o.Formats, o.Width, o.Height, o.Topology)
}
