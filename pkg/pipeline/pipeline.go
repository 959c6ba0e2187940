// Package pipeline runs the topoview diagram pipeline.
//
// One run takes a topology through five stages:
//
//  1. Build: create nodes and resolve links ([diagram.Build])
//  2. Render: measure names and draw one scene group per node ([render.Renderer])
//  3. Bind: attach the double-click shortcut ([interact.Bind])
//  4. Layout: compute positions and animate nodes there ([layout.Engine], [layout.Animator])
//  5. Export: serialize the scene (SVG, PNG, JSON)
//
// The CLI and the HTTP server both go through [Runner], so caching and
// defaults behave the same at every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	topo, _ := topology.Load("net.yaml")
//	result, err := runner.Execute(ctx, topo, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	    Engine:  "neato",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/layout"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
	"github.com/matzehuels/topoview/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultEngine is the layout engine used when none is named.
	DefaultEngine = "neato"

	// DefaultTicks is the number of animation frames between the initial
	// and the computed positions.
	DefaultTicks = 30

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// MaxScale and MaxFontSize are the largest accepted sizes.
	MaxScale    = 8.0
	MaxFontSize = 200.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for server requests.
type Options struct {
	// Build options
	MetaKeys []string `json:"meta_keys,omitempty"`
	Palette  []string `json:"palette,omitempty"`
	Strict   bool     `json:"strict,omitempty"`

	// Render options
	FontSize float64 `json:"font_size,omitempty"`

	// Layout options
	Engine       string        `json:"engine,omitempty"`
	Ticks        int           `json:"ticks,omitempty"`
	TickDuration time.Duration `json:"tick_duration,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Title   string   `json:"title,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Measurer overrides the Go Regular measurer built from FontSize.
	Measurer measure.Measurer `json:"-"`
	// OnTick runs after every animation frame has been applied.
	OnTick func(tick int, handles []render.Handle) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram *diagram.Diagram
	Surface *scene.Surface
	Handles []render.Handle

	// TopologyHash identifies the input document.
	TopologyHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Deferred is set when text could not be measured. The surface is
	// empty and no artifacts were produced.
	Deferred bool

	Stats Stats

	// CacheHit is set when every artifact came from the cache.
	CacheHit bool
	// LayoutHit is set when positions came from the cache.
	LayoutHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Duplicates int
	BuildTime  time.Duration
	RenderTime time.Duration
	LayoutTime time.Duration
	ExportTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
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

// ValidateEngine checks that a layout engine exists.
func ValidateEngine(name string) error {
	if _, ok := layout.New(name, nil); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be grid or one of: %v)", name, layout.Programs)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults. Calling it
// more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Ticks < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ticks cannot be negative")
	}
	if o.FontSize == 0 {
		o.FontSize = measure.DefaultFontSize
	}
	if err := checkSize("font size", o.FontSize, MaxFontSize); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if err := checkSize("scale", o.Scale, MaxScale); err != nil {
		return err
	}
	if len(o.Palette) == 0 {
		o.Palette = slices.Clone([]string(style.Category10))
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// checkSize rejects non-finite, non-positive and oversized values.
func checkSize(name string, v, limit float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number", name)
	case v <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "%s must be positive", name)
	case v > limit:
		return errors.New(errors.ErrCodeInvalidInput, "%s %g exceeds the maximum of %g", name, v, limit)
	}
	return nil
}

// BuildOptions returns the options for diagram.Build.
func (o *Options) BuildOptions() diagram.BuildOptions {
	return diagram.BuildOptions{
		MetaKeys: o.MetaKeys,
		Palette:  style.Palette(o.Palette),
		Strict:   o.Strict,
		Logger:   o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:   o.Engine,
		FontSize: o.FontSize,
		MetaKeys: o.MetaKeys,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:   format,
		Engine:   o.Engine,
		FontSize: o.FontSize,
		MetaKeys: o.MetaKeys,
		Palette:  o.Palette,
		Strict:   o.Strict,
		Title:    o.Title,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// Clone returns a copy of o that will be validated again. Slices are
// copied so the clone can be modified freely.
func (o Options) Clone() Options {
	c := o
	c.MetaKeys = slices.Clone(o.MetaKeys)
	c.Palette = slices.Clone(o.Palette)
	c.Formats = slices.Clone(o.Formats)
	c.validated = false
	return c
}
