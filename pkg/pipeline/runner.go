package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/icons"
	"github.com/matzehuels/topoview/pkg/interact"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/observability"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
	"github.com/matzehuels/topoview/pkg/topology"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Opener handles node shortcuts. Defaults to interact.NopOpener; the
	// CLI sets interact.SystemOpener.
	Opener interact.Opener
	// Icons loads node icons for PNG output. Nil draws placeholders.
	Icons *icons.Loader
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Opener: interact.NopOpener{},
	}
}

// Execute runs the complete build → render → bind → layout → export
// pipeline with caching.
//
// When text cannot be measured the run stops after the render stage:
// Result.Deferred is set, the surface is empty and err is nil.
func (r *Runner) Execute(ctx context.Context, t *topology.Topology, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		TopologyHash: TopologyHash(t),
		Artifacts:    make(map[string][]byte),
	}

	// Stage 1: Build
	d, err := r.Build(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = d
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)
	result.Stats.Duplicates = len(d.Duplicates)

	// Stage 2: Render
	renderStart := time.Now()
	m, release, err := r.measurer(opts)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}
	defer release()

	surface := scene.NewSurface(d.ID.String())
	result.Surface = surface
	handles, err := r.Render(ctx, surface, d, m)
	result.Stats.RenderTime = time.Since(renderStart)
	if errors.Is(err, errors.ErrCodeNoGeometry) {
		r.Logger.Warn("text measurement unavailable, render deferred", "nodes", len(d.Nodes))
		result.Deferred = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Handles = handles

	// Stage 3: Bind
	interact.Bind(handles, r.Opener, interact.WithLogger(r.Logger), interact.WithContext(ctx))

	// Stage 4: Layout
	layoutStart := time.Now()
	layoutHit, err := r.Place(ctx, result.TopologyHash, d, handles, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.LayoutHit = layoutHit
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"engine", opts.Engine,
		"nodes", len(handles),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 5: Export
	exportStart := time.Now()
	artifacts, hit, err := r.ExportWithCacheInfo(ctx, result.TopologyHash, result, m, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Build creates the diagram for t.
func (r *Runner) Build(ctx context.Context, t *topology.Topology, opts Options) (*diagram.Diagram, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil topology")
	}
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(t.Nodes))
	d, err := diagram.Build(t, opts.BuildOptions())
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, len(t.Nodes), len(t.Links), time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnBuildComplete(ctx, len(d.Nodes), len(d.Edges), time.Since(start), nil)

	r.Logger.Debug("built diagram",
		"id", d.ID,
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"duplicates", len(d.Duplicates))
	return d, nil
}

// Render draws the nodes of d onto s.
func (r *Runner) Render(ctx context.Context, s *scene.Surface, d *diagram.Diagram, m measure.Measurer) ([]render.Handle, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, len(d.Nodes))
	handles, err := render.New(m).Render(s, d.Nodes)
	observability.Pipeline().OnRenderComplete(ctx, len(d.Nodes), time.Since(start), err)
	return handles, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// measurer returns opts.Measurer or a Go Regular measurer at opts.FontSize,
// with a function releasing it.
func (r *Runner) measurer(opts Options) (measure.Measurer, func(), error) {
	if opts.Measurer != nil {
		return opts.Measurer, func() {}, nil
	}
	fm, err := measure.NewFontMeasurer(opts.FontSize)
	if err != nil {
		return nil, nil, err
	}
	return fm, func() { _ = fm.Close() }, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// TopologyHash returns a content hash of t for cache keys. Equal documents
// hash equally regardless of map ordering in metadata.
func TopologyHash(t *topology.Topology) string {
	if t == nil {
		return ""
	}
	if data, err := json.Marshal(t); err == nil {
		return cache.Hash(data)
	}
	// yaml.v2 decodes nested maps as map[any]any, which encoding/json
	// rejects; fmt prints maps with sorted keys.
	return cache.Hash(fmt.Appendf(nil, "%#v", *t))
}
