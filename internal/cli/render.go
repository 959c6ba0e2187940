package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/pipeline"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/topology"
)

// renderFlags holds the flags shared by commands that run the pipeline.
type renderFlags struct {
	engine   string
	ticks    int
	metaKeys string
	fontSize float64
	strict   bool
	noCache  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "layout engine: grid, neato, fdp, sfdp, dot, circo, twopi")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "animation frames between initial and final positions")
	cmd.Flags().StringVar(&f.metaKeys, "meta-keys", "", "metadata classes shown under node names (comma-separated)")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "label font size in pixels")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject duplicate node names")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply overrides config values with the flags the user set.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("engine") {
		opts.Engine = f.engine
	}
	if changed("ticks") {
		opts.Ticks = f.ticks
	}
	if changed("meta-keys") {
		opts.MetaKeys = splitList(f.metaKeys)
	}
	if changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if changed("strict") {
		opts.Strict = f.strict
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      renderFlags
		formatsStr string
		output     string
		title      string
		scale      float64
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [topology]",
		Short: "Render a topology to SVG, PNG or JSON",
		Long: `Render a topology file (JSON, or YAML with a .yaml/.yml extension).

Each format is written next to the input (net.yaml -> net.svg) unless -o is
given. With several formats, -o is used as the base path.

Results are cached; use --refresh to recompute or --no-cache to bypass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			opts.Formats = splitList(formatsStr)
			opts.Title = title
			opts.Refresh = refresh
			opts.TickDuration = 0
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, json (comma-separated)")
	cmd.Flags().StringVar(&title, "title", "", "document title (SVG)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG pixel density")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute instead of reading the cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	topo, err := topology.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, filepath.Dir(input))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	opts.OnTick = func(tick int, _ []render.Handle) {
		spinner.SetMessage(fmt.Sprintf("Placing nodes (%d/%d)...", tick+1, max(opts.Ticks, 1)))
	}
	prog := newProgress(c.Logger)
	spinner.Start()

	result, err := runner.Execute(ctx, topo, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if result.Deferred {
		printWarning(c.out, "Text measurement unavailable; nothing was drawn")
		return errors.New(errors.ErrCodeNoGeometry, "render deferred")
	}
	prog.done("rendered", "nodes", result.Stats.NodeCount, "formats", strings.Join(opts.Formats, ","))

	printSuccess(c.out, "Rendered %s", input)
	for _, format := range opts.Formats {
		path := outputPath(output, input, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(c.out, path)
	}
	printStats(c.out, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	if n := result.Stats.Duplicates; n > 0 {
		printWarning(c.out, "%d duplicate node name(s); the last definition wins", n)
	}
	return nil
}

// outputPath returns where to write format. An explicit output is used as
// is for a single format; otherwise it (or the input) is a base path whose
// format extension, if any, is replaced.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath strips a known format extension from output, or any extension
// from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
