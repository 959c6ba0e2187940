package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/observability"
	"github.com/matzehuels/topoview/pkg/render/sink"
)

// ExportWithCacheInfo serializes the laid-out scene of res in every
// requested format. It reports true when all artifacts came from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, topologyHash string, res *Result, m measure.Measurer, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh && topologyHash != ""
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(topologyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	for _, format := range opts.Formats {
		data, err := r.Export(ctx, res, m, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if topologyHash == "" {
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(topologyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Export serializes the scene of res in one format.
func (r *Runner) Export(ctx context.Context, res *Result, m measure.Measurer, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(res.Surface,
			sink.WithFontSize(opts.FontSize),
			sink.WithTitle(opts.Title))
	case FormatPNG:
		pngOpts := []sink.PNGOption{
			sink.WithScale(opts.Scale),
			sink.WithContext(ctx),
		}
		if fm, ok := m.(*measure.FontMeasurer); ok {
			pngOpts = append(pngOpts, sink.WithFace(fm.Face(), fm.FontSize()))
		}
		if r.Icons != nil {
			pngOpts = append(pngOpts, sink.WithImageLoader(r.Icons))
		}
		data, err = sink.RenderPNG(res.Surface, pngOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(res.Surface,
			sink.WithDiagramID(res.Diagram.ID.String()),
			sink.WithLinks(res.Diagram.Edges))
	}
	observability.Pipeline().OnExport(ctx, format, len(data), time.Since(start), err)
	return data, err
}
