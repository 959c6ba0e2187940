package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/layout"
	"github.com/matzehuels/topoview/pkg/observability"
	"github.com/matzehuels/topoview/pkg/render"
)

// Place computes target positions for the rendered nodes of d and animates
// the handles there. It reports whether the positions came from the cache.
func (r *Runner) Place(ctx context.Context, topologyHash string, d *diagram.Diagram, handles []render.Handle, opts Options) (bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return false, err
	}
	positions, hit, err := r.LayoutWithCacheInfo(ctx, topologyHash, d, opts)
	if err != nil {
		return false, err
	}

	anim := layout.Animator{Ticks: opts.Ticks}
	err = anim.Play(ctx, handles, positions, func(tick int) {
		if opts.OnTick != nil {
			opts.OnTick(tick, handles)
		}
		if opts.TickDuration > 0 && tick < opts.Ticks-1 {
			sleep(ctx, opts.TickDuration)
		}
	})
	return hit, err
}

// LayoutWithCacheInfo returns target positions for the nodes of d, from the
// cache when possible. Nodes must already be sized by the render stage.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, topologyHash string, d *diagram.Diagram, opts Options) ([]render.Position, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(topologyHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh && topologyHash != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []render.Position
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) == len(d.Nodes) {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Stale shape; fall through to recompute
		} else if err != nil {
			r.Logger.Debug("layout cache unavailable", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engine, ok := layout.New(opts.Engine, r.Logger)
	if !ok {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "unknown layout engine %q", opts.Engine)
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, engine.Name(), len(d.Nodes))
	positions, err := engine.Layout(ctx, d.Nodes, d.Edges)
	observability.Pipeline().OnLayoutComplete(ctx, engine.Name(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if topologyHash != "" {
		if data, err := json.Marshal(positions); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
				r.Logger.Debug("layout cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return positions, false, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
