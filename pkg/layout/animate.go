package layout

import (
	"context"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/render"
)

// Animator interpolates positions over a fixed number of ticks.
type Animator struct {
	// Ticks is the number of frames, the last of which equals the target.
	Ticks int
	// Ease shapes the motion. Defaults to ease.OutCubic.
	Ease ease.TweenFunc
}

// Frames returns Ticks position sets moving from from to to. With Ticks
// below one a single frame holding to is returned.
func (a Animator) Frames(from, to []render.Position) ([][]render.Position, error) {
	if len(from) != len(to) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d start positions for %d targets", len(from), len(to))
	}
	ticks := max(a.Ticks, 1)
	fn := a.Ease
	if fn == nil {
		fn = ease.OutCubic
	}

	xs := make([]*gween.Tween, len(to))
	ys := make([]*gween.Tween, len(to))
	for i := range to {
		xs[i] = gween.New(float32(from[i].X), float32(to[i].X), float32(ticks), fn)
		ys[i] = gween.New(float32(from[i].Y), float32(to[i].Y), float32(ticks), fn)
	}

	frames := make([][]render.Position, ticks)
	for f := range frames {
		frame := make([]render.Position, len(to))
		last := f == ticks-1
		for i := range to {
			if last {
				frame[i] = to[i]
				continue
			}
			x, _ := xs[i].Update(1)
			y, _ := ys[i].Update(1)
			frame[i] = render.Position{X: float64(x), Y: float64(y)}
		}
		frames[f] = frame
	}
	return frames, nil
}

// Play moves handles to the target positions frame by frame. onTick, if
// non-nil, runs after each frame is applied.
func (a Animator) Play(ctx context.Context, handles []render.Handle, to []render.Position, onTick func(tick int)) error {
	frames, err := a.Frames(render.Positions(handles), to)
	if err != nil {
		return err
	}
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render.SetPosition(handles, frame); err != nil {
			return err
		}
		if onTick != nil {
			onTick(i)
		}
	}
	return nil
}
