// Package layout assigns node centers.
//
// An [Engine] takes measured nodes (Width and Height set by the renderer)
// and the diagram's edges, and returns one [render.Position] per node,
// index-aligned with the input. Two engines ship:
//
//   - [Graphviz] runs neato (or another Graphviz program) in-process via
//     go-graphviz and reads back node centers from the "plain" output.
//   - [Grid] places nodes row by row; it needs nothing but the sizes and
//     is used when Graphviz fails or is disabled.
//
// Layouts settle over several ticks in an interactive view. [Animator]
// reproduces that headlessly: it interpolates from the current positions
// to the engine's result with an easing curve and pushes every frame
// through [render.SetPosition].
package layout

import (
	"context"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/render"
)

// Engine computes node centers.
type Engine interface {
	Name() string
	Layout(ctx context.Context, nodes []*node.Node, edges []diagram.Edge) ([]render.Position, error)
}
