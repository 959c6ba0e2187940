package layout

import (
	"context"
	"math"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/render"
)

// DefaultGap is the spacing between grid cells.
const DefaultGap = 24.0

// Grid places nodes row by row in input order. Every cell is as large as
// the largest node. Edges are ignored.
type Grid struct {
	// Columns per row. Zero picks ceil(sqrt(n)).
	Columns int
	// Gap between cells. Zero means DefaultGap.
	Gap float64
}

// Name returns "grid".
func (Grid) Name() string { return "grid" }

// Layout returns the cell centers.
func (g Grid) Layout(_ context.Context, nodes []*node.Node, _ []diagram.Edge) ([]render.Position, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	cols := g.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	}
	gap := g.Gap
	if gap == 0 {
		gap = DefaultGap
	}

	var cellW, cellH float64
	for _, n := range nodes {
		cellW, cellH = max(cellW, n.Width), max(cellH, n.Height)
	}

	out := make([]render.Position, len(nodes))
	for i := range nodes {
		col, row := i%cols, i/cols
		out[i] = render.Position{
			X: gap + float64(col)*(cellW+gap) + cellW/2,
			Y: gap + float64(row)*(cellH+gap) + cellH/2,
		}
	}
	return out, nil
}
