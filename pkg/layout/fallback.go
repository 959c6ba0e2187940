package layout

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/render"
)

// Fallback tries Primary and uses Secondary when it fails.
type Fallback struct {
	Primary   Engine
	Secondary Engine
	Logger    *log.Logger
}

// Name returns the primary engine's name.
func (f Fallback) Name() string { return f.Primary.Name() }

// Layout runs Primary, then Secondary on error.
func (f Fallback) Layout(ctx context.Context, nodes []*node.Node, edges []diagram.Edge) ([]render.Position, error) {
	pos, err := f.Primary.Layout(ctx, nodes, edges)
	if err == nil {
		return pos, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	logger := f.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Warn("layout failed, falling back", "engine", f.Primary.Name(), "fallback", f.Secondary.Name(), "err", err)
	return f.Secondary.Layout(ctx, nodes, edges)
}

// New returns the engine for name: "grid" or a Graphviz program (neato
// when empty). Graphviz engines fall back to a grid.
func New(name string, logger *log.Logger) (Engine, bool) {
	switch name {
	case "grid":
		return Grid{}, true
	case "":
		name = "neato"
	}
	if !slices.Contains(Programs, name) {
		return nil, false
	}
	return Fallback{Primary: Graphviz{Program: name}, Secondary: Grid{}, Logger: logger}, true
}
