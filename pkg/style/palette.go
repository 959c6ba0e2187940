// Package style assigns fill colors to rectangle nodes.
package style

import (
	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/topoview/pkg/node"
)

// Category10 is the default ten-color categorical palette.
var Category10 = Palette{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Palette is an ordered list of hex colors.
type Palette []string

// ColorFor returns the color of a group. The same group always maps to the
// same color; the empty group maps to the first color.
func (p Palette) ColorFor(group string) string {
	if len(p) == 0 {
		return "#000000"
	}
	if group == "" {
		return p[0]
	}
	return p[xxhash.Sum64String(group)%uint64(len(p))]
}

// ColorFunc returns a lazy color provider for a node with the given groups.
// The first group decides the color.
func (p Palette) ColorFunc(groups []string) node.ColorFunc {
	group := ""
	if len(groups) > 0 {
		group = groups[0]
	}
	return func() string { return p.ColorFor(group) }
}
