package node

import (
	"slices"

	"github.com/matzehuels/topoview/pkg/metadata"
	"github.com/matzehuels/topoview/pkg/topology"
)

const (
	// Padding is the inset applied to content inside a node's bounding box.
	Padding = 3.0

	// TSpanOffset is the vertical step between stacked label lines, in em.
	TSpanOffset = 1.1

	// CornerRadius is the rx/ry of rectangle nodes.
	CornerRadius = 5.0

	// RectGrowth is added to the measured text height of rectangle nodes.
	RectGrowth = 2 * 3.0
)

// ID identifies a node inside one diagram. IDs are positional: the index of
// the raw node in its topology.
type ID int

// ColorFunc yields the fill color of a rectangle node. It is called lazily,
// at render time.
type ColorFunc func() string

// Node is a normalized diagram vertex.
type Node struct {
	id         ID
	name       string
	group      []string
	icon       string
	meta       []metadata.Entry
	extraClass string
	visual     Visual

	// Width and Height are set by the renderer from measured text.
	Width, Height float64
	// X and Y are the center coordinates assigned by the layout engine.
	X, Y float64
}

// New builds a node from raw input and registers its name in reg, which
// must not be nil: every node is registered exactly once, at construction.
// metaKeys selects and orders the metadata lines; color is only consulted
// for nodes without an icon and may be nil (black fill).
func New(raw topology.Node, id ID, metaKeys []string, color ColorFunc, reg *Registry) *Node {
	if reg == nil {
		panic("node: New called with a nil registry")
	}
	n := &Node{
		id:         id,
		name:       raw.Name,
		group:      normalizeGroup(raw.Group),
		icon:       raw.Icon,
		meta:       metadata.Normalize(raw.Meta).Get(metaKeys),
		extraClass: raw.Class,
	}
	if n.icon != "" {
		n.visual = Icon{Href: n.icon}
	} else {
		if color == nil {
			color = func() string { return "#000000" }
		}
		n.visual = Rect{Color: color}
	}
	reg.Register(n.name, id)
	return n
}

func normalizeGroup(g topology.Tags) []string {
	if g == nil {
		return []string{}
	}
	return slices.Clone([]string(g))
}

// ID returns the identifier assigned at construction.
func (n *Node) ID() ID { return n.id }

// Name returns the node label and registry key.
func (n *Node) Name() string { return n.name }

// Group returns a copy of the node's group tags. It is never nil.
func (n *Node) Group() []string { return slices.Clone(n.group) }

// Icon returns the icon href, or "" for rectangle nodes.
func (n *Node) Icon() string { return n.icon }

// Meta returns a copy of the recognized metadata entries in key order.
func (n *Node) Meta() []metadata.Entry { return slices.Clone(n.meta) }

// ExtraClass returns the free-form class appended to the node's CSS classes.
func (n *Node) ExtraClass() string { return n.extraClass }

// Visual returns the shape the node renders as.
func (n *Node) Visual() Visual { return n.visual }

// Color returns the rectangle fill color, invoking the color provider.
// Icon nodes return "".
func (n *Node) Color() string {
	if r, ok := n.visual.(Rect); ok {
		return r.Color()
	}
	return ""
}
