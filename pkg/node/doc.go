// Package node implements the renderable vertex of a topology diagram.
//
// A [Node] is built once from a raw [topology.Node] by [New]. Construction
// normalizes the immutable fields (group tags, recognized metadata, extra
// CSS class), resolves the node's [Visual] (an [Icon] when the raw node has
// an icon href, a [Rect] filled by a color provider otherwise) and records
// the name in the diagram's [Registry].
//
// Geometry is mutable: the renderer sets Width and Height from measured text
// and the layout engine assigns X and Y. Everything a drawing needs is derived
// from those four numbers and [Padding]:
//
//	tx, ty := n.Transform()      // top-left of the content box, centered on (X, Y)
//	w, h := n.ContentWidth(), n.ContentHeight()
//	ax, ay := n.TextAnchorX(), n.TextAnchorY()
//
// # Registry
//
// A [Registry] belongs to one diagram instance and is passed to every
// constructor, so several diagrams can be built side by side (one per HTTP
// request, for example) without sharing name tables. Edge code resolves
// endpoint names with [Registry.IDByName], which fails with a NODE_NOT_FOUND
// error for names that were never registered.
package node
