// Package render draws topology nodes into a [scene.Surface].
//
// # Overview
//
// [Renderer.Render] is called once per initial diagram draw. For every node
// it measures the name, sizes the node, appends one scene group and fills it
// with either an image (icon nodes) or a rounded rectangle, followed by a
// centered label:
//
//	r := render.New(measurer)
//	handles, err := r.Render(surface, nodes)
//
// Icon nodes are squared (Height = Width); rectangle nodes grow by a fixed
// 2 x 3 pixels so the label does not touch the border. The label's first line
// is the node name and each recognized metadata entry adds one more line,
// offset by [node.TSpanOffset] em and classed with the entry's key.
//
// # Layout Ticks
//
// The layout engine moves nodes many times while it converges. Each tick
// goes through [SetPosition], which assigns X/Y by index and re-applies the
// node's transform to its group:
//
//	for _, frame := range frames {
//	    if err := render.SetPosition(handles, frame); err != nil { ... }
//	}
//
// # Output
//
// Serializing the surface is the job of the [sink] subpackage (SVG, PNG,
// JSON). Interaction handlers are bound separately by package interact.
//
// [sink]: github.com/matzehuels/topoview/pkg/render/sink
package render
