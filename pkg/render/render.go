package render

import (
	"strconv"
	"strings"

	"github.com/matzehuels/topoview/pkg/classify"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/scene"
)

// Handle ties a node to the scene group drawn for it.
type Handle struct {
	Node  *node.Node
	Group *scene.Group
}

// Renderer turns nodes into scene groups.
type Renderer struct {
	// Measurer sizes node names. A nil Measurer behaves like
	// measure.Unavailable.
	Measurer measure.Measurer
	// Classify turns a node name into a CSS class. Defaults to
	// classify.Classify.
	Classify func(string) string
}

// New returns a Renderer using m and the default classifier.
func New(m measure.Measurer) *Renderer {
	return &Renderer{Measurer: m, Classify: classify.Classify}
}

// Render draws one group per node, in order, and returns their handles.
//
// If any name cannot be measured the surface and the nodes are left
// untouched and a NO_GEOMETRY error is returned; callers should defer the
// render until measurement is available.
func (r *Renderer) Render(s *scene.Surface, nodes []*node.Node) ([]Handle, error) {
	sizes := make([]measure.Size, len(nodes))
	for i, n := range nodes {
		size, ok := r.measure(n.Name())
		if !ok {
			return nil, errors.New(errors.ErrCodeNoGeometry, "text measurement unavailable for %q", n.Name())
		}
		sizes[i] = size
	}

	slug := r.Classify
	if slug == nil {
		slug = classify.Classify
	}

	handles := make([]Handle, len(nodes))
	for i, n := range nodes {
		n.Width, n.Height = sizes[i].Width, sizes[i].Height

		g := s.AppendGroup()
		g.Datum = n

		switch v := n.Visual().(type) {
		case node.Icon:
			n.Height = n.Width
			appendImage(g, n, v, slug)
		case node.Rect:
			n.Height += node.RectGrowth
			appendRect(g, n, v, slug)
		}
		appendText(g, n)
		g.SetTranslate(n.Transform())

		handles[i] = Handle{Node: n, Group: g}
	}
	return handles, nil
}

func (r *Renderer) measure(text string) (measure.Size, bool) {
	if r.Measurer == nil {
		return measure.Size{}, false
	}
	return r.Measurer.Measure(text)
}

func appendImage(g *scene.Group, n *node.Node, icon node.Icon, slug func(string) string) {
	g.Class = className("image", n, slug)
	g.Append(&scene.Image{
		Href:   icon.Href,
		Width:  n.ContentWidth(),
		Height: n.ContentHeight(),
	})
}

func appendRect(g *scene.Group, n *node.Node, rect node.Rect, slug func(string) string) {
	g.Class = className("rect", n, slug)
	g.Append(&scene.Rect{
		Width:  n.ContentWidth(),
		Height: n.ContentHeight(),
		RX:     node.CornerRadius,
		RY:     node.CornerRadius,
		Fill:   rect.Color(),
	})
}

// appendText adds the centered label: the name, then one line per
// metadata entry.
func appendText(g *scene.Group, n *node.Node) {
	x := n.TextAnchorX()
	meta := n.Meta()
	text := &scene.Text{
		X:      x,
		Y:      n.TextAnchorY(),
		Anchor: "middle",
		Spans:  make([]scene.TSpan, 0, 1+len(meta)),
	}
	text.Spans = append(text.Spans, scene.TSpan{X: x, Text: n.Name()})
	for _, m := range meta {
		text.Spans = append(text.Spans, scene.TSpan{
			X:     x,
			DY:    LineOffset,
			Class: m.Class,
			Text:  m.Value,
		})
	}
	g.Append(text)
}

// LineOffset is the dy of every label line after the first.
var LineOffset = strconv.FormatFloat(node.TSpanOffset, 'f', -1, 64) + "em"

// className builds "node <shape> <slug> <extra>", dropping the trailing
// space when the node has no extra class.
func className(shape string, n *node.Node, slug func(string) string) string {
	return strings.TrimSpace("node " + shape + " " + slug(n.Name()) + " " + n.ExtraClass())
}
