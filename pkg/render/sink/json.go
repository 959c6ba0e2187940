package sink

import (
	"encoding/json"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/metadata"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/scene"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	id    string
	edges []diagram.Edge
}

// WithDiagramID records the diagram instance id.
func WithDiagramID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

// WithLinks records the diagram's edges.
func WithLinks(edges []diagram.Edge) JSONOption {
	return func(r *jsonRenderer) { r.edges = edges }
}

type jsonOutput struct {
	ID     string         `json:"id,omitempty"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Nodes  []jsonNode     `json:"nodes"`
	Edges  []diagram.Edge `json:"edges,omitempty"`
}

type jsonNode struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Class     string            `json:"class"`
	Group     []string          `json:"group"`
	Icon      string            `json:"icon,omitempty"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Transform string            `json:"transform"`
	Fill      string            `json:"fill,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// RenderJSON exports every node group of s as a pretty-printed document.
// Groups without a bound node are skipped.
func RenderJSON(s *scene.Surface, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	_, _, w, h := frame(s)
	out := jsonOutput{
		ID:     r.id,
		Width:  w,
		Height: h,
		Nodes:  make([]jsonNode, 0, s.Len()),
		Edges:  r.edges,
	}
	for _, g := range s.Groups() {
		n, ok := g.Datum.(*node.Node)
		if !ok {
			continue
		}
		jn := jsonNode{
			ID:        int(n.ID()),
			Name:      n.Name(),
			Class:     g.Class,
			Group:     n.Group(),
			Icon:      n.Icon(),
			X:         n.X,
			Y:         n.Y,
			Width:     n.Width,
			Height:    n.Height,
			Transform: g.TransformAttr(),
		}
		if _, ok := n.Visual().(node.Rect); ok {
			jn.Fill = n.Color()
		}
		if meta := n.Meta(); len(meta) > 0 {
			jn.Meta = metadata.Map(meta)
		}
		if keys := g.AttrKeys(); len(keys) > 0 {
			jn.Attrs = make(map[string]string, len(keys))
			for _, k := range keys {
				jn.Attrs[k], _ = g.Attr(k)
			}
		}
		out.Nodes = append(out.Nodes, jn)
	}
	return json.MarshalIndent(out, "", "  ")
}
