package render

import (
	"reflect"
	"testing"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/scene"
	"github.com/matzehuels/topoview/pkg/topology"
)

// fixedMeasurer returns the same box for every label.
type fixedMeasurer measure.Size

func (m fixedMeasurer) Measure(string) (measure.Size, bool) { return measure.Size(m), true }

// tableMeasurer returns per-label boxes and reports unknown labels as
// unmeasurable.
type tableMeasurer map[string]measure.Size

func (m tableMeasurer) Measure(s string) (measure.Size, bool) {
	size, ok := m[s]
	return size, ok
}

func router1(reg *node.Registry) *node.Node {
	return node.New(topology.Node{
		Name:  "router1",
		Meta:  []any{map[string]any{"class": "loopback", "value": "10.0.0.1"}},
		Class: "core",
	}, 5, []string{"loopback"}, func() string { return "#1f77b4" }, reg)
}

func TestRenderRouterScenario(t *testing.T) {
	reg := node.NewRegistry()
	n := router1(reg)

	s := scene.NewSurface("test")
	handles, err := New(fixedMeasurer{Width: 42, Height: 14}).Render(s, []*node.Node{n})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if id, _ := reg.IDByName("router1"); id != 5 {
		t.Errorf("IDByName = %d, want 5", id)
	}
	if len(handles) != 1 || handles[0].Node != n {
		t.Fatalf("handles = %+v", handles)
	}

	g := handles[0].Group
	if g.Class != "node rect router1 core" {
		t.Errorf("class = %q", g.Class)
	}
	if g.Datum != n {
		t.Error("group datum is not the node")
	}

	children := g.Children()
	if len(children) != 2 {
		t.Fatalf("children = %d, want rect + text", len(children))
	}
	rect, ok := children[0].(*scene.Rect)
	if !ok {
		t.Fatalf("first child = %T, want *scene.Rect", children[0])
	}
	want := scene.Rect{Width: 36, Height: 14, RX: 5, RY: 5, Fill: "#1f77b4"}
	if *rect != want {
		t.Errorf("rect = %+v, want %+v", *rect, want)
	}

	text := children[1].(*scene.Text)
	var lines []string
	for _, sp := range text.Spans {
		lines = append(lines, sp.Text)
	}
	if !reflect.DeepEqual(lines, []string{"router1", "10.0.0.1"}) {
		t.Errorf("lines = %v", lines)
	}
	if text.Anchor != "middle" || text.X != 21 || text.Y != 10 {
		t.Errorf("text anchor = %q at (%v, %v)", text.Anchor, text.X, text.Y)
	}
	if text.Spans[1].Class != "loopback" || text.Spans[1].DY != "1.1em" {
		t.Errorf("meta span = %+v", text.Spans[1])
	}
}

func TestRenderRectHeight(t *testing.T) {
	for _, h := range []float64{0, 14, 17.5} {
		n := node.New(topology.Node{Name: "r"}, 0, nil, nil, node.NewRegistry())
		_, err := New(fixedMeasurer{Width: 30, Height: h}).Render(scene.NewSurface("t"), []*node.Node{n})
		if err != nil {
			t.Fatal(err)
		}
		if n.Height != h+2*3 {
			t.Errorf("measured %v: Height = %v, want %v", h, n.Height, h+6)
		}
		if n.Width != 30 {
			t.Errorf("Width = %v, want 30", n.Width)
		}
	}
}

func TestRenderIconIsSquare(t *testing.T) {
	sizes := []measure.Size{{Width: 80, Height: 14}, {Width: 10, Height: 40}, {Width: 33.3, Height: 33.3}}
	for _, size := range sizes {
		n := node.New(topology.Node{Name: "sw", Icon: "icons/switch.svg", Class: "edge"}, 1, nil, nil, node.NewRegistry())
		handles, err := New(fixedMeasurer(size)).Render(scene.NewSurface("t"), []*node.Node{n})
		if err != nil {
			t.Fatal(err)
		}
		if n.Width != n.Height || n.Width != size.Width {
			t.Errorf("measured %+v: size = %vx%v, want square of width", size, n.Width, n.Height)
		}

		g := handles[0].Group
		if g.Class != "node image sw edge" {
			t.Errorf("class = %q", g.Class)
		}
		img, ok := g.Children()[0].(*scene.Image)
		if !ok {
			t.Fatalf("first child = %T, want *scene.Image", g.Children()[0])
		}
		if img.Href != "icons/switch.svg" || img.Width != n.ContentWidth() || img.Height != n.ContentHeight() {
			t.Errorf("image = %+v", img)
		}
	}
}

func TestRenderLabelLines(t *testing.T) {
	keys := []string{"loopback", "model", "site"}
	raw := topology.Node{Name: "pe1", Meta: map[string]any{
		"site":     "AMS",
		"loopback": "10.0.0.7",
		"model":    "MX480",
		"serial":   "ignored",
	}}
	n := node.New(raw, 0, keys, nil, node.NewRegistry())
	handles, err := New(fixedMeasurer{Width: 20, Height: 12}).Render(scene.NewSurface("t"), []*node.Node{n})
	if err != nil {
		t.Fatal(err)
	}

	var text *scene.Text
	for _, c := range handles[0].Group.Children() {
		if tx, ok := c.(*scene.Text); ok {
			text = tx
		}
	}
	if text == nil {
		t.Fatal("no text element")
	}
	if len(text.Spans) != 1+len(n.Meta()) || len(text.Spans) != 4 {
		t.Fatalf("lines = %d, want 1 + %d", len(text.Spans), len(n.Meta()))
	}
	if text.Spans[0].DY != "" {
		t.Errorf("first line dy = %q, want none", text.Spans[0].DY)
	}
	wantClasses := []string{"", "loopback", "model", "site"}
	for i, sp := range text.Spans {
		if i > 0 && sp.DY != "1.1em" {
			t.Errorf("line %d dy = %q, want 1.1em", i, sp.DY)
		}
		if sp.Class != wantClasses[i] {
			t.Errorf("line %d class = %q, want %q", i, sp.Class, wantClasses[i])
		}
		if sp.X != n.TextAnchorX() {
			t.Errorf("line %d x = %v, want %v", i, sp.X, n.TextAnchorX())
		}
	}
}

func TestRenderWithoutMeasurement(t *testing.T) {
	a := node.New(topology.Node{Name: "a"}, 0, nil, nil, node.NewRegistry())
	b := node.New(topology.Node{Name: "b"}, 1, nil, nil, node.NewRegistry())
	s := scene.NewSurface("t")

	tests := []struct {
		name string
		r    *Renderer
	}{
		{"unavailable", New(measure.Unavailable{})},
		{"nil measurer", &Renderer{}},
		{"partial", New(tableMeasurer{"a": {Width: 10, Height: 10}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handles, err := tt.r.Render(s, []*node.Node{a, b})
			if !errors.Is(err, errors.ErrCodeNoGeometry) {
				t.Fatalf("err = %v, want NO_GEOMETRY", err)
			}
			if handles != nil || s.Len() != 0 {
				t.Errorf("render drew %d groups", s.Len())
			}
			if a.Width != 0 || a.Height != 0 {
				t.Errorf("node a resized to %vx%v", a.Width, a.Height)
			}
		})
	}
}

func TestRenderCustomClassifier(t *testing.T) {
	r := &Renderer{
		Measurer: fixedMeasurer{Width: 10, Height: 10},
		Classify: func(s string) string { return "x-" + s },
	}
	n := node.New(topology.Node{Name: "r1"}, 0, nil, nil, node.NewRegistry())
	handles, err := r.Render(scene.NewSurface("t"), []*node.Node{n})
	if err != nil {
		t.Fatal(err)
	}
	if handles[0].Group.Class != "node rect x-r1" {
		t.Errorf("class = %q", handles[0].Group.Class)
	}
}

func TestSetPosition(t *testing.T) {
	nodes := []*node.Node{
		node.New(topology.Node{Name: "a"}, 0, nil, nil, node.NewRegistry()),
		node.New(topology.Node{Name: "b", Icon: "b.png"}, 1, nil, nil, node.NewRegistry()),
	}
	handles, err := New(fixedMeasurer{Width: 40, Height: 14}).Render(scene.NewSurface("t"), nodes)
	if err != nil {
		t.Fatal(err)
	}

	positions := []Position{{X: 100, Y: 50}, {X: -20, Y: 0}}
	if err := SetPosition(handles, positions); err != nil {
		t.Fatal(err)
	}
	for i, h := range handles {
		if h.Node.X != positions[i].X || h.Node.Y != positions[i].Y {
			t.Errorf("node %d at (%v, %v)", i, h.Node.X, h.Node.Y)
		}
		gx, gy := h.Group.Translate()
		tx, ty := h.Node.Transform()
		if gx != tx || gy != ty {
			t.Errorf("group %d translate = (%v, %v), want (%v, %v)", i, gx, gy, tx, ty)
		}
	}
	// a: 40x20 rect centered on (100, 50)
	if gx, gy := handles[0].Group.Translate(); gx != 83 || gy != 43 {
		t.Errorf("group a = (%v, %v), want (83, 43)", gx, gy)
	}
	if !reflect.DeepEqual(Positions(handles), positions) {
		t.Errorf("Positions = %v", Positions(handles))
	}
}

func TestSetPositionMismatch(t *testing.T) {
	n := node.New(topology.Node{Name: "a"}, 0, nil, nil, node.NewRegistry())
	handles, _ := New(fixedMeasurer{Width: 10, Height: 10}).Render(scene.NewSurface("t"), []*node.Node{n})

	err := SetPosition(handles, []Position{{X: 1}, {X: 2}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if n.X != 0 {
		t.Error("node moved despite mismatch")
	}
}
