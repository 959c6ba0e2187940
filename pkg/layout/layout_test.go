package layout

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
	"github.com/matzehuels/topoview/pkg/topology"
)

func sized(w, h float64, names ...string) []*node.Node {
	out := make([]*node.Node, len(names))
	for i, name := range names {
		n := node.New(topology.Node{Name: name}, node.ID(i), nil, nil, node.NewRegistry())
		n.Width, n.Height = w, h
		out[i] = n
	}
	return out
}

func TestGrid(t *testing.T) {
	nodes := sized(40, 20, "a", "b", "c", "d", "e")
	got, err := Grid{Gap: 10}.Layout(context.Background(), nodes, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 5 nodes -> 3 columns
	want := []render.Position{
		{X: 30, Y: 20}, {X: 80, Y: 20}, {X: 130, Y: 20},
		{X: 30, Y: 50}, {X: 80, Y: 50},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d positions", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGridUsesLargestNode(t *testing.T) {
	nodes := sized(10, 10, "a", "b")
	nodes[1].Width, nodes[1].Height = 50, 30

	got, _ := Grid{Columns: 2, Gap: 0.5}.Layout(context.Background(), nodes, nil)
	if got[1].X-got[0].X != 50.5 {
		t.Errorf("column pitch = %v, want 50.5", got[1].X-got[0].X)
	}
}

func TestGridEmpty(t *testing.T) {
	got, err := Grid{}.Layout(context.Background(), nil, nil)
	if err != nil || got != nil {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestToDOT(t *testing.T) {
	nodes := sized(72, 36, "r1", "r2")
	dot := Graphviz{Sep: 8}.ToDOT(nodes, []diagram.Edge{{From: 0, To: 1}})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		"overlap=false;",
		`sep="+8.0000";`,
		"n0 [width=1.0000, height=0.5000];",
		"n1 [width=1.0000, height=0.5000];",
		"n0 -- n1;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "r1") {
		t.Error("DOT should not carry node names")
	}
}

func TestParsePlain(t *testing.T) {
	plain := `graph 1 3 2
node n0 0.5 1.5 1 0.5 "" solid box black lightgrey
node n1 2.5 0.5 1 0.5 "" solid box black lightgrey
edge n0 n1 4 0.5 1.5 1 1 2 1 2.5 0.5 solid black
stop
`
	got, err := ParsePlain([]byte(plain), 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []render.Position{{X: 36, Y: 36}, {X: 180, Y: 108}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParsePlainMissingNode(t *testing.T) {
	plain := "graph 1 1 1\nnode n0 0.5 0.5 1 1 \"\" solid box black white\nstop\n"
	_, err := ParsePlain([]byte(plain), 2)
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("err = %v, want LAYOUT_FAILED", err)
	}
}

type failing struct{}

func (failing) Name() string { return "broken" }
func (failing) Layout(context.Context, []*node.Node, []diagram.Edge) ([]render.Position, error) {
	return nil, errors.New(errors.ErrCodeLayout, "boom")
}

func TestFallback(t *testing.T) {
	f := Fallback{Primary: failing{}, Secondary: Grid{}, Logger: log.New(io.Discard)}
	got, err := f.Layout(context.Background(), sized(10, 10, "a"), nil)
	if err != nil || len(got) != 1 {
		t.Errorf("got %v, %v", got, err)
	}
	if f.Name() != "broken" {
		t.Errorf("Name = %q", f.Name())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", "neato", true},
		{"grid", "grid", true},
		{"fdp", "fdp", true},
		{"spring", "", false},
	}
	for _, tt := range tests {
		e, ok := New(tt.name, nil)
		if ok != tt.ok {
			t.Errorf("New(%q) ok = %v", tt.name, ok)
			continue
		}
		if ok && e.Name() != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, e.Name(), tt.want)
		}
	}
}

func TestAnimatorFrames(t *testing.T) {
	from := []render.Position{{X: 0, Y: 100}, {X: 50, Y: 50}}
	to := []render.Position{{X: 100, Y: 0}, {X: 50, Y: 50}}

	frames, err := Animator{Ticks: 5, Ease: ease.Linear}.Frames(from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 5 {
		t.Fatalf("frames = %d, want 5", len(frames))
	}
	if frames[4][0] != to[0] || frames[4][1] != to[1] {
		t.Errorf("last frame = %v, want target", frames[4])
	}
	if frames[0][0].X != 20 || frames[0][0].Y != 80 {
		t.Errorf("first frame = %v, want linear step", frames[0][0])
	}
	for f := 1; f < len(frames); f++ {
		if frames[f][0].X < frames[f-1][0].X {
			t.Errorf("frame %d moved backwards", f)
		}
		if frames[f][1] != to[1] {
			t.Errorf("frame %d moved a settled node: %v", f, frames[f][1])
		}
	}
}

func TestAnimatorSingleTick(t *testing.T) {
	to := []render.Position{{X: 3, Y: 4}}
	frames, _ := Animator{}.Frames([]render.Position{{}}, to)
	if len(frames) != 1 || frames[0][0] != to[0] {
		t.Errorf("frames = %v", frames)
	}
}

func TestAnimatorMismatch(t *testing.T) {
	_, err := Animator{Ticks: 3}.Frames(make([]render.Position, 2), make([]render.Position, 3))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(string) (measure.Size, bool) {
	return measure.Size{Width: 30, Height: 10}, true
}

func TestAnimatorPlay(t *testing.T) {
	nodes := []*node.Node{node.New(topology.Node{Name: "a"}, 0, nil, nil, node.NewRegistry())}
	handles, err := render.New(fixedMeasurer{}).Render(scene.NewSurface("t"), nodes)
	if err != nil {
		t.Fatal(err)
	}

	var ticks []int
	target := []render.Position{{X: 100, Y: 60}}
	if err := (Animator{Ticks: 3}).Play(context.Background(), handles, target, func(i int) {
		ticks = append(ticks, i)
	}); err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 3 {
		t.Errorf("ticks = %v", ticks)
	}
	if nodes[0].X != 100 || nodes[0].Y != 60 {
		t.Errorf("node at (%v, %v)", nodes[0].X, nodes[0].Y)
	}
	x, y := handles[0].Group.Translate()
	if wx, wy := nodes[0].Transform(); x != wx || y != wy {
		t.Errorf("group at (%v, %v), want (%v, %v)", x, y, wx, wy)
	}
}

func TestAnimatorPlayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Animator{Ticks: 2}.Play(ctx, nil, nil, nil)
	if err != context.Canceled {
		t.Errorf("err = %v", err)
	}
}

func TestGraphvizLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("runs graphviz")
	}
	nodes := sized(60, 20, "r1", "r2", "r3")
	edges := []diagram.Edge{{From: 0, To: 1}, {From: 1, To: 2}}

	got, err := Graphviz{}.Layout(context.Background(), nodes, edges)
	if err != nil {
		t.Skipf("graphviz plain output unavailable: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("positions = %v", got)
	}
	if got[0] == got[1] || got[1] == got[2] {
		t.Errorf("overlapping centers: %v", got)
	}
	for i, p := range got {
		if p.X < 0 || p.Y < 0 {
			t.Errorf("node %d outside the canvas: %v", i, p)
		}
	}
}
