package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/interact"
	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
	"github.com/matzehuels/topoview/pkg/topology"
)

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(text string) (measure.Size, bool) {
	return measure.Size{Width: float64(6 * len(text)), Height: 14}, true
}

func testTopology(t *testing.T) *topology.Topology {
	t.Helper()
	topo, err := topology.Parse([]byte(`
meta_keys: [loopback]
nodes:
  - name: router1
    group: core
    class: core
    meta:
      - {class: loopback, value: 10.0.0.1}
  - name: sw1
    icon: icons/switch.png
  - name: sw2
    group: [access]
links:
  - {source: router1, target: sw1}
  - {source: router1, target: sw2}
`), topology.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	return topo
}

func testOptions() Options {
	return Options{
		Formats:  []string{FormatSVG, FormatJSON},
		Engine:   "grid",
		Ticks:    3,
		Measurer: fixedMeasurer{},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Engine != DefaultEngine || o.FontSize != measure.DefaultFontSize || o.Scale != DefaultScale {
		t.Errorf("defaults not applied: %+v", o)
	}
	if len(o.Palette) == 0 || o.Logger == nil {
		t.Error("palette and logger should be set")
	}

	bad := []Options{
		{Engine: "spring"},
		{Ticks: -1},
		{Formats: []string{"pdf"}},
		{FontSize: -2},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%+v: expected error", o)
		}
	}
}

func TestValidateSizes(t *testing.T) {
	tests := []struct {
		name     string
		fontSize float64
		scale    float64
		wantErr  bool
	}{
		{"defaults", 0, 0, false},
		{"at limits", MaxFontSize, MaxScale, false},
		{"font nan", math.NaN(), 0, true},
		{"font inf", math.Inf(1), 0, true},
		{"font huge", 1e12, 0, true},
		{"scale nan", 0, math.NaN(), true},
		{"scale negative inf", 0, math.Inf(-1), true},
		{"scale negative", 0, -1, true},
		{"scale huge", 0, MaxScale + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{FontSize: tt.fontSize, Scale: tt.scale}
			err := o.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestArtifactKeyOptsScaleOnlyForPNG(t *testing.T) {
	o := testOptions()
	_ = o.ValidateAndSetDefaults()
	if k := o.ArtifactKeyOpts(FormatSVG); k.Scale != 0 {
		t.Errorf("svg key carries scale %v", k.Scale)
	}
	if k := o.ArtifactKeyOpts(FormatPNG); k.Scale != DefaultScale {
		t.Errorf("png key scale = %v", k.Scale)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := testOptions()

	var ticks int
	opts.OnTick = func(int, []render.Handle) { ticks++ }

	res, err := runner.Execute(context.Background(), testTopology(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deferred || res.CacheHit {
		t.Errorf("Deferred=%v CacheHit=%v", res.Deferred, res.CacheHit)
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
	if len(res.Handles) != 3 || res.Surface.Len() != 3 {
		t.Fatalf("handles=%d groups=%d", len(res.Handles), res.Surface.Len())
	}

	// router1 is 42 wide; with 3 nodes the grid has 2 columns.
	r1 := res.Handles[0].Node
	if r1.X != 24+21 || r1.Y != 24+10 {
		t.Errorf("router1 at (%v, %v)", r1.X, r1.Y)
	}

	svg := res.Artifacts[FormatSVG]
	for _, want := range []string{`class="node rect router1 core"`, `data-shortcut="telnet:// /N router1 /TELNET 10.0.0.1"`} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("svg missing %s", want)
		}
	}

	var doc struct {
		ID    string `json:"id"`
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != res.Diagram.ID.String() || len(doc.Nodes) != 3 || doc.Nodes[1].Name != "sw1" {
		t.Errorf("json = %+v", doc)
	}
}

func TestExecuteDeferredWithoutMeasurement(t *testing.T) {
	opts := testOptions()
	opts.Measurer = measure.Unavailable{}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), testTopology(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Deferred {
		t.Error("expected deferred result")
	}
	if res.Surface.Len() != 0 || len(res.Artifacts) != 0 {
		t.Errorf("groups=%d artifacts=%d, want none", res.Surface.Len(), len(res.Artifacts))
	}
	if n := res.Diagram.Nodes[0]; n.Width != 0 || n.Height != 0 {
		t.Errorf("node sized to %vx%v", n.Width, n.Height)
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, testTopology(t), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || first.LayoutHit {
		t.Error("first run should miss")
	}

	second, err := runner.Execute(ctx, testTopology(t), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || !second.LayoutHit {
		t.Errorf("second run CacheHit=%v LayoutHit=%v", second.CacheHit, second.LayoutHit)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts := testOptions()
	opts.Refresh = true
	third, err := runner.Execute(ctx, testTopology(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit || third.LayoutHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteStrictDuplicate(t *testing.T) {
	topo := testTopology(t)
	topo.Nodes = append(topo.Nodes, topology.Node{Name: "sw1"})

	opts := testOptions()
	opts.Strict = true
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), topo, opts)
	if !errors.Is(err, errors.ErrCodeDuplicateNode) {
		t.Errorf("err = %v, want DUPLICATE_NODE", err)
	}

	opts.Strict = false
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), topo, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Duplicates != 1 {
		t.Errorf("duplicates = %d", res.Stats.Duplicates)
	}
}

func TestExecuteBindsShortcut(t *testing.T) {
	var opened []string
	runner := NewRunner(nil, nil, nil)
	runner.Opener = interact.OpenerFunc(func(_ context.Context, url, _ string) error {
		opened = append(opened, url)
		return nil
	})

	res, err := runner.Execute(context.Background(), testTopology(t), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range res.Handles {
		res.Surface.Dispatch(h.Group, scene.DoubleClick)
	}
	if len(opened) != 1 || opened[0] != "telnet:// /N router1 /TELNET 10.0.0.1" {
		t.Errorf("opened = %v", opened)
	}
}

func TestTopologyHash(t *testing.T) {
	a, b := testTopology(t), testTopology(t)
	if TopologyHash(a) != TopologyHash(b) {
		t.Error("equal topologies should hash equally")
	}
	b.Nodes[0].Name = "router2"
	if TopologyHash(a) == TopologyHash(b) {
		t.Error("different topologies should hash differently")
	}
	if TopologyHash(nil) != "" {
		t.Error("nil topology should hash to empty")
	}
}
