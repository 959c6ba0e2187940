package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topoview/pkg/diagram"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/render"
)

// pointsPerInch converts Graphviz inches to scene pixels.
const pointsPerInch = 72.0

// Programs lists the Graphviz layout programs accepted by Graphviz.Program.
var Programs = []string{"neato", "fdp", "sfdp", "dot", "circo", "twopi"}

// Graphviz lays nodes out with a Graphviz program.
type Graphviz struct {
	// Program is the layout program. Defaults to neato.
	Program string
	// Sep is extra space around nodes, in points.
	Sep float64
}

// Name returns the program name.
func (g Graphviz) Name() string { return g.program() }

func (g Graphviz) program() string {
	if g.Program == "" {
		return "neato"
	}
	return g.Program
}

// Layout runs the program and returns node centers in scene coordinates
// (origin top-left, y down).
func (g Graphviz) Layout(ctx context.Context, nodes []*node.Node, edges []diagram.Edge) ([]render.Position, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	dot := g.ToDOT(nodes, edges)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "init graphviz")
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "parse DOT")
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("plain"), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "run %s", g.program())
	}
	return ParsePlain(buf.Bytes(), len(nodes))
}

// ToDOT converts nodes and edges to an undirected DOT graph. Nodes are
// named n<index> and drawn as fixed-size boxes matching their measured
// geometry so the program can avoid overlaps.
func (g Graphviz) ToDOT(nodes []*node.Node, edges []diagram.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", g.program())
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=false;\n")
	if g.Sep > 0 {
		fmt.Fprintf(&buf, "  sep=\"+%s\";\n", fmtFloat(g.Sep))
	}
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, n := range nodes {
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i,
			fmtFloat(n.Width/pointsPerInch), fmtFloat(n.Height/pointsPerInch))
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ParsePlain reads node centers from Graphviz "plain" output. Coordinates
// are converted from inches with a bottom-left origin to pixels with a
// top-left origin.
func ParsePlain(data []byte, count int) ([]render.Position, error) {
	positions := make([]render.Position, count)
	found := make([]bool, count)
	var height float64

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, errors.New(errors.ErrCodeLayout, "malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeLayout, err, "graph height")
			}
			height = h
		case "node":
			if len(fields) < 4 {
				return nil, errors.New(errors.ErrCodeLayout, "malformed node line %q", sc.Text())
			}
			idx, ok := nodeIndex(fields[1], count)
			if !ok {
				continue
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return nil, errors.New(errors.ErrCodeLayout, "bad coordinates for %s", fields[1])
			}
			positions[idx] = render.Position{X: x * pointsPerInch, Y: (height - y) * pointsPerInch}
			found[idx] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "read plain output")
	}
	for i, ok := range found {
		if !ok {
			return nil, errors.New(errors.ErrCodeLayout, "no position for node %d", i)
		}
	}
	return positions, nil
}

func nodeIndex(name string, count int) (int, bool) {
	name = strings.Trim(name, `"`)
	if !strings.HasPrefix(name, "n") {
		return 0, false
	}
	i, err := strconv.Atoi(name[1:])
	if err != nil || i < 0 || i >= count {
		return 0, false
	}
	return i, true
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
