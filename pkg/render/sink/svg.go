package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/topoview/pkg/scene"
)

const nodeCSS = `
    .node text { font-family: "Go", sans-serif; font-size: %spx; fill: #222; pointer-events: none; }
    .node.rect rect { stroke: #333; stroke-width: 1; }
    .node[data-shortcut] { cursor: pointer; }`

const shortcutJS = `
    document.querySelectorAll('g.node[data-shortcut]').forEach(function (g) {
      g.addEventListener('dblclick', function (ev) {
        ev.stopPropagation();
        window.open(g.getAttribute('data-shortcut'), '_blank');
      });
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontSize    float64
	title       string
	interactive bool
}

// WithFontSize sets the label font size in px (default 12).
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutScript omits the embedded double-click script.
func WithoutScript() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// RenderSVG writes s as a standalone SVG document.
func RenderSVG(s *scene.Surface, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: 12, interactive: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, w, h := frame(s)
	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	cw, ch := int(math.Ceil(w)), int(math.Ceil(h))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(cw, ch, x0, y0, cw, ch)
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Style("text/css", fmt.Sprintf(nodeCSS, scene.FormatFloat(r.fontSize)))

	canvas.Group(`class="nodes"`, fmt.Sprintf(`id="%s"`, attr(s.ID)))
	for _, g := range s.Groups() {
		writeGroup(canvas, g)
	}
	canvas.Gend()

	if r.interactive {
		canvas.Script("application/javascript", shortcutJS)
	}
	canvas.End()
	return buf.Bytes()
}

func writeGroup(canvas *svg.SVG, g *scene.Group) {
	attrs := []string{
		fmt.Sprintf(`class="%s"`, attr(g.Class)),
		fmt.Sprintf(`transform="%s"`, g.TransformAttr()),
	}
	for _, k := range g.AttrKeys() {
		v, _ := g.Attr(k)
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, attr(v)))
	}
	canvas.Group(attrs...)
	for _, c := range g.Children() {
		switch e := c.(type) {
		case *scene.Rect:
			fmt.Fprintf(canvas.Writer, `<rect width="%s" height="%s" rx="%s" ry="%s" fill="%s"/>`+"\n",
				f(e.Width), f(e.Height), f(e.RX), f(e.RY), attr(e.Fill))
		case *scene.Image:
			fmt.Fprintf(canvas.Writer, `<image xlink:href="%s" width="%s" height="%s"/>`+"\n",
				attr(e.Href), f(e.Width), f(e.Height))
		case *scene.Text:
			writeText(canvas, e)
		}
	}
	canvas.Gend()
}

func writeText(canvas *svg.SVG, t *scene.Text) {
	var b strings.Builder
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="%s">`, f(t.X), f(t.Y), attr(t.Anchor))
	for _, sp := range t.Spans {
		b.WriteString(`<tspan x="` + f(sp.X) + `"`)
		if sp.DY != "" {
			b.WriteString(` dy="` + attr(sp.DY) + `"`)
		}
		if sp.Class != "" {
			b.WriteString(` class="` + attr(sp.Class) + `"`)
		}
		b.WriteString(">" + html.EscapeString(sp.Text) + "</tspan>")
	}
	b.WriteString("</text>\n")
	fmt.Fprint(canvas.Writer, b.String())
}

func f(v float64) string { return scene.FormatFloat(v) }

func attr(s string) string { return html.EscapeString(s) }
