package sink

import (
	"bytes"
	"context"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/topoview/pkg/measure"
	"github.com/matzehuels/topoview/pkg/scene"
)

// ImageLoader resolves an image href for rasterization.
type ImageLoader interface {
	Load(ctx context.Context, href string) (image.Image, error)
}

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	ctx      context.Context
	scale    float64
	fontSize float64
	face     font.Face
	images   ImageLoader
}

// WithScale sets the pixel density (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithFace draws labels with face, whose size is px. Defaults to Go
// Regular at 12px.
func WithFace(face font.Face, px float64) PNGOption {
	return func(r *pngRenderer) { r.face, r.fontSize = face, px }
}

// WithImageLoader sets the loader used for image elements. Without one,
// images are drawn as placeholders.
func WithImageLoader(l ImageLoader) PNGOption { return func(r *pngRenderer) { r.images = l } }

// WithContext sets the context passed to the image loader.
func WithContext(ctx context.Context) PNGOption { return func(r *pngRenderer) { r.ctx = ctx } }

// RenderPNG rasterizes s.
func RenderPNG(s *scene.Surface, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{ctx: context.Background(), scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.face == nil {
		m, err := measure.NewFontMeasurer(measure.DefaultFontSize)
		if err != nil {
			return nil, err
		}
		defer m.Close()
		r.face, r.fontSize = m.Face(), m.FontSize()
	}

	minX, minY, w, h := frame(s)
	dc := gg.NewContext(int(math.Ceil(w*r.scale)), int(math.Ceil(h*r.scale)))
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.Translate(-minX, -minY)
	dc.SetFontFace(r.face)

	for _, g := range s.Groups() {
		r.drawGroup(dc, g)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawGroup(dc *gg.Context, g *scene.Group) {
	tx, ty := g.Translate()
	for _, c := range g.Children() {
		switch e := c.(type) {
		case *scene.Rect:
			dc.DrawRoundedRectangle(tx, ty, e.Width, e.Height, e.RX)
			dc.SetHexColor(e.Fill)
			dc.FillPreserve()
			dc.SetHexColor("#333333")
			dc.SetLineWidth(1)
			dc.Stroke()
		case *scene.Image:
			r.drawImage(dc, e, tx, ty)
		case *scene.Text:
			r.drawText(dc, e, tx, ty)
		}
	}
}

func (r *pngRenderer) drawImage(dc *gg.Context, e *scene.Image, tx, ty float64) {
	var img image.Image
	if r.images != nil {
		img, _ = r.images.Load(r.ctx, e.Href)
	}
	b := image.Rectangle{}
	if img != nil {
		b = img.Bounds()
	}
	if b.Dx() == 0 || b.Dy() == 0 {
		dc.DrawRoundedRectangle(tx, ty, e.Width, e.Height, 3)
		dc.SetHexColor("#dddddd")
		dc.Fill()
		return
	}
	dc.Push()
	dc.Translate(tx, ty)
	dc.Scale(e.Width/float64(b.Dx()), e.Height/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}

func (r *pngRenderer) drawText(dc *gg.Context, t *scene.Text, tx, ty float64) {
	ax := 0.0
	switch t.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	dc.SetHexColor("#222222")
	y := ty + t.Y
	for _, sp := range t.Spans {
		y += lengthPx(sp.DY, r.fontSize)
		dc.DrawStringAnchored(sp.Text, tx+sp.X, y, ax, 0)
	}
}

// lengthPx converts an SVG length ("1.1em", "14px", "14") to pixels.
// Unparseable lengths are zero.
func lengthPx(l string, fontSize float64) float64 {
	unit := 1.0
	switch {
	case strings.HasSuffix(l, "em"):
		l, unit = strings.TrimSuffix(l, "em"), fontSize
	case strings.HasSuffix(l, "px"):
		l = strings.TrimSuffix(l, "px")
	}
	v, err := strconv.ParseFloat(l, 64)
	if err != nil {
		return 0
	}
	return v * unit
}
