// Package measure computes the rendered size of label text.
//
// Browsers measure text by drawing it off-screen and reading its bounding
// box. The Go equivalent is asking a font face for advances and metrics,
// which needs no surface at all; [FontMeasurer] does exactly that with the
// Go Regular typeface. [Unavailable] stands in for contexts where no font
// can be loaded, and reports every measurement as missing.
package measure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the label font size in pixels.
const DefaultFontSize = 12.0

// Size is a text bounding box in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measurer returns the bounding box of a label. ok is false when the
// measurement capability is unavailable; callers must treat that as "no
// geometry yet".
type Measurer interface {
	Measure(text string) (size Size, ok bool)
}

// Unavailable is a Measurer for headless contexts.
type Unavailable struct{}

// Measure always reports a missing measurement.
func (Unavailable) Measure(string) (Size, bool) { return Size{}, false }

// FontMeasurer measures text with an OpenType face. Results are memoized;
// it is safe for concurrent use.
type FontMeasurer struct {
	size float64

	mu    sync.Mutex
	face  font.Face
	memo  map[string]Size
	lineH float64
}

// NewFontMeasurer parses Go Regular at size pixels (72 DPI, so points and
// pixels coincide).
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{
		size:  size,
		face:  face,
		memo:  make(map[string]Size),
		lineH: fixedToFloat(face.Metrics().Height),
	}, nil
}

// FontSize returns the configured size in pixels.
func (m *FontMeasurer) FontSize() float64 { return m.size }

// Face returns the underlying font face, for rasterizers that draw with the
// same metrics they measured with. font.Face is not safe for concurrent use;
// callers sharing the measurer must not use the face concurrently.
func (m *FontMeasurer) Face() font.Face { return m.face }

// Measure returns the advance width of text and the face's line height.
func (m *FontMeasurer) Measure(text string) (Size, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.memo[text]; ok {
		return s, true
	}
	s := Size{
		Width:  fixedToFloat(font.MeasureString(m.face, text)),
		Height: m.lineH,
	}
	m.memo[text] = s
	return s, true
}

// Close releases the font face.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Close()
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
