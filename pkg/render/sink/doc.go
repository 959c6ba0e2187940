// Package sink serializes a rendered [scene.Surface].
//
//   - [RenderSVG] writes an SVG document with svgo. Node groups keep their
//     classes, transforms and data-* attributes, and a small embedded
//     script reproduces the double-click shortcut in a browser.
//   - [RenderPNG] rasterizes the scene with fogleman/gg. Icons are loaded
//     through an [ImageLoader].
//   - [RenderJSON] exports node geometry and metadata, plus the resolved
//     links as data. No sink draws links.
//
// Sinks never modify the surface; they can run after every layout tick.
package sink

import "github.com/matzehuels/topoview/pkg/scene"

// margin is the blank border around the content bounds.
const margin = 20.0

// frame returns the drawing origin and canvas size for s.
func frame(s *scene.Surface) (minX, minY, width, height float64) {
	x0, y0, x1, y1, ok := s.Bounds()
	if !ok {
		return 0, 0, 2 * margin, 2 * margin
	}
	return x0 - margin, y0 - margin, x1 - x0 + 2*margin, y1 - y0 + 2*margin
}
