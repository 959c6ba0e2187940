// Package scene is a small retained-mode scene graph for diagram output.
//
// A [Surface] holds an ordered list of [Group]s. Each group carries a
// translation, a CSS class, free-form attributes (data-* hooks), a bound
// datum and child elements ([Rect], [Image], [Text]). Groups can be moved
// after they are built, which is how layout ticks are applied, and they
// accept event handlers that [Surface.Dispatch] runs with DOM-like bubbling:
// target handlers first, then surface handlers unless propagation was
// stopped.
//
// Sinks in package render/sink serialize a surface to SVG, PNG or JSON.
package scene

import (
	"maps"
	"slices"
	"strconv"
)

// EventType names an interaction event.
type EventType string

// Supported events.
const (
	Click       EventType = "click"
	DoubleClick EventType = "dblclick"
)

// Event is delivered to handlers by [Surface.Dispatch].
type Event struct {
	Type   EventType
	Target *Group
	// Err is set by a handler whose action failed, so the dispatcher can
	// report it.
	Err     error
	stopped bool
}

// StopPropagation prevents surface-level handlers from seeing the event.
// Remaining handlers on the target still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// Handler reacts to an event.
type Handler func(*Event)

type handlers map[EventType][]Handler

func (h *handlers) add(t EventType, fn Handler) {
	if *h == nil {
		*h = make(handlers)
	}
	(*h)[t] = append((*h)[t], fn)
}

// Surface is the root of a scene.
type Surface struct {
	ID string

	groups   []*Group
	handlers handlers
}

// NewSurface returns an empty surface. id scopes element ids in the output.
func NewSurface(id string) *Surface {
	return &Surface{ID: id}
}

// AppendGroup adds a new empty group at the end of the draw order.
func (s *Surface) AppendGroup() *Group {
	g := &Group{}
	s.groups = append(s.groups, g)
	return g
}

// Groups returns the groups in draw order.
func (s *Surface) Groups() []*Group { return slices.Clone(s.groups) }

// Len returns the number of groups.
func (s *Surface) Len() int { return len(s.groups) }

// On registers a surface-level handler, e.g. a zoom gesture.
func (s *Surface) On(t EventType, fn Handler) { s.handlers.add(t, fn) }

// Dispatch delivers an event to target and, unless stopped, to the surface.
func (s *Surface) Dispatch(target *Group, t EventType) *Event {
	ev := &Event{Type: t, Target: target}
	if target != nil {
		for _, fn := range target.handlers[t] {
			fn(ev)
		}
	}
	if ev.stopped {
		return ev
	}
	for _, fn := range s.handlers[t] {
		fn(ev)
	}
	return ev
}

// Bounds returns the union of all group boxes. ok is false for an empty
// surface.
func (s *Surface) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	for _, g := range s.groups {
		w, h := g.Size()
		x0, y0 := g.x, g.y
		x1, y1 := x0+w, y0+h
		if !ok {
			minX, minY, maxX, maxY, ok = x0, y0, x1, y1, true
			continue
		}
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	return minX, minY, maxX, maxY, ok
}

// Group is a translated container of elements.
type Group struct {
	// Class is the space-separated CSS class list.
	Class string
	// Datum is the value bound to the group by the renderer.
	Datum any

	x, y     float64
	attrs    map[string]string
	children []Element
	handlers handlers
}

// SetTranslate moves the group.
func (g *Group) SetTranslate(x, y float64) { g.x, g.y = x, y }

// Translate returns the group's translation.
func (g *Group) Translate() (x, y float64) { return g.x, g.y }

// TransformAttr formats the translation as an SVG transform.
func (g *Group) TransformAttr() string {
	return "translate(" + FormatFloat(g.x) + ", " + FormatFloat(g.y) + ")"
}

// SetAttr sets an extra attribute such as data-shortcut.
func (g *Group) SetAttr(key, value string) {
	if g.attrs == nil {
		g.attrs = make(map[string]string)
	}
	g.attrs[key] = value
}

// Attr returns an extra attribute.
func (g *Group) Attr(key string) (string, bool) {
	v, ok := g.attrs[key]
	return v, ok
}

// AttrKeys returns the extra attribute names in sorted order.
func (g *Group) AttrKeys() []string {
	return slices.Sorted(maps.Keys(g.attrs))
}

// Append adds a child element.
func (g *Group) Append(e Element) { g.children = append(g.children, e) }

// Children returns the child elements in draw order.
func (g *Group) Children() []Element { return slices.Clone(g.children) }

// On registers a handler for events targeting this group.
func (g *Group) On(t EventType, fn Handler) { g.handlers.add(t, fn) }

// HasHandler reports whether any handler is bound for t.
func (g *Group) HasHandler(t EventType) bool { return len(g.handlers[t]) > 0 }

// Size returns the extent of the group's shape children.
func (g *Group) Size() (w, h float64) {
	for _, c := range g.children {
		switch e := c.(type) {
		case *Rect:
			w, h = max(w, e.Width), max(h, e.Height)
		case *Image:
			w, h = max(w, e.Width), max(h, e.Height)
		}
	}
	return w, h
}

// FormatFloat renders a coordinate without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
