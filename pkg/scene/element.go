package scene

// Element is a drawable child of a [Group]: *Rect, *Image or *Text.
type Element interface {
	element()
}

// Rect is a rounded rectangle at the group origin.
type Rect struct {
	Width, Height float64
	RX, RY        float64
	Fill          string
}

// Image is a bitmap or vector image at the group origin.
type Image struct {
	Href          string
	Width, Height float64
}

// Text is a label made of stacked spans.
type Text struct {
	X, Y   float64
	Anchor string
	Spans  []TSpan
}

// TSpan is one line of a [Text]. DY is an SVG length relative to the
// previous line ("1.1em"); the first line usually leaves it empty.
type TSpan struct {
	X     float64
	DY    string
	Class string
	Text  string
}

func (*Rect) element()  {}
func (*Image) element() {}
func (*Text) element()  {}
