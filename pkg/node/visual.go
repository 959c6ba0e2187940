package node

// Visual is the shape a node renders as. It is either [Icon] or [Rect];
// switch on the concrete type to dispatch.
type Visual interface {
	visual()
}

// Icon renders the node as an image.
type Icon struct {
	Href string
}

// Rect renders the node as a rounded rectangle filled by Color.
type Rect struct {
	Color ColorFunc
}

func (Icon) visual() {}
func (Rect) visual() {}
