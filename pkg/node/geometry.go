package node

import "strconv"

// Transform returns the translation of the node's content box so that the
// box is centered on (X, Y).
func (n *Node) Transform() (x, y float64) {
	x = n.X - n.Width/2 + Padding
	y = n.Y - n.Height/2 + Padding
	return x, y
}

// TransformAttr formats [Node.Transform] as an SVG transform attribute.
func (n *Node) TransformAttr() string {
	x, y := n.Transform()
	return "translate(" + formatFloat(x) + ", " + formatFloat(y) + ")"
}

// ContentWidth is the width inside the padding.
func (n *Node) ContentWidth() float64 { return n.Width - 2*Padding }

// ContentHeight is the height inside the padding.
func (n *Node) ContentHeight() float64 { return n.Height - 2*Padding }

// TextAnchorX is the horizontal center used to anchor the label.
func (n *Node) TextAnchorX() float64 { return n.Width / 2 }

// TextAnchorY is the vertical center used to anchor the label.
func (n *Node) TextAnchorY() float64 { return n.Height / 2 }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
