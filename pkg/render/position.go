package render

import "github.com/matzehuels/topoview/pkg/errors"

// Position is a node center assigned by a layout engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SetPosition assigns positions[i] to handles[i] and re-applies each
// node's transform to its group. positions must be index-aligned with the
// rendered nodes; on a length mismatch nothing is moved.
func SetPosition(handles []Handle, positions []Position) error {
	if len(positions) != len(handles) {
		return errors.New(errors.ErrCodeInvalidInput,
			"got %d positions for %d nodes", len(positions), len(handles))
	}
	for i, h := range handles {
		h.Node.X, h.Node.Y = positions[i].X, positions[i].Y
		h.Group.SetTranslate(h.Node.Transform())
	}
	return nil
}

// Positions returns the current node centers, index-aligned with handles.
func Positions(handles []Handle) []Position {
	out := make([]Position, len(handles))
	for i, h := range handles {
		out[i] = Position{X: h.Node.X, Y: h.Node.Y}
	}
	return out
}
