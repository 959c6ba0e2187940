// Package diagram turns a raw topology into the nodes and edges of one
// diagram instance.
//
// Every diagram owns its own [node.Registry], so two diagrams built from
// the same topology never share name lookups. Node IDs are positional:
// the i-th raw node gets ID i, which keeps layout positions index-aligned
// with the node slice.
package diagram

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/style"
	"github.com/matzehuels/topoview/pkg/topology"
)

// Edge connects two nodes of the same diagram.
type Edge struct {
	From node.ID `json:"from"`
	To   node.ID `json:"to"`
}

// Diagram is a built topology.
type Diagram struct {
	// ID identifies this instance; it scopes element ids in the output.
	ID       uuid.UUID
	Registry *node.Registry
	Nodes    []*node.Node
	Edges    []Edge
	// Duplicates lists names that appeared more than once. Lookups resolve
	// them to their last occurrence.
	Duplicates []string
}

// BuildOptions configures Build.
type BuildOptions struct {
	// MetaKeys selects and orders label lines. Defaults to the topology's
	// own meta_keys.
	MetaKeys []string
	// Palette colors rectangle nodes by first group. Defaults to
	// style.Category10.
	Palette style.Palette
	// Strict rejects duplicate names with DUPLICATE_NODE.
	Strict bool
	// Logger receives duplicate-name warnings. Defaults to log.Default().
	Logger *log.Logger
}

// Build creates the nodes of t and resolves its links.
func Build(t *topology.Topology, opts BuildOptions) (*Diagram, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil topology")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	keys := opts.MetaKeys
	if len(keys) == 0 {
		keys = t.MetaKeys
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = style.Category10
	}

	d := &Diagram{
		ID:       uuid.New(),
		Registry: node.NewRegistry(),
		Nodes:    make([]*node.Node, 0, len(t.Nodes)),
	}

	seen := make(map[string]int, len(t.Nodes))
	for i, raw := range t.Nodes {
		if first, dup := seen[raw.Name]; dup {
			if opts.Strict {
				return nil, errors.New(errors.ErrCodeDuplicateNode,
					"node %q appears at %d and %d", raw.Name, first, i).WithNode(raw.Name)
			}
			logger.Warn("duplicate node name, last one wins", "name", raw.Name, "first", first, "index", i)
			d.Duplicates = append(d.Duplicates, raw.Name)
		} else {
			seen[raw.Name] = i
		}

		color := palette.ColorFunc([]string(raw.Group))
		d.Nodes = append(d.Nodes, node.New(raw, node.ID(i), keys, color, d.Registry))
	}

	edges, err := d.resolve(t.Links)
	if err != nil {
		return nil, err
	}
	d.Edges = edges
	return d, nil
}

func (d *Diagram) resolve(links []topology.Link) ([]Edge, error) {
	edges := make([]Edge, 0, len(links))
	for _, l := range links {
		from, err := d.Registry.IDByName(l.Source)
		if err != nil {
			return nil, err
		}
		to, err := d.Registry.IDByName(l.Target)
		if err != nil {
			return nil, err
		}
		edges = append(edges, Edge{From: from, To: to})
	}
	return edges, nil
}

// Node returns the node with the given name.
func (d *Diagram) Node(name string) (*node.Node, error) {
	id, err := d.Registry.IDByName(name)
	if err != nil {
		return nil, err
	}
	return d.Nodes[id], nil
}
