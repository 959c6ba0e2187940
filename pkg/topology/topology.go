// Package topology defines the raw input format of a network diagram and
// loads it from JSON or YAML.
//
// A topology file lists nodes, the links between them and the metadata keys
// that should be shown on node labels:
//
//	meta_keys: [loopback]
//	nodes:
//	  - name: router1
//	    group: core
//	    class: core
//	    meta:
//	      - {class: loopback, value: 10.0.0.1}
//	  - name: switch1
//	    group: [access, dc1]
//	    icon: icons/switch.svg
//	links:
//	  - {source: router1, target: switch1}
//
// Values are kept raw here; normalization into renderable records happens in
// package node.
package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/matzehuels/topoview/pkg/errors"
)

// Format identifies an input encoding.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Topology is a raw diagram description.
type Topology struct {
	MetaKeys []string `json:"meta_keys,omitempty" yaml:"meta_keys,omitempty"`
	Nodes    []Node   `json:"nodes" yaml:"nodes"`
	Links    []Link   `json:"links,omitempty" yaml:"links,omitempty"`
}

// Node is the raw description of one diagram vertex.
type Node struct {
	Name  string `json:"name" yaml:"name"`
	Group Tags   `json:"group,omitempty" yaml:"group,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Meta  any    `json:"meta,omitempty" yaml:"meta,omitempty"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
}

// Link connects two nodes by name.
type Link struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Load reads a topology file. The format is chosen from the extension
// (.yaml/.yml for YAML, anything else for JSON).
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "topology %s", path)
		}
		return nil, fmt.Errorf("read topology: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// FormatFromPath guesses the input format from a file name.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType maps an HTTP Content-Type to a format.
// Unknown types fall back to JSON.
func FormatFromContentType(ct string) Format {
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes and validates a topology.
func Parse(data []byte, format Format) (*Topology, error) {
	var t Topology
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "decode yaml")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format %q", format)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks node names and link endpoints. Name uniqueness is not
// checked here; see node.Registry.
func (t *Topology) Validate() error {
	for i, n := range t.Nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	for i, l := range t.Links {
		if l.Source == "" || l.Target == "" {
			return errors.New(errors.ErrCodeInvalidTopology, "link %d: source and target are required", i)
		}
	}
	return nil
}
