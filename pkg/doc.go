// Package pkg holds the topoview libraries.
//
// # Overview
//
// Topoview draws network topologies: a list of named nodes with optional
// icons, groups and metadata, and the links between them. The packages are
// layered:
//
//  1. Input: [topology] decodes JSON or YAML, [metadata] normalizes node
//     metadata.
//  2. Model: [node] holds renderable node records and the per-diagram name
//     registry, [diagram] builds them from a topology.
//  3. Drawing: [measure] sizes text, [render] draws nodes onto a [scene]
//     surface, [interact] binds the double-click shortcut.
//  4. Placement: [layout] runs Graphviz (or a grid) and animates nodes to
//     their positions.
//  5. Output: [render/sink] writes SVG, PNG and JSON.
//  6. Orchestration: [pipeline] ties the stages together with [cache].
//
// # Data Flow
//
//	topology.json / .yaml
//	         ↓
//	    [diagram] (nodes + edges, positional IDs)
//	         ↓
//	    [render] (scene groups sized from measured text)
//	         ↓
//	    [layout] (positions, animated frame by frame)
//	         ↓
//	    SVG / PNG / JSON
//
// # Quick Start
//
//	topo, _ := topology.Load("net.yaml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, topo, pipeline.Options{Engine: "neato"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("net.svg", res.Artifacts["svg"], 0o644)
package pkg
