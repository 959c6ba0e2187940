package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/pipeline"
	"github.com/matzehuels/topoview/pkg/topology"
)

// nodesCommand creates the nodes command, which lists rendered nodes.
func (c *CLI) nodesCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "nodes [topology]",
		Short: "List the nodes of a topology with their classes and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			res, err := c.prepare(cmd.Context(), args[0], opts, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, nodeTable(nodeRows(res.Handles), -1))
			printStats(c.out, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheHit)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// prepare runs the pipeline for an interactive or listing command: a JSON
// export only, no animation delay.
func (c *CLI) prepare(ctx context.Context, input string, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	topo, err := topology.Load(input)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, noCache, filepath.Dir(input))
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Formats = []string{pipeline.FormatJSON}
	opts.TickDuration = 0
	res, err := runner.Execute(ctx, topo, opts)
	if err != nil {
		return nil, err
	}
	if res.Deferred {
		return nil, errors.New(errors.ErrCodeNoGeometry, "text measurement unavailable")
	}
	return res, nil
}
