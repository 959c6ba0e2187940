package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoview/internal/server"
	"github.com/matzehuels/topoview/pkg/icons"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Start an HTTP server:

  POST /render?format=svg|png|json   topology in the body (JSON or YAML)
  GET  /healthz
  GET  /version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(ctx, noCache, "")
			if err != nil {
				return err
			}
			defer runner.Close()

			// Request bodies only reach icons under icon_dir, never
			// remote URLs or arbitrary paths.
			var loader *icons.Loader
			if dir := c.Config.Render.IconDir; dir != "" {
				loader = icons.NewConfinedLoader(dir)
			}
			srv := server.New(runner, c.Logger, server.Options{
				MaxBodySize: c.Config.Server.MaxBodySize,
				Timeout:     c.Config.Server.Timeout.Std(),
				Defaults:    c.baseOptions(),
				Icons:       loader,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
