package cli

import (
	"github.com/spf13/cobra"
)

// serveCommand creates the serve command, which runs the HTTP API until
// the process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var flags runFlags
	listen := ""

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the aggregation HTTP API",
		Long: `Run the aggregation HTTP API.

Collectors POST observation lists to /v1/aggregate and receive the canonical
record back as JSON. /healthz reports liveness.

Example:
  metaforge serve --net --listen localhost:8448`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := c.newServer(cmd, flags)
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = c.Config.Listen
			}
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "bind address (overrides config)")
	return cmd
}
