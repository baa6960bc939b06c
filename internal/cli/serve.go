package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figpanel/pkg/server"
)

// serveCommand creates the serve command, which exposes layout computation
// over HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := server.New(c.Logger).ListenAndServe(cmd.Context(), addr)
			if stderrors.Is(err, context.Canceled) {
				c.Logger.Info("server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	return cmd
}
