package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr string
}

// serveCommand creates the serve command running the HTTP API around one
// design document. The server owns the canonical tree; editing frontends
// talk to it over the /api endpoints.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve [design.json]",
		Short: "Serve a design over the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, path string, opts serveOpts) error {
	logger := loggerFromContext(cmd.Context())

	d, err := design.ImportJSON(path)
	if err != nil {
		return err
	}

	srv, err := server.New(d, server.WithLogger(logger))
	if err != nil {
		return err
	}

	printInfo("Serving %s on %s", path, opts.addr)
	printNextStep("Fetch the layout", "curl http://localhost"+opts.addr+"/api/layout")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, opts.addr)
}
