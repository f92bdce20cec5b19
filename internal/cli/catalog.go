package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/store"
)

// catalogOpts holds the connection flags shared by all catalog subcommands.
type catalogOpts struct {
	uri      string
	database string
	timeout  time.Duration
}

// catalogCommand creates the catalog command for managing named designs
// in the Mongo-backed catalog.
func (c *CLI) catalogCommand() *cobra.Command {
	opts := catalogOpts{
		uri:      "mongodb://localhost:27017",
		database: appName,
		timeout:  10 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage named designs in the catalog",
	}

	cmd.PersistentFlags().StringVar(&opts.uri, "uri", opts.uri, "MongoDB connection URI (or FLOORSTACK_CATALOG_URI)")
	cmd.PersistentFlags().StringVar(&opts.database, "db", opts.database, "database name")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.timeout, "operation timeout")

	cmd.AddCommand(c.catalogPushCommand(&opts))
	cmd.AddCommand(c.catalogPullCommand(&opts))
	cmd.AddCommand(c.catalogListCommand(&opts))
	cmd.AddCommand(c.catalogDeleteCommand(&opts))

	return cmd
}

// openCatalog connects to the catalog store using the flag (or, when the
// flag is untouched, the FLOORSTACK_CATALOG_URI environment variable).
func openCatalog(ctx context.Context, opts *catalogOpts) (store.Store, error) {
	uri := opts.uri
	if env := os.Getenv("FLOORSTACK_CATALOG_URI"); env != "" && uri == "mongodb://localhost:27017" {
		uri = env
	}
	return store.NewMongoStore(ctx, uri, opts.database)
}

// catalogPushCommand creates the "catalog push" subcommand.
func (c *CLI) catalogPushCommand(opts *catalogOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "push [design.json]",
		Short: "Upload a design to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			d, err := design.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if d.Name == "" {
				return fmt.Errorf("design in %s has no name; the catalog stores designs by name", args[0])
			}

			st, err := openCatalog(ctx, opts)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Put(ctx, d); err != nil {
				return err
			}
			printSuccess("Pushed %s", StyleHighlight.Render(d.Name))
			return nil
		},
	}
}

// catalogPullCommand creates the "catalog pull" subcommand.
func (c *CLI) catalogPullCommand(opts *catalogOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [name]",
		Short: "Download a design from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			st, err := openCatalog(ctx, opts)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			d, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			target := output
			if target == "" {
				target = d.Name + ".json"
			}
			if err := design.ExportJSON(d, target); err != nil {
				return err
			}
			printSuccess("Pulled %s", StyleHighlight.Render(d.Name))
			printFile(target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <name>.json)")
	return cmd
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand(opts *catalogOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List designs in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			st, err := openCatalog(ctx, opts)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			entries, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Catalog is empty")
				return nil
			}

			fmt.Println(StyleDim.Render(fmt.Sprintf("%-32s %-8s %8s  %s", "name", "tech", "modules", "updated")))
			for _, e := range entries {
				fmt.Printf("%s %-8s %8d  %s\n",
					StyleValue.Render(fmt.Sprintf("%-32s", e.Name)), e.Tech, e.Modules,
					StyleDim.Render(e.UpdatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

// catalogDeleteCommand creates the "catalog delete" subcommand.
func (c *CLI) catalogDeleteCommand(opts *catalogOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a design from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			st, err := openCatalog(ctx, opts)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}
