package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/catalog"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Source bool
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the structured-data declarations shipped with TypeScript bindings",
		Long: `List the exported declarations of the structured-data catalog that the
TypeScript backend writes as types.ts. With --source the file itself is
printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			if opts.Source {
				_, err := formatter.Writer.Write(catalog.Source())
				return err
			}

			decls := catalog.Declarations()
			if formatter.Format == "json" {
				return formatter.Success(decls)
			}
			for _, d := range decls {
				fmt.Fprintf(formatter.Writer, "%-9s %-32s %s:%d\n", d.Kind, d.Name, catalog.FileName, d.Line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Source, "source", false, "print the catalog source")
	return cmd
}

// NewBackendsCommand creates the backends command.
func NewBackendsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "backends",
		Short:         "List the available backends",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			names := backend.Names()
			if formatter.Format == "json" {
				return formatter.Success(names)
			}
			for _, name := range names {
				fmt.Fprintln(formatter.Writer, name)
			}
			return nil
		},
	}
}
