package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/cmd"
	cli "github.com/urfave/cli/v3"
)

func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"ls"},
		Usage:   "List workflow categories and their workflows",
		Action: func(_ context.Context, command *cli.Command) error {
			c, err := cmd.NewCatalog(command.String("catalog"))
			if err != nil {
				return err
			}

			return printCatalog(command.Root().Writer, c)
		},
	}
}

func printCatalog(out io.Writer, c *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, category := range c.Categories() {
		fmt.Fprintf(w, "%s\t%s\n", category.Name, category.Description)

		if len(category.Workflows) == 0 {
			fmt.Fprintf(w, "  (no workflows yet)\t\n")
		}

		for _, wf := range category.Workflows {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d fields\n", wf.ID, wf.Name, wf.Status.Label(), len(wf.Fields))
		}
	}

	return w.Flush()
}
