package main

import (
	"github.com/spf13/cobra"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
)

func newRenderCmd(c *cli) *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render associations|features",
		Short: "Render the markings of a document as HTML",
		Long: `Render fetches the markings of a document, fills the unmarked gaps,
colors every marking and writes an HTML page with a legend.

The associations view colors fragments by association id and lists each
association's condition. The features view colors fragments by the set of
features they belong to.

Examples:
  ecco-view render associations --doc Main.java --markings assoc.json
  ecco-view render features --doc Main.java --server localhost:9090 -o out.html
  ecco-view render features --doc Main.java --server localhost:9090 --features A,B`,
		Args:      viewArgs,
		ValidArgs: viewKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeSrc, err := c.source(ctx, in)
			if err != nil {
				return err
			}
			defer c.closeLogged("markings source", closeSrc)

			r, err := c.renderer()
			if err != nil {
				return err
			}
			v, err := c.newView(args[0], src, r, in.features)
			if err != nil {
				return err
			}

			doc, _, err := readDocument(in.doc)
			if err != nil {
				return err
			}
			page, err := v.Render(ctx, doc, lsp.FilePathToURI(in.doc))
			if err != nil {
				return err
			}
			return c.writeOutput(output, page)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
