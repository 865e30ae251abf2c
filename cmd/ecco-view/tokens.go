package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/semantic"
)

// tokensOutput is the semantic tokens result together with its legend.
type tokensOutput struct {
	Legend semantic.Legend `json:"legend"`
	semantic.Tokens
}

func newTokensCmd(c *cli) *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "tokens associations|features",
		Short: "Print the markings of a document as LSP semantic tokens",
		Long: `Tokens completes the markings of a document and prints them as LSP
semantic tokens in relative encoding, with the legend that names the
token types and modifiers.

Examples:
  ecco-view tokens associations --doc Main.java --markings assoc.json
  ecco-view tokens features --doc Main.java --server localhost:9090`,
		Args:      viewArgs,
		ValidArgs: viewKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeSrc, err := c.source(ctx, in)
			if err != nil {
				return err
			}
			defer c.closeLogged("markings source", closeSrc)

			v, err := c.newView(args[0], src, nil, in.features)
			if err != nil {
				return err
			}

			doc, _, err := readDocument(in.doc)
			if err != nil {
				return err
			}
			complete, err := v.Markings(ctx, doc, lsp.FilePathToURI(in.doc))
			if err != nil {
				return err
			}

			out := tokensOutput{
				Legend: semantic.DefaultLegend(),
				Tokens: semantic.Encode(semantic.FromFragments(complete)),
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return c.writeOutput(output, string(data)+"\n")
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
