package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newInfoCmd(c *cli) *cobra.Command {
	var (
		server   string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the repository an ECCO server works on",
		Long: `Info prints the base directory, checked-out configuration, commits and
features of the repository served by an ECCO server.

Examples:
  ecco-view info --server localhost:9090
  ecco-view info --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.connect(cmd.Context(), server)
			if err != nil {
				return err
			}
			defer c.closeLogged("ecco client", client.Close)

			info, err := client.RepositoryInfo(cmd.Context())
			if err != nil {
				return err
			}

			if jsonMode {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, string(data))
				return nil
			}

			fmt.Fprintf(c.stdout, "Repository:    %s\n", info.BaseDir)
			fmt.Fprintf(c.stdout, "Configuration: %s\n", info.Configuration)
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "\nCommits (%d)\n", len(info.Commits))
			for _, ci := range info.Commits {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", ci.ID, ci.Configuration, ci.Message)
			}
			fmt.Fprintf(tw, "\nFeatures (%d)\n", len(info.Features))
			for _, f := range info.Features {
				fmt.Fprintf(tw, "  %s\t%d revisions\t%s\n", f.Name, len(f.Revisions), f.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "ECCO server address (host:port); defaults to server.addr")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output as JSON")
	return cmd
}
