package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommitCmd(c *cli) *cobra.Command {
	var (
		server        string
		configuration string
		message       string
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit the working tree as a configuration",
		Long: `Commit asks the ECCO server to record the current working tree as a new
commit of the given configuration, a comma-separated list of feature
revisions.

Examples:
  ecco-view commit --configuration "base.1, violin.2" --message "Add violin part"
  ecco-view commit -C base.1 -m "Initial import" --server localhost:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.connect(cmd.Context(), server)
			if err != nil {
				return err
			}
			defer c.closeLogged("ecco client", client.Close)

			c.logger.Debug("committing", "configuration", configuration, "message", message)
			if err := client.Commit(cmd.Context(), configuration, message); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			fmt.Fprintf(c.stdout, "Committed configuration: %s\n", configuration)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "ECCO server address (host:port); defaults to server.addr")
	cmd.Flags().StringVarP(&configuration, "configuration", "C", "", "Comma-separated feature revisions")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	_ = cmd.MarkFlagRequired("configuration")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newCheckoutCmd(c *cli) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "checkout CONFIGURATION",
		Short: "Check out a configuration into the working tree",
		Long: `Checkout asks the ECCO server to replace the working tree with the variant
described by CONFIGURATION, a comma-separated list of feature revisions.

Examples:
  ecco-view checkout "base.1, violin.2"
  ecco-view checkout base.1 --server localhost:9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.connect(cmd.Context(), server)
			if err != nil {
				return err
			}
			defer c.closeLogged("ecco client", client.Close)

			c.logger.Debug("checking out", "configuration", args[0])
			if err := client.Checkout(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("checkout: %w", err)
			}
			fmt.Fprintf(c.stdout, "Checked out configuration: %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "ECCO server address (host:port); defaults to server.addr")
	return cmd
}
