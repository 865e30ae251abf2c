package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/config"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
)

// cli holds state shared by all commands.
type cli struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "ecco-view",
		Short: "Render ECCO document markings",
		Long: `ecco-view colors the fragments of a document by the ECCO association
or feature set they belong to and renders the result as an HTML page.

Markings come from a running ECCO server (--server) or from a recorded
server response (--markings).

Examples:
  ecco-view render associations --doc Main.java --markings assoc.json -o main.html
  ecco-view render features --doc Main.java --server localhost:9090
  ecco-view watch features --doc Main.java --markings features.json -o main.html
  ecco-view batch associations --out site A.java=a.json B.java=b.json
  ecco-view commit -C "base.1, violin.2" -m "Add violin part"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.setup()
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"Path to a TOML or YAML configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "",
		"Log level (debug, info, warn, error); overrides the configuration")

	root.AddCommand(
		newRenderCmd(c),
		newTokensCmd(c),
		newWatchCmd(c),
		newBatchCmd(c),
		newInfoCmd(c),
		newCommitCmd(c),
		newCheckoutCmd(c),
		newVersionCmd(c),
	)
	return root
}

// setup loads the configuration and installs the process logger.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		if !logging.ValidLevel(c.logLevel) {
			return fmt.Errorf("invalid log level %q", c.logLevel)
		}
		cfg.Logging.Level = c.logLevel
	}

	lc := cfg.LoggerConfig()
	lc.Output = c.stderr
	c.cfg = cfg
	c.logger = logging.New(lc)
	logging.SetDefault(c.logger)
	return nil
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(c.stdout, "ecco-view %s\n", version)
			fmt.Fprintf(c.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(c.stdout, "Built: %s\n", date)
		},
	}
}
