package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/view"
)

// batchJob is one DOC=MARKINGS argument.
type batchJob struct {
	doc      string
	markings string
	output   string
}

func parseBatchJobs(outDir string, args []string) ([]batchJob, error) {
	jobs := make([]batchJob, 0, len(args))
	outputs := make(map[string]string, len(args))
	for _, arg := range args {
		doc, markings, ok := strings.Cut(arg, "=")
		if !ok || doc == "" || markings == "" {
			return nil, fmt.Errorf("invalid pair %q: want DOC=MARKINGS", arg)
		}
		output := filepath.Join(outDir, filepath.Base(doc)+".html")
		if prev, dup := outputs[output]; dup {
			return nil, fmt.Errorf("documents %s and %s both render to %s", prev, doc, output)
		}
		outputs[output] = doc
		jobs = append(jobs, batchJob{doc: doc, markings: markings, output: output})
	}
	return jobs, nil
}

func newBatchCmd(c *cli) *cobra.Command {
	var (
		outDir      string
		jobsLimit   int
		metricsPath string
		features    []string
	)

	cmd := &cobra.Command{
		Use:   "batch associations|features DOC=MARKINGS...",
		Short: "Render many documents from recorded markings",
		Long: `Batch renders every DOC=MARKINGS pair concurrently into the output
directory as <doc base name>.html. The first failing document stops the
batch.

Examples:
  ecco-view batch associations --out site A.java=a.json B.java=b.json
  ecco-view batch features --out site --jobs 2 --metrics metrics.prom A.java=a.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("requires a view and at least one DOC=MARKINGS pair")
			}
			return cobra.OnlyValidArgs(cmd, args[:1])
		},
		ValidArgs: viewKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := parseBatchJobs(outDir, args[1:])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			r, err := c.renderer()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			metrics := view.NewMetrics(reg)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobsLimit, 1))
			for _, job := range jobs {
				g.Go(func() error {
					v, err := c.newView(args[0], view.FileSource{Path: job.markings}, r, features, view.WithMetrics(metrics))
					if err != nil {
						return err
					}
					doc, _, err := readDocument(job.doc)
					if err != nil {
						return fmt.Errorf("%s: %w", job.doc, err)
					}
					page, err := v.Render(ctx, doc, lsp.FilePathToURI(job.doc))
					if err != nil {
						return fmt.Errorf("%s: %w", job.doc, err)
					}
					return c.writeOutput(job.output, page)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if metricsPath != "" {
				if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			fmt.Fprintf(c.stdout, "rendered %d documents to %s\n", len(jobs), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().IntVar(&jobsLimit, "jobs", runtime.NumCPU(), "Documents rendered in parallel")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "Write render metrics in Prometheus text format to this file")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Restrict the features view to these features")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
