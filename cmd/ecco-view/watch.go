package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/view"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/watch"
)

func newWatchCmd(c *cli) *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "watch associations|features",
		Short: "Re-render a document whenever it or its markings change",
		Long: `Watch renders the document once and then again every time the document
or the markings file is saved. Saves that leave the content unchanged are
skipped. Rendering errors are logged and watching continues.

Examples:
  ecco-view watch associations --doc Main.java --markings assoc.json -o main.html
  ecco-view watch features --doc Main.java --server localhost:9090 -o main.html`,
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

			files := []string{in.doc}
			if in.markings != "" {
				files = append(files, in.markings)
			}
			w, err := watch.New(c.cfg.Watch.Debounce.Std(), files...)
			if err != nil {
				return err
			}
			defer w.Close()

			return c.watchLoop(ctx, w, v, in, output)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// watchLoop renders once, then on every change event, until ctx is done.
func (c *cli) watchLoop(ctx context.Context, w *watch.Watcher, v *view.View, in inputFlags, output string) error {
	logger := c.logger.WithComponent("watch")
	var tracker watch.Tracker

	refresh := func() {
		if err := c.refresh(ctx, &tracker, v, in, output); err != nil {
			logger.Error("render failed", "doc", in.doc, "err", err)
		}
	}

	logger.Info("watching", "files", w.Files(), "output", output)
	refresh()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.Debug("change detected", "paths", ev.Paths)
			refresh()
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// refresh renders the document. With a markings file every input is
// local, so a render whose inputs match the previous one is skipped.
func (c *cli) refresh(ctx context.Context, tracker *watch.Tracker, v *view.View, in inputFlags, output string) error {
	doc, docBytes, err := readDocument(in.doc)
	if err != nil {
		return err
	}
	if in.markings != "" {
		markings, err := os.ReadFile(in.markings)
		if err != nil {
			return err
		}
		if !tracker.Changed(docBytes, markings) {
			c.logger.Debug("inputs unchanged, skipping render", "doc", in.doc)
			return nil
		}
	}

	page, err := v.Render(ctx, doc, lsp.FilePathToURI(in.doc))
	if err == nil {
		err = c.writeOutput(output, page)
	}
	if err != nil {
		tracker.Reset()
		return err
	}
	c.logger.Info("rendered", "doc", in.doc, "output", output)
	return nil
}
