package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/html"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/view"
)

var (
	errNoSource = errors.New("either --markings or --server (or server.addr in the configuration) is required")
	errNoServer = errors.New("--server (or server.addr in the configuration) is required")
)

// viewArgs accepts exactly one view kind.
var viewArgs = cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)

func viewKinds() []string {
	kinds := view.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// inputFlags selects a document and where its markings come from.
type inputFlags struct {
	doc      string
	markings string
	server   string
	features []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.doc, "doc", "", "Document to render")
	cmd.Flags().StringVar(&f.markings, "markings", "",
		"Recorded server response (JSON) to read markings from")
	cmd.Flags().StringVar(&f.server, "server", "",
		"ECCO server address (host:port); defaults to server.addr")
	cmd.Flags().StringSliceVar(&f.features, "features", nil,
		"Restrict the features view to these features")
	_ = cmd.MarkFlagRequired("doc")
	cmd.MarkFlagsMutuallyExclusive("markings", "server")
}

// source opens the markings source selected by in. The returned close
// function releases a server connection.
func (c *cli) source(ctx context.Context, in inputFlags) (view.Source, func() error, error) {
	if in.markings != "" {
		return view.FileSource{Path: in.markings}, func() error { return nil }, nil
	}

	client, err := c.connect(ctx, in.server)
	if errors.Is(err, errNoServer) {
		return nil, nil, errNoSource
	}
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// connect dials server, falling back to server.addr from the configuration.
func (c *cli) connect(ctx context.Context, server string) (*lsp.EccoClient, error) {
	addr := server
	if addr == "" {
		addr = c.cfg.Server.Addr
	}
	if addr == "" {
		return nil, errNoServer
	}
	return c.dial(ctx, addr)
}

// closeLogged runs closeFn and logs its error.
func (c *cli) closeLogged(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		c.logger.Warn("close failed", "what", what, "err", err)
	}
}

func (c *cli) dial(ctx context.Context, addr string) (*lsp.EccoClient, error) {
	return lsp.Dial(ctx, addr,
		lsp.WithRequestTimeout(c.cfg.Server.RequestTimeout.Std()),
		lsp.WithLogger(c.logger))
}

// renderer builds the HTML renderer from the render configuration.
func (c *cli) renderer() (*html.Renderer, error) {
	opts := []html.Option{
		html.WithTitle(c.cfg.Render.Title),
		html.WithLogger(c.logger),
	}
	if path := c.cfg.Render.BodyTemplate; path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read body template: %w", err)
		}
		opts = append(opts, html.WithBodyTemplate(string(body)))
	}
	return html.New(opts...)
}

// newView creates a view of kind over src configured from the CLI state.
// A nil r makes the view build a default renderer.
func (c *cli) newView(kind string, src view.Source, r *html.Renderer, features []string, extra ...view.Option) (*view.View, error) {
	k, err := view.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	opts := []view.Option{
		view.WithDeriver(c.cfg.Deriver()),
		view.WithRenderer(r),
		view.WithLogger(c.logger),
		view.WithFeatures(features...),
	}
	return view.New(k, src, append(opts, extra...)...)
}

func readDocument(path string) (*marking.TextDocument, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	return marking.NewTextDocument(string(data)), data, nil
}

// writeOutput writes content to path, or to stdout when path is empty
// or "-".
func (c *cli) writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprint(c.stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
