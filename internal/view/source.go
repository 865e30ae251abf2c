package view

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
)

// Source supplies the sparse markings of a document.
// *lsp.EccoClient is a Source.
type Source interface {
	DocumentAssociations(ctx context.Context, uri lsp.DocumentURI) (*lsp.DocumentAssociationsResponse, error)
	DocumentFeatures(ctx context.Context, uri lsp.DocumentURI, features []string) (*lsp.DocumentFeaturesResponse, error)
}

var _ Source = (*lsp.EccoClient)(nil)

// FileSource reads a recorded server response from a JSON file of the
// form {"fragments": [...]}. The file is read on every request, so it may
// change between calls. The document URI is ignored.
type FileSource struct {
	Path string
}

// DocumentAssociations decodes the file as an associations response.
func (s FileSource) DocumentAssociations(ctx context.Context, _ lsp.DocumentURI) (*lsp.DocumentAssociationsResponse, error) {
	var resp lsp.DocumentAssociationsResponse
	if err := s.decode(ctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DocumentFeatures decodes the file as a features response. When features
// is non-nil, each fragment keeps only the requested features.
func (s FileSource) DocumentFeatures(ctx context.Context, _ lsp.DocumentURI, features []string) (*lsp.DocumentFeaturesResponse, error) {
	var resp lsp.DocumentFeaturesResponse
	if err := s.decode(ctx, &resp); err != nil {
		return nil, err
	}
	if features != nil {
		for i := range resp.Fragments {
			resp.Fragments[i].Features = slices.DeleteFunc(resp.Fragments[i].Features, func(f string) bool {
				return !slices.Contains(features, f)
			})
		}
	}
	return &resp, nil
}

func (s FileSource) decode(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("read markings: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode markings %s: %w", s.Path, err)
	}
	return nil
}
