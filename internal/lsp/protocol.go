package lsp

import (
	"net/url"
	"path/filepath"
	"runtime"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
)

// DocumentURI represents a URI as used in LSP.
// It is typically a file:// URI.
type DocumentURI string

// Position in a text document expressed as zero-based line and character offset.
// Character offset is measured in UTF-16 code units per the LSP specification.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range in a text document expressed as start and end positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// ToMarking converts the wire range to a marking range.
func (r Range) ToMarking() marking.Range {
	return marking.NewRange(r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// RangeFromMarking converts a marking range to its wire form.
func RangeFromMarking(r marking.Range) Range {
	return Range{
		Start: Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// Method names of the ECCO extension requests.
const (
	MethodDocumentAssociations = "ecco/documentAssociations"
	MethodDocumentFeatures     = "ecco/documentFeatures"
	MethodRepositoryInfo       = "ecco/info"
	MethodCommit               = "ecco/commit"
	MethodCheckout             = "ecco/checkout"
)

// DocumentAssociationsParams is the ecco/documentAssociations request.
type DocumentAssociationsParams struct {
	DocumentURI DocumentURI `json:"documentUri"`
}

// AssociationInfo identifies an association and its presence condition.
type AssociationInfo struct {
	ID        string `json:"id"`
	Condition string `json:"condition"`
}

// FragmentAssociation is one fragment of an associations response.
// Association is nil for fragments the backend could not attribute.
type FragmentAssociation struct {
	Range       Range            `json:"range"`
	Association *AssociationInfo `json:"association"`
}

// DocumentAssociationsResponse is the ecco/documentAssociations result.
type DocumentAssociationsResponse struct {
	Fragments []FragmentAssociation `json:"fragments"`
}

// DocumentFeaturesParams is the ecco/documentFeatures request.
// A nil RequestedFeatures asks for all features.
type DocumentFeaturesParams struct {
	DocumentURI       DocumentURI `json:"documentUri"`
	RequestedFeatures []string    `json:"requestedFeatures"`
}

// FragmentFeatures is one fragment of a features response.
type FragmentFeatures struct {
	Range    Range    `json:"range"`
	Features []string `json:"features"`
}

// DocumentFeaturesResponse is the ecco/documentFeatures result.
type DocumentFeaturesResponse struct {
	Fragments []FragmentFeatures `json:"fragments"`
}

// CommitParams is the ecco/commit request. Configuration is a
// comma-separated list of feature revisions.
type CommitParams struct {
	Configuration string `json:"configuration"`
	Message       string `json:"message"`
}

// CheckoutParams is the ecco/checkout request.
type CheckoutParams struct {
	Configuration string `json:"configuration"`
}

// CommitInfo describes one repository commit.
type CommitInfo struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	Configuration string `json:"configuration"`
	Timestamp     int64  `json:"timestamp"`
}

// FeatureInfo describes one repository feature.
type FeatureInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Revisions   []string `json:"revisions"`
}

// RepositoryInfo is the ecco/info result.
type RepositoryInfo struct {
	BaseDir       string        `json:"baseDir"`
	Configuration string        `json:"configuration"`
	Commits       []CommitInfo  `json:"commits"`
	Features      []FeatureInfo `json:"features"`
}

// FeatureNames returns the names of all repository features in order.
func (r *RepositoryInfo) FeatureNames() []string {
	names := make([]string, len(r.Features))
	for i, f := range r.Features {
		names[i] = f.Name
	}
	return names
}

// FilePathToURI converts a file path to a DocumentURI.
func FilePathToURI(path string) DocumentURI {
	if path == "" {
		return ""
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	path = filepath.ToSlash(path)

	// On Windows, add extra slash for drive letter
	if runtime.GOOS == "windows" && len(path) >= 2 && path[1] == ':' {
		path = "/" + path
	}

	u := &url.URL{
		Scheme: "file",
		Path:   path,
	}
	return DocumentURI(u.String())
}
