package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/lsp"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/aggregate"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/html"
)

// Kind names a view.
type Kind string

const (
	KindAssociations Kind = "associations"
	KindFeatures     Kind = "features"
)

// FeatureSeparator joins the features of a fragment into its marking key.
const FeatureSeparator = ", "

// Kinds returns the available view kinds.
func Kinds() []Kind {
	return []Kind{KindAssociations, KindFeatures}
}

// ParseKind parses a view kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (want associations or features)", s)
}

// Option configures a View.
type Option func(*options)

type options struct {
	deriver  color.Deriver
	renderer *html.Renderer
	logger   *logging.Logger
	metrics  *Metrics
	features []string
}

// WithDeriver sets the marking color derivation.
func WithDeriver(d color.Deriver) Option {
	return func(o *options) {
		o.deriver = d
	}
}

// WithRenderer sets the HTML renderer.
func WithRenderer(r *html.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithFeatures restricts a features view to the named features.
// Associations views ignore it.
func WithFeatures(names ...string) Option {
	return func(o *options) {
		o.features = names
	}
}

// fetchFunc loads the sparse marking of a document and the lookup for its
// keys.
type fetchFunc func(ctx context.Context, uri lsp.DocumentURI) ([]marking.Fragment[string], aggregate.Lookup[string], error)

// View turns server markings into a colored HTML page. It is safe for
// concurrent use.
type View struct {
	kind     Kind
	fetch    fetchFunc
	renderer *html.Renderer
	logger   *logging.Logger
	metrics  *Metrics
}

// New creates the view of the given kind.
func New(kind Kind, src Source, opts ...Option) (*View, error) {
	switch kind {
	case KindAssociations:
		return Associations(src, opts...)
	case KindFeatures:
		return Features(src, opts...)
	}
	return nil, fmt.Errorf("unknown view %q", kind)
}

// Associations creates a view that marks each fragment with the id of its
// association. The legend describes an association by its condition.
func Associations(src Source, opts ...Option) (*View, error) {
	o := buildOptions(opts)
	fetch := func(ctx context.Context, uri lsp.DocumentURI) ([]marking.Fragment[string], aggregate.Lookup[string], error) {
		resp, err := src.DocumentAssociations(ctx, uri)
		if err != nil {
			return nil, nil, err
		}
		sparse, conditions := AssociationMarkings(resp)
		lookup := func(id string) (string, color.Color) {
			return conditions[id], o.deriver.Derive(id, false)
		}
		return sparse, lookup, nil
	}
	return newView(KindAssociations, fetch, o)
}

// Features creates a view that marks each fragment with the joined list
// of its features, colored with the dark variant. Fragments without
// features stay unmarked.
func Features(src Source, opts ...Option) (*View, error) {
	o := buildOptions(opts)
	fetch := func(ctx context.Context, uri lsp.DocumentURI) ([]marking.Fragment[string], aggregate.Lookup[string], error) {
		resp, err := src.DocumentFeatures(ctx, uri, o.features)
		if err != nil {
			return nil, nil, err
		}
		lookup := func(key string) (string, color.Color) {
			return key, o.deriver.Derive(key, true)
		}
		return FeatureMarkings(resp), lookup, nil
	}
	return newView(KindFeatures, fetch, o)
}

func buildOptions(opts []Option) options {
	o := options{deriver: color.DefaultDeriver()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newView(kind Kind, fetch fetchFunc, o options) (*View, error) {
	r := o.renderer
	if r == nil {
		var err error
		if r, err = html.New(); err != nil {
			return nil, err
		}
	}
	return &View{
		kind:     kind,
		fetch:    fetch,
		renderer: r,
		logger:   logging.OrDefault(o.logger).WithComponent("view").With("view", string(kind)),
		metrics:  o.metrics,
	}, nil
}

// Kind returns the kind of the view.
func (v *View) Kind() Kind {
	return v.kind
}

// Markings fetches the markings of the document at uri and completes them
// against doc.
func (v *View) Markings(ctx context.Context, doc marking.Document, uri lsp.DocumentURI) ([]marking.Fragment[string], error) {
	complete, _, err := v.markings(ctx, v.logger, doc, uri)
	return complete, err
}

// Render fetches, completes and renders the markings of the document at
// uri. Errors come from the source or from malformed fragments; once the
// marking is complete a page is always produced.
func (v *View) Render(ctx context.Context, doc marking.Document, uri lsp.DocumentURI) (string, error) {
	start := time.Now()
	logger := v.logger.With("request", uuid.NewString()[:8])

	complete, lookup, err := v.markings(ctx, logger, doc, uri)
	if err != nil {
		return "", err
	}

	lines, legend := aggregate.Aggregate(doc, complete, lookup)
	page := v.renderer.WithLogger(logger).Render(doc, lines, legend.Swatches())

	elapsed := time.Since(start)
	v.metrics.recordRender(v.kind, len(complete), elapsed)
	logger.Debug("rendered document",
		"uri", uri,
		"lines", doc.LineCount(),
		"fragments", len(complete),
		"legend", legend.Len(),
		"elapsed", elapsed)
	return page, nil
}

func (v *View) markings(ctx context.Context, logger *logging.Logger, doc marking.Document, uri lsp.DocumentURI) ([]marking.Fragment[string], aggregate.Lookup[string], error) {
	sparse, lookup, err := v.fetch(ctx, uri)
	if err != nil {
		v.metrics.recordFailure(v.kind, StageFetch)
		logger.Warn("fetching markings failed", "uri", uri, "err", err)
		return nil, nil, fmt.Errorf("fetch %s for %s: %w", v.kind, uri, err)
	}

	complete, err := marking.Complete(doc, sparse)
	if err != nil {
		v.metrics.recordFailure(v.kind, StageComplete)
		logger.Warn("completing markings failed", "uri", uri, "err", err)
		return nil, nil, fmt.Errorf("complete %s for %s: %w", v.kind, uri, err)
	}
	return complete, lookup, nil
}

// AssociationMarkings converts an associations response into sparse
// markings keyed by association id, plus the condition of each id.
// Fragments without an association are unmarked. The first condition seen
// for an id wins.
func AssociationMarkings(resp *lsp.DocumentAssociationsResponse) ([]marking.Fragment[string], map[string]string) {
	sparse := make([]marking.Fragment[string], 0, len(resp.Fragments))
	conditions := make(map[string]string)
	for _, f := range resp.Fragments {
		r := f.Range.ToMarking()
		if f.Association == nil {
			sparse = append(sparse, marking.Unmarked[string](r))
			continue
		}
		id := f.Association.ID
		if _, ok := conditions[id]; !ok {
			conditions[id] = f.Association.Condition
		}
		sparse = append(sparse, marking.Marked(r, id))
	}
	return sparse, conditions
}

// FeatureMarkings converts a features response into sparse markings keyed
// by the joined feature list. Fragments without features are unmarked.
func FeatureMarkings(resp *lsp.DocumentFeaturesResponse) []marking.Fragment[string] {
	sparse := make([]marking.Fragment[string], 0, len(resp.Fragments))
	for _, f := range resp.Fragments {
		r := f.Range.ToMarking()
		if len(f.Features) == 0 {
			sparse = append(sparse, marking.Unmarked[string](r))
			continue
		}
		sparse = append(sparse, marking.Marked(r, strings.Join(f.Features, FeatureSeparator)))
	}
	return sparse
}
