package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
)

// DefaultRequestTimeout bounds a single ECCO request.
const DefaultRequestTimeout = 10 * time.Second

// EccoClient issues ECCO extension requests over a Transport.
type EccoClient struct {
	transport *Transport
	timeout   time.Duration
	logger    *logging.Logger
}

// ClientOption configures the client.
type ClientOption func(*EccoClient)

// WithRequestTimeout sets the per-request timeout. Zero disables it.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *EccoClient) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *EccoClient) {
		c.logger = l
	}
}

// NewEccoClient creates a client over a started transport.
func NewEccoClient(t *Transport, opts ...ClientOption) *EccoClient {
	c := &EccoClient{
		transport: t,
		timeout:   DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger).WithComponent("ecco-client")
	return c
}

// Connect creates a client speaking over rwc and starts its read loop.
// Closing the client closes rwc.
func Connect(ctx context.Context, rwc io.ReadWriteCloser, opts ...ClientOption) *EccoClient {
	c := NewEccoClient(nil, opts...)
	c.transport = NewTransport(rwc, rwc, rwc, c.logger)
	c.transport.Start(ctx)
	return c
}

// Dial connects to an ECCO server listening on a TCP address.
func Dial(ctx context.Context, addr string, opts ...ClientOption) (*EccoClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial ecco server %s: %w", addr, err)
	}
	// The read loop outlives the dial context.
	return Connect(context.WithoutCancel(ctx), conn, opts...), nil
}

// Close shuts down the transport.
func (c *EccoClient) Close() error {
	return c.transport.Close()
}

// DocumentAssociations requests the association of every fragment of a document.
func (c *EccoClient) DocumentAssociations(ctx context.Context, uri DocumentURI) (*DocumentAssociationsResponse, error) {
	var resp DocumentAssociationsResponse
	params := DocumentAssociationsParams{DocumentURI: uri}
	if err := c.call(ctx, MethodDocumentAssociations, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DocumentFeatures requests the features of every fragment of a document,
// restricted to features when it is non-nil.
func (c *EccoClient) DocumentFeatures(ctx context.Context, uri DocumentURI, features []string) (*DocumentFeaturesResponse, error) {
	var resp DocumentFeaturesResponse
	params := DocumentFeaturesParams{DocumentURI: uri, RequestedFeatures: features}
	if err := c.call(ctx, MethodDocumentFeatures, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Commit records the working tree as a new commit of configuration.
func (c *EccoClient) Commit(ctx context.Context, configuration, message string) error {
	params := CommitParams{Configuration: configuration, Message: message}
	return c.call(ctx, MethodCommit, params, nil)
}

// Checkout replaces the working tree with the variant of configuration.
func (c *EccoClient) Checkout(ctx context.Context, configuration string) error {
	return c.call(ctx, MethodCheckout, CheckoutParams{Configuration: configuration}, nil)
}

// RepositoryInfo requests the repository state.
func (c *EccoClient) RepositoryInfo(ctx context.Context) (*RepositoryInfo, error) {
	var resp RepositoryInfo
	if err := c.call(ctx, MethodRepositoryInfo, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *EccoClient) call(ctx context.Context, method string, params, result any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.transport.Call(ctx, method, params, result)
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if err != nil {
		c.logger.Warn("request failed", "method", method, "err", err, "elapsed", time.Since(start))
		return &RequestError{Method: method, Err: err}
	}
	c.logger.Debug("request done", "method", method, "elapsed", time.Since(start))
	return nil
}
