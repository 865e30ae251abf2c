package lsp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the ECCO client.
var (
	// ErrNotStarted indicates the transport read loop has not been started.
	ErrNotStarted = errors.New("lsp transport not started")

	// ErrShutdown indicates the transport has been closed.
	ErrShutdown = errors.New("lsp transport shut down")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidResponse indicates an invalid response from the server.
	ErrInvalidResponse = errors.New("invalid response from server")
)

// RPCError represents a JSON-RPC error from the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("rpc error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// JSON-RPC error codes the ECCO server answers with.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeRequestFailed reports a request that was valid but failed on the
	// server, such as a checkout of an unknown revision.
	CodeRequestFailed = -32803
)

// RequestError wraps a failed ECCO request with its method name.
type RequestError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}
