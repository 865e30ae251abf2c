package lsp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
)

const associationsJSON = `{"fragments":[
	{"range":{"start":{"line":0,"character":1},"end":{"line":0,"character":2}},"association":{"id":"a1","condition":"A & B"}},
	{"range":{"start":{"line":1,"character":0},"end":{"line":1,"character":4}},"association":null}
]}`

const featuresJSON = `{"fragments":[
	{"range":{"start":{"line":2,"character":0},"end":{"line":2,"character":2}},"features":["base","violin"]}
]}`

func eccoHandler(method string, params json.RawMessage) (any, *RPCError) {
	switch method {
	case MethodDocumentAssociations:
		return json.RawMessage(associationsJSON), nil
	case MethodDocumentFeatures:
		return json.RawMessage(featuresJSON), nil
	case MethodCommit, MethodCheckout:
		var p CommitParams
		if err := json.Unmarshal(params, &p); err != nil || p.Configuration == "" {
			return nil, &RPCError{Code: CodeInvalidParams, Message: "configuration is required"}
		}
		return json.RawMessage("null"), nil
	case MethodRepositoryInfo:
		return RepositoryInfo{
			BaseDir:       "/repo",
			Configuration: "base.1, violin.2",
			Features:      []FeatureInfo{{ID: "f1", Name: "base"}, {ID: "f2", Name: "violin"}},
		}, nil
	}
	return nil, &RPCError{Code: CodeMethodNotFound, Message: method}
}

func TestEccoClient_DocumentAssociations(t *testing.T) {
	server, conn := newFakeServer(t, eccoHandler)
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	resp, err := client.DocumentAssociations(context.Background(), "file:///song.ly")
	require.NoError(t, err)
	require.Len(t, resp.Fragments, 2)
	assert.Equal(t, &AssociationInfo{ID: "a1", Condition: "A & B"}, resp.Fragments[0].Association)
	assert.Nil(t, resp.Fragments[1].Association)
	assert.Equal(t, marking.NewRange(0, 1, 0, 2), resp.Fragments[0].Range.ToMarking())

	methods, params := server.received()
	require.Equal(t, []string{MethodDocumentAssociations}, methods)
	assert.JSONEq(t, `{"documentUri":"file:///song.ly"}`, string(params[0]))
}

func TestEccoClient_DocumentFeatures(t *testing.T) {
	server, conn := newFakeServer(t, eccoHandler)
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	resp, err := client.DocumentFeatures(context.Background(), "file:///song.ly", []string{"violin"})
	require.NoError(t, err)
	require.Len(t, resp.Fragments, 1)
	assert.Equal(t, []string{"base", "violin"}, resp.Fragments[0].Features)

	resp, err = client.DocumentFeatures(context.Background(), "file:///song.ly", nil)
	require.NoError(t, err)
	require.Len(t, resp.Fragments, 1)

	_, params := server.received()
	require.Len(t, params, 2)
	assert.JSONEq(t, `{"documentUri":"file:///song.ly","requestedFeatures":["violin"]}`, string(params[0]))
	assert.JSONEq(t, `{"documentUri":"file:///song.ly","requestedFeatures":null}`, string(params[1]))
}

func TestEccoClient_RepositoryInfo(t *testing.T) {
	_, conn := newFakeServer(t, eccoHandler)
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	info, err := client.RepositoryInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/repo", info.BaseDir)
	assert.Equal(t, []string{"base", "violin"}, info.FeatureNames())
}

func TestEccoClient_Commit(t *testing.T) {
	server, conn := newFakeServer(t, eccoHandler)
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	require.NoError(t, client.Commit(context.Background(), "base.1, violin.2", "add violin part"))

	err := client.Commit(context.Background(), "", "no configuration")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, MethodCommit, reqErr.Method)

	methods, params := server.received()
	require.Equal(t, []string{MethodCommit, MethodCommit}, methods)
	assert.JSONEq(t, `{"configuration":"base.1, violin.2","message":"add violin part"}`, string(params[0]))
}

func TestEccoClient_Checkout(t *testing.T) {
	server, conn := newFakeServer(t, eccoHandler)
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	require.NoError(t, client.Checkout(context.Background(), "base.1"))

	methods, params := server.received()
	require.Equal(t, []string{MethodCheckout}, methods)
	assert.JSONEq(t, `{"configuration":"base.1"}`, string(params[0]))
}

func TestEccoClient_CheckoutFailed(t *testing.T) {
	_, conn := newFakeServer(t, func(string, json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: CodeRequestFailed, Message: "unknown revision violin.9"}
	})
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	err := client.Checkout(context.Background(), "violin.9")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeRequestFailed, rpcErr.Code)
	assert.ErrorContains(t, err, "unknown revision violin.9")
}

func TestEccoClient_Timeout(t *testing.T) {
	_, conn := newFakeServer(t, func(string, json.RawMessage) (any, *RPCError) { return nil, nil })
	client := Connect(context.Background(), conn,
		WithLogger(logging.Nop()),
		WithRequestTimeout(30*time.Millisecond))
	defer client.Close()

	_, err := client.DocumentAssociations(context.Background(), "file:///x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, MethodDocumentAssociations, reqErr.Method)
}

func TestEccoClient_RPCError(t *testing.T) {
	_, conn := newFakeServer(t, func(string, json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: CodeInternalError, Message: "repository not open", Data: "x"}
	})
	client := Connect(context.Background(), conn, WithLogger(logging.Nop()))
	defer client.Close()

	_, err := client.RepositoryInfo(context.Background())
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "rpc error -32603: repository not open (data: x)", rpcErr.Error())
}

func TestDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		s := &fakeServer{conn: conn, reader: bufioReader(conn), handler: eccoHandler}
		s.serve()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := Dial(ctx, ln.Addr().String(), WithLogger(logging.Nop()))
	require.NoError(t, err)
	defer client.Close()

	info, err := client.RepositoryInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "base.1, violin.2", info.Configuration)
}

func TestDial_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), addr, WithLogger(logging.Nop()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial ecco server")
}

func TestRangeConversion(t *testing.T) {
	r := marking.NewRange(3, 1, 3, 9)
	assert.Equal(t, r, RangeFromMarking(r).ToMarking())
}

func TestFilePathToURI(t *testing.T) {
	assert.Equal(t, DocumentURI(""), FilePathToURI(""))
	assert.Equal(t, DocumentURI("file:///tmp/a%20b.ly"), FilePathToURI("/tmp/a b.ly"))
}
