package lsp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/logging"
)

func TestTransport_Call(t *testing.T) {
	server, conn := newFakeServer(t, func(method string, params json.RawMessage) (any, *RPCError) {
		return map[string]string{"echo": method}, nil
	})

	transport := NewTransport(conn, conn, conn, logging.Nop())
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	transport.Start(ctx)

	var result map[string]string
	if err := transport.Call(ctx, "test/method", map[string]int{"x": 1}, &result); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result["echo"] != "test/method" {
		t.Errorf("result = %v, want echo of method", result)
	}

	methods, params := server.received()
	if len(methods) != 1 || methods[0] != "test/method" {
		t.Errorf("server received %v", methods)
	}
	if string(params[0]) != `{"x":1}` {
		t.Errorf("params = %s", params[0])
	}
}

func TestTransport_CallRPCError(t *testing.T) {
	_, conn := newFakeServer(t, func(method string, params json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: CodeMethodNotFound, Message: "no such method"}
	})

	transport := NewTransport(conn, conn, conn, logging.Nop())
	defer transport.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	transport.Start(ctx)

	err := transport.Call(ctx, "missing", nil, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Call() error = %v, want *RPCError", err)
	}
	if rpcErr.Code != CodeMethodNotFound {
		t.Errorf("Code = %d, want %d", rpcErr.Code, CodeMethodNotFound)
	}
}

func TestTransport_CallContextCancelled(t *testing.T) {
	_, conn := newFakeServer(t, func(method string, params json.RawMessage) (any, *RPCError) {
		return nil, nil
	})

	transport := NewTransport(conn, conn, conn, logging.Nop())
	defer transport.Close()
	transport.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := transport.Call(ctx, "slow", nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Call() error = %v, want DeadlineExceeded", err)
	}
}

func TestTransport_NotStartedAndClosed(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	transport := NewTransport(clientConn, clientConn, clientConn, logging.Nop())
	if err := transport.Call(context.Background(), "x", nil, nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Call() before Start error = %v, want ErrNotStarted", err)
	}

	if err := transport.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !transport.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := transport.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := transport.Call(context.Background(), "x", nil, nil); !errors.Is(err, ErrShutdown) {
		t.Errorf("Call() after Close error = %v, want ErrShutdown", err)
	}
	if err := transport.Notify("x", nil); !errors.Is(err, ErrShutdown) {
		t.Errorf("Notify() after Close error = %v, want ErrShutdown", err)
	}
}

func TestTransport_ServerHangupFailsPendingCall(t *testing.T) {
	serverConn, clientConn := net.Pipe()

	transport := NewTransport(clientConn, clientConn, clientConn, logging.Nop())
	transport.Start(context.Background())

	go func() {
		// Read the request, then hang up without answering.
		readFrame(bufioReader(serverConn))
		serverConn.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := transport.Call(ctx, "x", nil, nil)
	if !errors.Is(err, ErrShutdown) {
		t.Errorf("Call() error = %v, want ErrShutdown", err)
	}
	select {
	case <-transport.Done():
	case <-time.After(time.Second):
		t.Error("transport not closed after server hangup")
	}
}

func TestTransport_Notifications(t *testing.T) {
	server, conn := newFakeServer(t, func(method string, params json.RawMessage) (any, *RPCError) {
		return nil, nil
	})

	transport := NewTransport(conn, conn, conn, logging.Nop())
	defer transport.Close()
	transport.Start(context.Background())

	got := make(chan string, 2)
	transport.OnNotification("window/logMessage", func(method string, params json.RawMessage) {
		got <- method + " " + string(params)
	})
	transport.OnNotification("*", func(method string, params json.RawMessage) {
		got <- "wildcard " + method
	})

	// A malformed frame must not stop the read loop.
	fmt.Fprint(server.conn, "Content-Type: text/plain\r\n\r\n")
	server.write(map[string]any{"jsonrpc": "2.0", "method": "window/logMessage", "params": map[string]int{"type": 3}})
	server.write(map[string]any{"jsonrpc": "2.0", "method": "other/thing"})

	want := map[string]bool{`window/logMessage {"type":3}`: true, "wildcard other/thing": true}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-got:
			if !want[msg] {
				t.Errorf("unexpected notification %q", msg)
			}
			delete(want, msg)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notifications, missing %v", want)
		}
	}

	if err := transport.Notify("client/ping", nil); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if methods, _ := server.received(); len(methods) == 1 && methods[0] == "client/ping" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("server never received client/ping")
}
