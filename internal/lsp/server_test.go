package lsp

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// fakeServer answers framed JSON-RPC requests on one end of a net.Pipe.
type fakeServer struct {
	conn    net.Conn
	reader  *bufio.Reader
	mu      sync.Mutex
	methods []string
	params  []json.RawMessage
	handler func(method string, params json.RawMessage) (any, *RPCError)
}

func newFakeServer(t *testing.T, handler func(method string, params json.RawMessage) (any, *RPCError)) (*fakeServer, net.Conn) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	s := &fakeServer{conn: serverConn, reader: bufio.NewReader(serverConn), handler: handler}
	go s.serve()
	t.Cleanup(func() { serverConn.Close() })
	return s, clientConn
}

func (s *fakeServer) serve() {
	for {
		body, err := readFrame(s.reader)
		if err != nil {
			return
		}
		var req struct {
			ID     *int64          `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return
		}
		s.mu.Lock()
		s.methods = append(s.methods, req.Method)
		s.params = append(s.params, req.Params)
		s.mu.Unlock()

		if req.ID == nil {
			continue
		}
		result, rpcErr := s.handler(req.Method, req.Params)
		if result == nil && rpcErr == nil {
			continue // never answer
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": *req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		if err := s.write(resp); err != nil {
			return
		}
	}
}

func (s *fakeServer) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.conn, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}

func (s *fakeServer) received() ([]string, []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...), append([]json.RawMessage(nil), s.params...)
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	length := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			length, _ = strconv.Atoi(v)
		}
	}
	body := make([]byte, length)
	_, err := io.ReadFull(r, body)
	return body, err
}

func bufioReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}
