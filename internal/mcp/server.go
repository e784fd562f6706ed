package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// maxMessageSize bounds a single framed request.
const maxMessageSize = 10 * 1024 * 1024

// Server reads JSON-RPC requests from its input one line at a time and
// writes responses to its output. Calls are served strictly
// sequentially: one in-flight request per process.
type Server struct {
	dispatcher *Dispatcher
	info       ServerInfo
	in         io.Reader
	out        io.Writer
	logger     *slog.Logger
}

// NewServer creates a Server bound to the given streams. In production
// they are stdin and stdout; stdout carries nothing but protocol
// frames.
func NewServer(dispatcher *Dispatcher, info ServerInfo, in io.Reader, out io.Writer, logger *slog.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		info:       info,
		in:         in,
		out:        out,
		logger:     logger,
	}
}

// Run serves until the input closes or the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		s.handleMessage(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read transport: %w", err)
	}
	return nil
}

func (s *Server) handleMessage(ctx context.Context, line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("unparseable message", "error", err)
		s.writeResponse(&Response{
			JSONRPC: Version,
			ID:      json.RawMessage("null"),
			Error:   &RPCError{Code: CodeParseError, Message: "parse error"},
		})
		return
	}

	if req.IsNotification() {
		// notifications/initialized and friends need no answer.
		return
	}

	resp := &Response{JSONRPC: Version, ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      s.info,
		}
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = s.dispatcher.ListTools()
	case "tools/call":
		var params CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "invalid tool call parameters"}
			break
		}
		result, rpcErr := s.dispatcher.CallTool(ctx, params.Name, params.Arguments)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &RPCError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}

	s.writeResponse(resp)
}

func (s *Server) writeResponse(resp *Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		return
	}
	payload = append(payload, '\n')
	if _, err := s.out.Write(payload); err != nil {
		s.logger.Error("write response", "error", err)
	}
}
