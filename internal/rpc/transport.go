package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rcliao/harbour/internal/domain"
	"github.com/rcliao/harbour/internal/log"
)

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Application error codes
const (
	CodeValidation         = -32001
	CodeNotFound           = -32002
	CodeBackendUnavailable = -32003
	CodeNoValidTasks       = -32004
	CodeStaleResponse      = -32005
	CodeRateLimited        = -32006
	CodeInvalidImport      = -32007
	CodeUnknownStrategy    = -32008
)

// Handler executes one named command. *Server is the production Handler.
type Handler interface {
	HandleCommand(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Transport serves JSON-RPC 2.0 over a line-delimited stream, normally
// stdin/stdout. Requests are handled in arrival order on the reading
// goroutine, except Async methods, which answer whenever the scoring service
// does.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	server Handler
	logger log.Logger

	writeMu sync.Mutex
	pending sync.WaitGroup
}

func NewTransport(server Handler, r io.Reader, w io.Writer, logger log.Logger) *Transport {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
		server: server,
		logger: logger,
	}
}

// Serve reads requests until the stream ends or the client sends exit. It
// returns only after every async request has been answered.
func (t *Transport) Serve(ctx context.Context) error {
	defer t.pending.Wait()

	done := make(chan struct{})
	defer close(done)

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		for {
			line, err := t.reader.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				t.logger.Debugf(ctx, "client disconnected")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		case line := <-lines:
			if stop := t.handleLine(ctx, line); stop {
				return nil
			}
		}
	}
}

// handleLine processes one request. It reports true when the client asked
// the server to exit.
func (t *Transport) handleLine(ctx context.Context, line []byte) (stop bool) {
	var req JSONRPCRequest
	defer t.recoverPanic(ctx, &req)

	if err := json.Unmarshal(line, &req); err != nil {
		t.send(ctx, &JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &JSONRPCError{Code: ParseError, Message: "Parse error", Data: err.Error()},
		})
		return false
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		t.send(ctx, &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &JSONRPCError{Code: InvalidRequest, Message: "Invalid Request - JSON-RPC 2.0 required"},
		})
		return false
	}

	switch req.Method {
	case "initialize":
		t.reply(ctx, req, t.handleInitialize(), nil)
		return false
	case "shutdown":
		t.reply(ctx, req, nil, nil)
		return false
	case "exit":
		return true
	}

	if Async(req.Method) {
		t.pending.Add(1)
		go func() {
			defer t.pending.Done()
			defer t.recoverPanic(ctx, &req)
			result, err := t.server.HandleCommand(ctx, req.Method, req.Params)
			t.reply(ctx, req, result, err)
		}()
		return false
	}

	result, err := t.server.HandleCommand(ctx, req.Method, req.Params)
	t.reply(ctx, req, result, err)
	return false
}

// recoverPanic turns a panic while handling req into an internal error reply,
// so one bad request cannot take the server down. Must be deferred directly.
func (t *Transport) recoverPanic(ctx context.Context, req *JSONRPCRequest) {
	r := recover()
	if r == nil {
		return
	}
	t.logger.Errorf(ctx, "panic recovered while handling %q: %v", req.Method, r)
	if req.Method != "" && req.ID == nil {
		return
	}
	t.send(ctx, &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Error:   &JSONRPCError{Code: InternalError, Message: "Internal server error"},
	})
}

func (t *Transport) handleInitialize() any {
	return map[string]any{
		"serverInfo": map[string]any{
			"name":    "harbour",
			"version": "1.0.0",
		},
		"methods": Methods,
	}
}

// reply answers req unless it is a notification.
func (t *Transport) reply(ctx context.Context, req JSONRPCRequest, result any, err error) {
	if req.ID == nil {
		if err != nil {
			t.logger.Warnf(ctx, "notification %s failed: %v", req.Method, err)
		}
		return
	}

	resp := &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID}
	if err != nil {
		resp.Error = errorFor(err)
	} else {
		resp.Result = result
		if resp.Result == nil {
			resp.Result = struct{}{}
		}
	}
	t.send(ctx, resp)
}

func (t *Transport) send(ctx context.Context, resp *JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		t.logger.Errorf(ctx, "failed to marshal response: %v", err)
		data, _ = json.Marshal(&JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   &JSONRPCError{Code: InternalError, Message: "failed to encode result"},
		})
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		if strings.Contains(err.Error(), "broken pipe") {
			t.logger.Debugf(ctx, "client went away before the response was written")
			return
		}
		t.logger.Errorf(ctx, "failed to write response: %v", err)
	}
}

// errorFor maps a command error to a JSON-RPC error object.
func errorFor(err error) *JSONRPCError {
	var (
		verr *domain.ValidationError
		perr *domain.ParseError
		serr *domain.ShapeError
		pe   *ParamsError
	)

	switch {
	case errors.As(err, &verr):
		data := map[string]any{"field": verr.Field}
		if verr.Record > 0 {
			data["record"] = verr.Record
		}
		return &JSONRPCError{Code: CodeValidation, Message: err.Error(), Data: data}
	case errors.As(err, &pe):
		return &JSONRPCError{Code: InvalidParams, Message: err.Error()}
	case errors.Is(err, ErrMethodNotFound):
		return &JSONRPCError{Code: MethodNotFound, Message: err.Error()}
	case errors.As(err, &perr), errors.As(err, &serr), errors.Is(err, domain.ErrEmptyImport):
		return &JSONRPCError{Code: CodeInvalidImport, Message: err.Error()}
	case errors.Is(err, domain.ErrTaskNotFound):
		return &JSONRPCError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrRateLimited):
		return &JSONRPCError{Code: CodeRateLimited, Message: err.Error()}
	case errors.Is(err, domain.ErrBackendUnavailable):
		return &JSONRPCError{Code: CodeBackendUnavailable, Message: domain.ErrBackendUnavailable.Error(), Data: err.Error()}
	case errors.Is(err, domain.ErrNoValidTasks):
		return &JSONRPCError{Code: CodeNoValidTasks, Message: err.Error()}
	case errors.Is(err, domain.ErrStaleResponse):
		return &JSONRPCError{Code: CodeStaleResponse, Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownStrategy):
		return &JSONRPCError{Code: CodeUnknownStrategy, Message: err.Error()}
	default:
		return &JSONRPCError{Code: InternalError, Message: err.Error()}
	}
}
