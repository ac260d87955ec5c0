// Package lsp implements a Language Server Protocol server for a tern vault.
//
// It reports unresolved references as diagnostics, offers quick fixes that
// create missing notes, serves document and workspace symbols, and opens
// dated notes through the note and jump commands.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/vault"
)

// Server is the tern LSP server.
type Server struct {
	vault    *vault.Vault
	settings *config.Settings
	logger   *slog.Logger
	now      func() time.Time

	// Document management
	documents *DocumentManager

	// Outgoing notifications and requests go through client.
	client client

	// LSP communication
	input  *bufio.Reader
	output io.Writer
	mu     sync.Mutex // Protects output writes

	// Responses to requests the server sent, keyed by request id.
	pendingMu sync.Mutex
	pending   map[string]chan *jsonRPCMessage

	wg       sync.WaitGroup
	shutdown atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithIO sets the protocol streams. The default is stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.input = bufio.NewReader(in)
		s.output = out
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the server's logger. It must not write to the protocol
// output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithSettings sets the vault settings. The default is config.Defaults.
func WithSettings(settings *config.Settings) Option {
	return func(s *Server) { s.settings = settings }
}

// NewServer creates a server for v. The vault is loaded when the client
// reports it is initialized, unless it has been loaded already.
func NewServer(v *vault.Vault, opts ...Option) *Server {
	s := &Server{
		vault:     v,
		now:       time.Now,
		documents: NewDocumentManager(),
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		pending:   make(map[string]chan *jsonRPCMessage),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings == nil {
		s.settings = config.Defaults(v.Root())
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.client == nil {
		s.client = rpcClient{s}
	}
	return s
}

// Run processes messages until the client sends exit or closes the input.
func (s *Server) Run(ctx context.Context) error {
	defer s.wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.logger.Info("lsp: server started", slog.String("vault", s.vault.Root()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := s.readMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, errMalformed) {
			s.logger.Debug("lsp: dropping message", slog.Any("error", err))
			continue
		}
		if err != nil {
			return err
		}

		if msg.Method == "exit" {
			return nil
		}
		s.dispatch(ctx, msg)
	}
}

// errMalformed marks a well-framed message whose body is not valid JSON-RPC.
var errMalformed = errors.New("malformed message")

// readMessage reads one Content-Length framed message.
func (s *Server) readMessage() (*jsonRPCMessage, error) {
	contentLength := -1
	for {
		line, err := s.input.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // Empty line separates header from content
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("bad Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("no Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.input, content); err != nil {
		return nil, err
	}

	var msg jsonRPCMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformed, err)
	}
	return &msg, nil
}

// dispatch routes a message. Responses complete pending server requests,
// requests run concurrently and notifications run in arrival order.
func (s *Server) dispatch(ctx context.Context, msg *jsonRPCMessage) {
	switch {
	case msg.Method == "" && msg.ID != nil:
		s.complete(msg)
	case msg.ID != nil:
		s.logger.Debug("lsp: request", slog.String("method", msg.Method))
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			result, err := s.handleRequest(ctx, msg)
			if err != nil {
				s.logger.Debug("lsp: request failed", slog.String("method", msg.Method), slog.Any("error", err))
				s.reply(msg.ID, nil, err)
				return
			}
			s.reply(msg.ID, result, nil)
		}()
	default:
		s.logger.Debug("lsp: notification", slog.String("method", msg.Method))
		if err := s.handleNotification(ctx, msg); err != nil {
			s.logger.Debug("lsp: notification failed", slog.String("method", msg.Method), slog.Any("error", err))
		}
	}
}

// reply sends the response to a client request.
func (s *Server) reply(id any, result any, err error) {
	var sendErr error
	if err != nil {
		sendErr = s.send(jsonRPCErrorResponse{JSONRPC: "2.0", ID: id, Error: toRPCError(err)})
	} else {
		sendErr = s.send(jsonRPCResultResponse{JSONRPC: "2.0", ID: id, Result: result})
	}
	if sendErr != nil {
		s.logger.Warn("lsp: failed to send response", slog.Any("error", sendErr))
	}
}

// notify sends a notification (no response expected).
func (s *Server) notify(method string, params any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.send(jsonRPCMessage{JSONRPC: "2.0", Method: method, Params: data})
}

// call sends a request to the client and waits for its response.
func (s *Server) call(ctx context.Context, method string, params, result any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	ch := make(chan *jsonRPCMessage, 1)
	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	if err := s.send(jsonRPCMessage{JSONRPC: "2.0", ID: id, Method: method, Params: data}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			return json.Unmarshal(resp.Result, result)
		}
		return nil
	}
}

// complete hands a client response to the request waiting for it.
func (s *Server) complete(msg *jsonRPCMessage) {
	id := fmt.Sprint(msg.ID)
	s.pendingMu.Lock()
	ch, ok := s.pending[id]
	s.pendingMu.Unlock()
	if !ok {
		s.logger.Debug("lsp: response to unknown request", slog.String("id", id))
		return
	}
	select {
	case ch <- msg:
	default:
		s.logger.Debug("lsp: duplicate response", slog.String("id", id))
	}
}

// send writes a JSON-RPC message to the output.
func (s *Server) send(msg any) error {
	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.output, "Content-Length: %d\r\n\r\n", len(content)); err != nil {
		return err
	}
	_, err = s.output.Write(content)
	return err
}

// JSON-RPC types

type jsonRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCResultResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result"`
}

type jsonRPCErrorResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Error   *jsonRPCError `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// JSON-RPC error codes
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

func invalidParams(format string, args ...any) error {
	return &jsonRPCError{Code: codeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func toRPCError(err error) *jsonRPCError {
	var rpcErr *jsonRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return &jsonRPCError{Code: codeInternalError, Message: err.Error()}
}
