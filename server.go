package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/exp/jsonrpc2"
)

// systemInfoURI addresses the one resource this server exposes. Its content
// is computed on demand by re-running the system_info tool.
const systemInfoURI = "file:///system-info"

// serverState tracks the dispatcher lifecycle.
type serverState int

const (
	stateUninitialized serverState = iota
	stateInitializing              // initialize answered, awaiting the client notification
	stateInitialized
	stateClosing
	stateClosed
)

// Server owns the transport channel and routes decoded requests to the tool
// registry and resource handlers. One request is serviced at a time; the
// registry and recorder are the only shared structures.
type Server struct {
	logger   *slog.Logger
	registry *Registry
	recorder UsageRecorder
	info     Implementation

	// FrameLogging enables frame-level debug tracing on the transport.
	// Set before calling Serve.
	FrameLogging bool

	handlers map[string]jsonrpc2.HandlerFunc

	mu    sync.Mutex
	state serverState
}

// NewServer wires a dispatcher around the given registry and recorder. The
// recorder may be NopRecorder{}; it must not be nil.
func NewServer(logger *slog.Logger, registry *Registry, recorder UsageRecorder, info Implementation) *Server {
	s := &Server{
		logger:   logger,
		registry: registry,
		recorder: recorder,
		info:     info,
	}
	s.handlers = map[string]jsonrpc2.HandlerFunc{
		"initialize":                s.handleInitialize,
		"notifications/initialized": s.handleInitialized,
		"ping":                      s.handlePing,
		"tools/list":                s.handleToolsList,
		"tools/call":                s.handleToolsCall,
		"resources/list":            s.handleResourcesList,
		"resources/read":            s.handleResourcesRead,
	}
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects or the
// process receives SIGINT/SIGTERM. Graceful shutdown returns nil.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return s.ServeStream(ctx, NewStream(os.Stdin, os.Stdout))
}

// ServeStream runs the protocol loop over an arbitrary duplex stream. Tests
// use this with an in-process pipe.
func (s *Server) ServeStream(ctx context.Context, stream *Stream) error {
	var framer jsonrpc2.Framer = NewLineFramer()
	if s.FrameLogging {
		framer = &LoggingFramer{Base: framer, Logger: s.logger}
	}

	conn, err := jsonrpc2.Dial(
		ctx,
		stream,
		jsonrpc2.ConnectionOptions{
			Handler: jsonrpc2.HandlerFunc(s.handle),
			Framer:  framer,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to start the server connection: %w", err)
	}

	go func() {
		<-ctx.Done()
		s.setState(stateClosing)
		conn.Close()
	}()

	err = conn.Wait()
	s.setState(stateClosed)
	if err == nil ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, context.Canceled) {
		s.logger.Info("server shut down")
		return nil
	}
	return err
}

func (s *Server) setState(st serverState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateClosed {
		return
	}
	s.state = st
}

func (s *Server) currentState() serverState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// handle routes each incoming JSON-RPC message by method name.
func (s *Server) handle(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	s.logger.Debug("request received",
		"method", r.Method,
		"id", r.ID.Raw(),
		"params", string(r.Params))

	handler, ok := s.handlers[r.Method]
	if !ok {
		if !r.ID.IsValid() {
			// Unknown notifications (e.g. "exit") are ignored.
			return nil, nil
		}
		return nil, jsonrpc2.ErrNotHandled
	}

	if err := s.checkState(r.Method); err != nil {
		return nil, err
	}
	return handler(ctx, r)
}

// checkState enforces the initialize handshake: tool and resource methods
// are only valid once the client has sent its initialized notification.
func (s *Server) checkState(method string) error {
	switch method {
	case "ping":
		return nil
	case "initialize":
		if s.currentState() != stateUninitialized {
			return jsonrpc2.NewError(-32600, "server already initialized")
		}
		return nil
	case "notifications/initialized":
		return nil
	default:
		if s.currentState() != stateInitialized {
			return jsonrpc2.NewError(-32002, "server not initialized")
		}
		return nil
	}
}

func (s *Server) handleInitialize(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	var params InitializeParams
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal initialize params: %w", err)
	}

	s.logger.Info("client connected",
		"name", params.ClientInfo.Name,
		"version", params.ClientInfo.Version,
		"protocolVersion", params.ProtocolVersion)

	s.setState(stateInitializing)

	return InitializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      s.info,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
	}, nil
}

func (s *Server) handleInitialized(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	s.setState(stateInitialized)
	s.logger.Debug("initialization complete")
	return nil, nil
}

func (s *Server) handlePing(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	return struct{}{}, nil
}

func (s *Server) handleToolsList(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	return ListToolsResult{Tools: s.registry.Definitions()}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	var params CallToolParams
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tools/call params: %w", err)
	}

	tool, ok := s.registry.Get(params.Name)
	if !ok {
		return errorResult(fmt.Sprintf("tool not found: %s", params.Name)), nil
	}

	if err := ValidateArguments(tool.InputSchema(), params.Arguments); err != nil {
		return errorResult(err.Error()), nil
	}

	start := time.Now()
	result, err := tool.Call(ctx, params.Arguments)
	if err != nil {
		s.logger.Error("tool execution failed", "tool", params.Name, "error", err)
		return errorResult(err.Error()), nil
	}
	if !result.Success {
		return errorResult(result.Error), nil
	}

	s.record(UsageEntry{
		Tool:      params.Name,
		Arguments: params.Arguments,
		Result:    result,
		Time:      start,
		Duration:  time.Since(start),
	})

	text, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode tool result: %v", err)), nil
	}
	return CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	}, nil
}

func (s *Server) handleResourcesList(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	return ListResourcesResult{Resources: s.resources()}, nil
}

func (s *Server) handleResourcesRead(ctx context.Context, r *jsonrpc2.Request) (any, error) {
	var params ReadResourceParams
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resources/read params: %w", err)
	}

	if params.URI != systemInfoURI {
		return nil, jsonrpc2.NewError(-32002, fmt.Sprintf("resource not found: %s", params.URI))
	}

	tool, ok := s.registry.Get("system_info")
	if !ok {
		return nil, fmt.Errorf("system_info tool is not registered")
	}

	result, err := tool.Call(ctx, map[string]any{"detail": "basic"})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", params.URI, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("failed to read %s: %s", params.URI, result.Error)
	}

	text, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource content: %w", err)
	}

	return ReadResourceResult{
		Contents: []ResourceContents{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     string(text),
		}},
	}, nil
}

// resources returns the static resource descriptors.
func (s *Server) resources() []Resource {
	return []Resource{{
		URI:         systemInfoURI,
		Name:        "System Information",
		Description: "Host platform, uptime and memory statistics",
		MimeType:    "application/json",
	}}
}

// record forwards a usage entry to the recorder. Recorder failure must
// never affect the response, so panics are swallowed here.
func (s *Server) record(entry UsageEntry) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Warn("usage recorder panicked", "panic", p)
		}
	}()
	s.recorder.Record(entry)
}

func errorResult(msg string) CallToolResult {
	return CallToolResult{
		Content: []Content{{Type: "text", Text: "Error: " + msg}},
		IsError: true,
	}
}
