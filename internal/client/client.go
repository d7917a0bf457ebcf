// Package client is a small MCP client speaking the same line-delimited
// JSON-RPC framing as the server. It exists for integration tests and
// ad-hoc diagnostics; it connects over any duplex stream, typically one end
// of an in-process pipe.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/exp/jsonrpc2"

	"github.com/khoslan/toolbox"
)

// Client drives a single MCP session.
type Client struct {
	conn        *jsonrpc2.Connection
	logger      *slog.Logger
	initialized bool

	// ServerInfo holds the initialize response once the handshake ran.
	ServerInfo *toolbox.InitializeResult
}

type streamDialer struct {
	rwc io.ReadWriteCloser
}

func (d *streamDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return d.rwc, nil
}

func logHandler(logger *slog.Logger) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, req *jsonrpc2.Request) (any, error) {
		logger.Debug("request received",
			"method", req.Method,
			"id", req.ID.Raw(),
			"params", string(req.Params))
		return nil, jsonrpc2.ErrNotHandled
	}
}

// Connect dials an MCP server over the given stream.
func Connect(ctx context.Context, logger *slog.Logger, rwc io.ReadWriteCloser) (*Client, error) {
	conn, err := jsonrpc2.Dial(
		ctx,
		&streamDialer{rwc: rwc},
		jsonrpc2.ConnectionOptions{
			Handler: logHandler(logger),
			Framer:  toolbox.NewLineFramer(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("dial error: %w", err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Initialize runs the MCP handshake: the initialize request followed by the
// initialized notification.
func (c *Client) Initialize(ctx context.Context) (*toolbox.InitializeResult, error) {
	params := toolbox.InitializeParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo: toolbox.Implementation{
			Name:    "toolbox-test",
			Version: "0.1.0",
		},
	}

	var result toolbox.InitializeResult
	if err := c.conn.Call(ctx, "initialize", params).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("initialize failed: %w", err)
	}

	if err := c.conn.Notify(ctx, "notifications/initialized", nil); err != nil {
		return nil, fmt.Errorf("failed to send initialized notification: %w", err)
	}

	c.ServerInfo = &result
	c.initialized = true
	c.logger.Debug("server initialized",
		"name", result.ServerInfo.Name,
		"version", result.ServerInfo.Version)
	return &result, nil
}

// Ping checks that the server is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.conn.Call(ctx, "ping", nil).Await(ctx, nil); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// ListTools fetches the registered tool definitions.
func (c *Client) ListTools(ctx context.Context) ([]toolbox.ToolDefinition, error) {
	if !c.initialized {
		return nil, fmt.Errorf("client not initialized")
	}
	var result toolbox.ListToolsResult
	if err := c.conn.Call(ctx, "tools/list", struct{}{}).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("list tools failed: %w", err)
	}
	return result.Tools, nil
}

// CallTool executes a tool by name.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*toolbox.CallToolResult, error) {
	if !c.initialized {
		return nil, fmt.Errorf("client not initialized")
	}
	params := toolbox.CallToolParams{Name: name, Arguments: args}
	var result toolbox.CallToolResult
	if err := c.conn.Call(ctx, "tools/call", params).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return &result, nil
}

// ListResources fetches the resource descriptors.
func (c *Client) ListResources(ctx context.Context) ([]toolbox.Resource, error) {
	if !c.initialized {
		return nil, fmt.Errorf("client not initialized")
	}
	var result toolbox.ListResourcesResult
	if err := c.conn.Call(ctx, "resources/list", struct{}{}).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	return result.Resources, nil
}

// ReadResource reads a resource by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) (*toolbox.ReadResourceResult, error) {
	if !c.initialized {
		return nil, fmt.Errorf("client not initialized")
	}
	params := toolbox.ReadResourceParams{URI: uri}
	var result toolbox.ReadResourceResult
	if err := c.conn.Call(ctx, "resources/read", params).Await(ctx, &result); err != nil {
		return nil, fmt.Errorf("read resource failed: %w", err)
	}
	return &result, nil
}

// Call issues a raw request; tests use it to probe unsupported methods.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	return c.conn.Call(ctx, method, params).Await(ctx, result)
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.initialized = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
