// Package toolbox implements a stdio MCP server exposing a static set of
// schema-described tools and a single readable resource. The protocol loop
// runs over line-delimited JSON-RPC 2.0 on stdin/stdout; diagnostics go to
// stderr.
package toolbox

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is a named, schema-described unit of work. Implementations are
// constructed once at startup and must be safe to call for the process
// lifetime without mutation.
type Tool interface {
	// Name returns the unique identifier used as the registry key.
	Name() string

	// Description returns a human-readable summary for tools/list.
	Description() string

	// InputSchema declares the tool's arguments. Every required name must
	// appear in the schema's property map.
	InputSchema() *jsonschema.Schema

	// Call executes the tool. Expected failures (bad operand, rejected
	// path) come back as an unsuccessful Result; the returned error is
	// reserved for faults the tool does not model.
	Call(ctx context.Context, args map[string]any) (*Result, error)
}

// Result is the outcome of a single tool invocation. Exactly one of Data
// (on success) or Error (on failure) is meaningful.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps a successful payload.
func Ok(data any) *Result {
	return &Result{Success: true, Data: data}
}

// Fail wraps a failure message.
func Fail(msg string) *Result {
	return &Result{Success: false, Error: msg}
}
