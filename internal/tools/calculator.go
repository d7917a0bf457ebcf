// Package tools contains the built-in tool implementations: arithmetic,
// workspace file access and host statistics.
package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/khoslan/toolbox"
)

// Calculator performs basic arithmetic on two operands.
type Calculator struct{}

// NewCalculator creates the calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Name() string {
	return "calculator"
}

func (c *Calculator) Description() string {
	return "Performs basic arithmetic operations: add, subtract, multiply, divide"
}

func (c *Calculator) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"operation": {
				Type:        "string",
				Enum:        []any{"add", "subtract", "multiply", "divide"},
				Description: "The arithmetic operation to perform",
			},
			"a": {
				Type:        "number",
				Description: "The first operand",
			},
			"b": {
				Type:        "number",
				Description: "The second operand",
			},
		},
		Required: []string{"operation", "a", "b"},
	}
}

// calculationResult echoes the operation and operands next to the result.
type calculationResult struct {
	Operation string   `json:"operation"`
	Operands  operands `json:"operands"`
	Result    float64  `json:"result"`
}

type operands struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func (c *Calculator) Call(ctx context.Context, args map[string]any) (*toolbox.Result, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return toolbox.Fail("missing or invalid 'operation' argument"), nil
	}

	a, err := toFloat64(args["a"])
	if err != nil {
		return toolbox.Fail(fmt.Sprintf("invalid 'a' argument: %v", err)), nil
	}
	b, err := toFloat64(args["b"])
	if err != nil {
		return toolbox.Fail(fmt.Sprintf("invalid 'b' argument: %v", err)), nil
	}

	var result float64
	switch operation {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return toolbox.Fail("invalid operation: division by zero"), nil
		}
		result = a / b
	default:
		return toolbox.Fail(fmt.Sprintf("unknown operation: %q", operation)), nil
	}

	return toolbox.Ok(calculationResult{
		Operation: operation,
		Operands:  operands{A: a, B: b},
		Result:    result,
	}), nil
}

// toFloat64 accepts the numeric shapes JSON decoding and direct in-process
// calls produce.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
