package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorOperations(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	tests := []struct {
		name      string
		operation string
		a, b      float64
		want      float64
	}{
		{"add", "add", 2, 3, 5},
		{"add negatives", "add", -4, -6, -10},
		{"subtract", "subtract", 10, 4, 6},
		{"multiply", "multiply", 6, 7, 42},
		{"multiply by zero", "multiply", 6, 0, 0},
		{"divide", "divide", 9, 3, 3},
		{"divide fractional", "divide", 1, 4, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Call(ctx, map[string]any{
				"operation": tt.operation,
				"a":         tt.a,
				"b":         tt.b,
			})
			require.NoError(t, err)
			require.True(t, result.Success, "unexpected failure: %s", result.Error)

			got, ok := result.Data.(calculationResult)
			require.True(t, ok, "unexpected data type %T", result.Data)
			assert.Equal(t, tt.operation, got.Operation)
			assert.Equal(t, tt.a, got.Operands.A)
			assert.Equal(t, tt.b, got.Operands.B)
			assert.Equal(t, tt.want, got.Result)
		})
	}
}

func TestCalculatorDivideByZero(t *testing.T) {
	calc := NewCalculator()

	result, err := calc.Call(context.Background(), map[string]any{
		"operation": "divide",
		"a":         5.0,
		"b":         0.0,
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "division by zero")
	assert.Nil(t, result.Data)
}

func TestCalculatorUnknownOperation(t *testing.T) {
	calc := NewCalculator()

	result, err := calc.Call(context.Background(), map[string]any{
		"operation": "modulo",
		"a":         5.0,
		"b":         2.0,
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown operation")
	assert.Contains(t, result.Error, "modulo")
}

func TestCalculatorIntegerOperands(t *testing.T) {
	calc := NewCalculator()

	// Direct in-process callers may pass ints instead of float64.
	result, err := calc.Call(context.Background(), map[string]any{
		"operation": "add",
		"a":         2,
		"b":         3,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 5.0, result.Data.(calculationResult).Result)
}

func TestCalculatorMissingOperand(t *testing.T) {
	calc := NewCalculator()

	result, err := calc.Call(context.Background(), map[string]any{
		"operation": "add",
		"a":         1.0,
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "'b'")
}

func TestCalculatorSchema(t *testing.T) {
	schema := NewCalculator().InputSchema()

	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"operation", "a", "b"}, schema.Required)
	for _, name := range schema.Required {
		assert.Contains(t, schema.Properties, name)
	}
}
