package function

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1+2", 3},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"10 % 3", 1},
		{"2 ** 10", 1024},
		{"2 ** 3 ** 2", 512}, // right associative
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"1.5 * 2", 3},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evalExpression(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvalExpressionErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"1 +",
		"(1 + 2",
		"1 / 0",
		"7 % 0",
		"abc",
		"1 + x",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := evalExpression(expr)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestCalculatorHandler(t *testing.T) {
	h := &calculatorHandler{}

	result, err := h.Execute(context.Background(), map[string]any{"expression": "6 * 7"})
	require.NoError(t, err)
	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 42.0, payload["result"], 1e-9)

	_, err = h.Execute(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCurrentTimeHandler(t *testing.T) {
	h := &currentTimeHandler{}

	result, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, payload["time"])
	assert.Equal(t, "UTC", payload["timezone"])

	result, err = h.Execute(context.Background(), map[string]any{"format": "2006-01-02"})
	require.NoError(t, err)
	payload = result.(map[string]any)
	assert.Len(t, payload["time"], len("2006-01-02"))
}
