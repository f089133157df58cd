package function

import (
	"context"
	"time"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Builtins returns the compiled-in tool handlers every deployment carries.
func Builtins() []Handler {
	return []Handler{
		&currentTimeHandler{},
		&calculatorHandler{},
	}
}

type currentTimeHandler struct{}

func (h *currentTimeHandler) Name() string { return "get_current_time" }

func (h *currentTimeHandler) Definition() llm.ToolDefinition {
	return BuildDefinition(h.Name(), "Get the current date and time", map[string]Parameter{
		"format": {
			Type:        "string",
			Description: "Go time layout to format the result with (defaults to RFC 3339)",
		},
	})
}

func (h *currentTimeHandler) Execute(_ context.Context, args map[string]any) (any, error) {
	layout := time.RFC3339
	if v, ok := args["format"].(string); ok && v != "" {
		layout = v
	}
	now := time.Now().UTC()
	return map[string]any{
		"time":     now.Format(layout),
		"timezone": "UTC",
	}, nil
}

type calculatorHandler struct{}

func (h *calculatorHandler) Name() string { return "calculator" }

func (h *calculatorHandler) Definition() llm.ToolDefinition {
	return BuildDefinition(h.Name(), "Evaluate an arithmetic expression", map[string]Parameter{
		"expression": {
			Type:        "string",
			Description: "Expression using numbers, + - * / % ** and parentheses",
			Required:    true,
		},
	})
}

func (h *calculatorHandler) Execute(_ context.Context, args map[string]any) (any, error) {
	expr, ok := args["expression"].(string)
	if !ok || expr == "" {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "calculator requires an expression argument")
	}
	result, err := evalExpression(expr)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"expression": expr,
		"result":     result,
	}, nil
}
