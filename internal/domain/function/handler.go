package function

import (
	"context"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// Parameter describes one argument of a callable tool.
type Parameter struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Required    bool     `json:"required"`
}

// Handler is an executable tool. Implementations are either compiled-in
// built-ins or script-backed dynamic functions.
type Handler interface {
	Name() string
	Definition() llm.ToolDefinition
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ScriptEngine compiles a registered function's source into a Handler.
// Compilation validates the source: it must parse and expose exactly one
// public entrypoint.
type ScriptEngine interface {
	Compile(fn *RegisteredFunction) (Handler, error)
}

// BuildDefinition derives the model-facing schema from a named parameter set.
func BuildDefinition(name, description string, params map[string]Parameter) llm.ToolDefinition {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for pname, p := range params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[pname] = prop
		if p.Required {
			required = append(required, pname)
		}
	}
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        name,
			Description: description,
			Parameters: map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}
