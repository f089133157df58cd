package llm

import "context"

// Provider defines the contract implemented once per LLM backend.
type Provider interface {
	Name() string
	DefaultModel() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Stream(ctx context.Context, req CompletionRequest) (Stream, error)
}

// Stream yields incremental text fragments from a streaming completion.
// Recv returns io.EOF when the stream is exhausted; after that, ToolCalls
// exposes any tool calls reassembled from the streamed fragments.
type Stream interface {
	Recv() (string, error)
	ToolCalls() []ToolCall
	Usage() *Usage
	Close() error
}

// ProviderFactory resolves a provider name (or the configured default when
// name is empty) into a Provider instance.
type ProviderFactory interface {
	Create(name string) (Provider, error)
}

// ChatMessage is the provider-neutral message shape.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content,omitempty"`
	Name       *string    `json:"name,omitempty"`
	ToolCallID *string    `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model-emitted request to invoke a tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries the tool name and its serialized JSON arguments.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition is the model-facing tool schema.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function ToolFunctionSchema `json:"function"`
}

// ToolFunctionSchema declares the function contract passed to the model.
type ToolFunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolChoice forces a specific tool or leaves selection to the model.
type ToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

// CompletionRequest is the neutral request shape translated by each backend.
type CompletionRequest struct {
	Model       string           `json:"model,omitempty"`
	Messages    []ChatMessage    `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   *int             `json:"max_tokens,omitempty"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	ToolChoice  *ToolChoice      `json:"tool_choice,omitempty"`
}

// CompletionResponse is the neutral single-shot completion result.
type CompletionResponse struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Usage     *Usage     `json:"usage,omitempty"`
	Model     string     `json:"model"`
	Provider  string     `json:"provider"`
}

// Usage contains token accounting metadata.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// HasToolCalls reports whether the response requests tool execution.
func (r *CompletionResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// TextContent returns the content string, or empty when absent.
func (r *CompletionResponse) TextContent() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}
