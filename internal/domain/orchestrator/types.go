package orchestrator

import (
	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// SendParams carries one user turn plus its per-call overrides.
type SendParams struct {
	Content         string
	Provider        string
	Model           *string
	Temperature     *float64
	MaxTokens       *int
	IncludeMemories bool

	// Per-call tool selection overrides; nil means unset.
	EnabledFunctions  []string
	DisabledFunctions []string
	EnabledMCPTools   []string
	DisabledMCPTools  []string
}

// SendResult is the final assistant message of a turn plus token usage.
type SendResult struct {
	Message chat.Message `json:"message"`
	Usage   *llm.Usage   `json:"usage,omitempty"`
}

// StreamEvent is one unit on a streaming turn's event channel. Exactly one
// Done event terminates a successful stream; a channel closed without it
// signals abnormal termination.
type StreamEvent struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
}
