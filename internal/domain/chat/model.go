package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Chat is a conversation thread owned by a subtenant. The assistant binding
// is fixed at creation time.
type Chat struct {
	ID               uuid.UUID  `json:"id"`
	SubtenantID      uuid.UUID  `json:"subtenant_id"`
	AssistantID      *uuid.UUID `json:"assistant_id,omitempty"`
	Title            *string    `json:"title,omitempty"`
	EnabledFunctions []string   `json:"enabled_functions,omitempty"`
	EnabledMCPTools  []string   `json:"enabled_mcp_tools,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Message is one immutable transcript entry. EnabledFunctions and
// EnabledMCPTools record the tool names that were actually in effect when
// the message was produced.
type Message struct {
	ID               uuid.UUID      `json:"id"`
	ChatID           uuid.UUID      `json:"chat_id"`
	Role             Role           `json:"role"`
	Content          *string        `json:"content,omitempty"`
	ToolCalls        []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID       *string        `json:"tool_call_id,omitempty"`
	Name             *string        `json:"name,omitempty"`
	EnabledFunctions []string       `json:"enabled_functions,omitempty"`
	EnabledMCPTools  []string       `json:"enabled_mcp_tools,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ToChatMessage converts a stored message to the provider-neutral shape.
func (m *Message) ToChatMessage() llm.ChatMessage {
	return llm.ChatMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
		ToolCalls:  m.ToolCalls,
	}
}
