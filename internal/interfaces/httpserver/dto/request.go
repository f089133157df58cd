package dto

import (
	"github.com/google/uuid"

	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
)

// CreateChatRequest creates a chat under a subtenant.
type CreateChatRequest struct {
	AssistantID      *uuid.UUID `json:"assistant_id"`
	Title            *string    `json:"title"`
	EnabledFunctions []string   `json:"enabled_functions"`
	EnabledMCPTools  []string   `json:"enabled_mcp_tools"`
}

// UpdateChatRequest updates mutable chat fields.
type UpdateChatRequest struct {
	Title            *string  `json:"title"`
	EnabledFunctions []string `json:"enabled_functions"`
	EnabledMCPTools  []string `json:"enabled_mcp_tools"`
}

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Content         string   `json:"content" binding:"required"`
	Model           *string  `json:"model"`
	Temperature     *float64 `json:"temperature"`
	MaxTokens       *int     `json:"max_tokens"`
	IncludeMemories bool     `json:"include_memories"`

	EnabledFunctions  []string `json:"enabled_functions"`
	DisabledFunctions []string `json:"disabled_functions"`
	EnabledMCPTools   []string `json:"enabled_mcp_tools"`
	DisabledMCPTools  []string `json:"disabled_mcp_tools"`
}

// MemoryRequest upserts one subtenant memory.
type MemoryRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// CreateAssistantRequest creates an assistant preset.
type CreateAssistantRequest struct {
	SubtenantID        *uuid.UUID     `json:"subtenant_id"`
	Name               string         `json:"name" binding:"required"`
	Description        *string        `json:"description"`
	SystemPrompt       *string        `json:"system_prompt"`
	EnabledFunctions   []string       `json:"enabled_functions"`
	EnabledMCPTools    []string       `json:"enabled_mcp_tools"`
	FunctionParameters map[string]any `json:"function_parameters"`
	MCPToolParameters  map[string]any `json:"mcp_tool_parameters"`
}

// UpdateAssistantRequest updates assistant fields.
type UpdateAssistantRequest struct {
	Name               *string        `json:"name"`
	Description        *string        `json:"description"`
	SystemPrompt       *string        `json:"system_prompt"`
	EnabledFunctions   []string       `json:"enabled_functions"`
	EnabledMCPTools    []string       `json:"enabled_mcp_tools"`
	FunctionParameters map[string]any `json:"function_parameters"`
	MCPToolParameters  map[string]any `json:"mcp_tool_parameters"`
}

// RegisterFunctionRequest registers a dynamic function.
type RegisterFunctionRequest struct {
	Name        string                        `json:"name" binding:"required"`
	Description string                        `json:"description"`
	Parameters  map[string]function.Parameter `json:"parameters"`
	Code        string                        `json:"code" binding:"required"`
}

// UpdateFunctionRequest updates a dynamic function.
type UpdateFunctionRequest struct {
	Description *string                       `json:"description"`
	Parameters  map[string]function.Parameter `json:"parameters"`
	Code        *string                       `json:"code"`
	IsActive    *bool                         `json:"is_active"`
}

// ExecuteFunctionRequest runs a tool by name.
type ExecuteFunctionRequest struct {
	Arguments map[string]any `json:"arguments"`
}

// CreateMCPServerRequest registers an MCP server.
type CreateMCPServerRequest struct {
	Name     string           `json:"name" binding:"required"`
	URL      string           `json:"url" binding:"required"`
	Protocol mcptool.Protocol `json:"protocol" binding:"required"`
	APIKey   string           `json:"api_key"`
}

// UpdateMCPServerRequest updates an MCP server registration.
type UpdateMCPServerRequest struct {
	URL      *string           `json:"url"`
	Protocol *mcptool.Protocol `json:"protocol"`
	APIKey   *string           `json:"api_key"`
	IsActive *bool             `json:"is_active"`
}

// CompleteRequest is a direct completion passthrough.
type CompleteRequest struct {
	Provider    string            `json:"provider"`
	Model       *string           `json:"model"`
	Messages    []llm.ChatMessage `json:"messages" binding:"required"`
	Temperature *float64          `json:"temperature"`
	MaxTokens   *int              `json:"max_tokens"`
}
