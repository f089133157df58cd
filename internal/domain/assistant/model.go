package assistant

import (
	"time"

	"github.com/google/uuid"
)

// Assistant is a reusable conversation preset. A nil SubtenantID marks a
// global assistant usable by every subtenant.
type Assistant struct {
	ID                 uuid.UUID      `json:"id"`
	SubtenantID        *uuid.UUID     `json:"subtenant_id,omitempty"`
	Name               string         `json:"name"`
	Description        *string        `json:"description,omitempty"`
	SystemPrompt       *string        `json:"system_prompt,omitempty"`
	EnabledFunctions   []string       `json:"enabled_functions,omitempty"`
	EnabledMCPTools    []string       `json:"enabled_mcp_tools,omitempty"`
	FunctionParameters map[string]any `json:"function_parameters,omitempty"`
	MCPToolParameters  map[string]any `json:"mcp_tool_parameters,omitempty"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// UsableBy reports whether a subtenant may bind this assistant to a chat.
func (a *Assistant) UsableBy(subtenantID uuid.UUID) bool {
	return a.SubtenantID == nil || *a.SubtenantID == subtenantID
}
