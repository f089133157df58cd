package entities

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/domain/requestlog"
	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
)

// toJSON marshals v into a JSON column value. A nil v maps to SQL NULL so
// "unset" survives a round trip distinct from "empty".
func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func stringsToJSON(v []string) datatypes.JSON {
	if v == nil {
		return nil
	}
	return toJSON(v)
}

func jsonToStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

func jsonToMap(j datatypes.JSON) map[string]any {
	if len(j) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

// NewSchemaSubtenant maps a domain subtenant onto its entity.
func NewSchemaSubtenant(d *subtenant.Subtenant) *Subtenant {
	return &Subtenant{ID: d.ID}
}

// EtoD converts the entity to its domain form.
func (e *Subtenant) EtoD() *subtenant.Subtenant {
	return &subtenant.Subtenant{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// NewSchemaMemory maps a domain memory onto its entity.
func NewSchemaMemory(d *subtenant.Memory) *Memory {
	return &Memory{
		ID:          d.ID,
		SubtenantID: d.SubtenantID,
		Key:         d.Key,
		Value:       d.Value,
	}
}

// EtoD converts the entity to its domain form.
func (e *Memory) EtoD() *subtenant.Memory {
	return &subtenant.Memory{
		ID:          e.ID,
		SubtenantID: e.SubtenantID,
		Key:         e.Key,
		Value:       e.Value,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// NewSchemaChat maps a domain chat onto its entity.
func NewSchemaChat(d *chat.Chat) *Chat {
	return &Chat{
		ID:               d.ID,
		SubtenantID:      d.SubtenantID,
		AssistantID:      d.AssistantID,
		Title:            d.Title,
		EnabledFunctions: stringsToJSON(d.EnabledFunctions),
		EnabledMCPTools:  stringsToJSON(d.EnabledMCPTools),
	}
}

// EtoD converts the entity to its domain form.
func (e *Chat) EtoD() *chat.Chat {
	return &chat.Chat{
		ID:               e.ID,
		SubtenantID:      e.SubtenantID,
		AssistantID:      e.AssistantID,
		Title:            e.Title,
		EnabledFunctions: jsonToStrings(e.EnabledFunctions),
		EnabledMCPTools:  jsonToStrings(e.EnabledMCPTools),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// NewSchemaMessage maps a domain message onto its entity.
func NewSchemaMessage(d *chat.Message) *Message {
	e := &Message{
		ID:               d.ID,
		ChatID:           d.ChatID,
		Role:             string(d.Role),
		Content:          d.Content,
		ToolCallID:       d.ToolCallID,
		Name:             d.Name,
		EnabledFunctions: stringsToJSON(d.EnabledFunctions),
		EnabledMCPTools:  stringsToJSON(d.EnabledMCPTools),
	}
	if len(d.ToolCalls) > 0 {
		e.ToolCalls = toJSON(d.ToolCalls)
	}
	return e
}

// EtoD converts the entity to its domain form.
func (e *Message) EtoD() *chat.Message {
	d := &chat.Message{
		ID:               e.ID,
		ChatID:           e.ChatID,
		Role:             chat.Role(e.Role),
		Content:          e.Content,
		ToolCallID:       e.ToolCallID,
		Name:             e.Name,
		EnabledFunctions: jsonToStrings(e.EnabledFunctions),
		EnabledMCPTools:  jsonToStrings(e.EnabledMCPTools),
		CreatedAt:        e.CreatedAt,
	}
	if len(e.ToolCalls) > 0 {
		var calls []llm.ToolCall
		if err := json.Unmarshal(e.ToolCalls, &calls); err == nil {
			d.ToolCalls = calls
		}
	}
	return d
}

// NewSchemaAssistant maps a domain assistant onto its entity.
func NewSchemaAssistant(d *assistant.Assistant) *Assistant {
	return &Assistant{
		ID:                 d.ID,
		SubtenantID:        d.SubtenantID,
		Name:               d.Name,
		Description:        d.Description,
		SystemPrompt:       d.SystemPrompt,
		EnabledFunctions:   stringsToJSON(d.EnabledFunctions),
		EnabledMCPTools:    stringsToJSON(d.EnabledMCPTools),
		FunctionParameters: toJSONMap(d.FunctionParameters),
		MCPToolParameters:  toJSONMap(d.MCPToolParameters),
		IsActive:           d.IsActive,
	}
}

func toJSONMap(m map[string]any) datatypes.JSON {
	if m == nil {
		return nil
	}
	return toJSON(m)
}

// EtoD converts the entity to its domain form.
func (e *Assistant) EtoD() *assistant.Assistant {
	return &assistant.Assistant{
		ID:                 e.ID,
		SubtenantID:        e.SubtenantID,
		Name:               e.Name,
		Description:        e.Description,
		SystemPrompt:       e.SystemPrompt,
		EnabledFunctions:   jsonToStrings(e.EnabledFunctions),
		EnabledMCPTools:    jsonToStrings(e.EnabledMCPTools),
		FunctionParameters: jsonToMap(e.FunctionParameters),
		MCPToolParameters:  jsonToMap(e.MCPToolParameters),
		IsActive:           e.IsActive,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// NewSchemaRegisteredFunction maps a domain function onto its entity.
func NewSchemaRegisteredFunction(d *function.RegisteredFunction) *RegisteredFunction {
	e := &RegisteredFunction{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Code:        d.Code,
		IsActive:    d.IsActive,
	}
	if d.Parameters != nil {
		e.Parameters = toJSON(d.Parameters)
	}
	return e
}

// EtoD converts the entity to its domain form.
func (e *RegisteredFunction) EtoD() *function.RegisteredFunction {
	d := &function.RegisteredFunction{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Code:        e.Code,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if len(e.Parameters) > 0 {
		var params map[string]function.Parameter
		if err := json.Unmarshal(e.Parameters, &params); err == nil {
			d.Parameters = params
		}
	}
	return d
}

// NewSchemaMCPServer maps a domain MCP server onto its entity.
func NewSchemaMCPServer(d *mcptool.Server) *MCPServer {
	return &MCPServer{
		ID:               d.ID,
		Name:             d.Name,
		URL:              d.URL,
		Protocol:         string(d.Protocol),
		APIKey:           d.APIKey,
		IsActive:         d.IsActive,
		LastConnected:    d.LastConnected,
		ConnectionStatus: string(d.ConnectionStatus),
		ErrorMessage:     d.ErrorMessage,
	}
}

// EtoD converts the entity to its domain form.
func (e *MCPServer) EtoD() *mcptool.Server {
	return &mcptool.Server{
		ID:               e.ID,
		Name:             e.Name,
		URL:              e.URL,
		Protocol:         mcptool.Protocol(e.Protocol),
		APIKey:           e.APIKey,
		IsActive:         e.IsActive,
		LastConnected:    e.LastConnected,
		ConnectionStatus: mcptool.ConnectionStatus(e.ConnectionStatus),
		ErrorMessage:     e.ErrorMessage,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// NewSchemaRequestLog maps a domain request log onto its entity.
func NewSchemaRequestLog(d *requestlog.RequestLog) *RequestLog {
	return &RequestLog{
		ID:               d.ID,
		SubtenantID:      d.SubtenantID,
		ChatID:           d.ChatID,
		MessageID:        d.MessageID,
		Provider:         d.Provider,
		Model:            d.Model,
		RequestData:      toJSONMap(d.RequestData),
		ResponseData:     toJSONMap(d.ResponseData),
		TokensPrompt:     d.TokensPrompt,
		TokensCompletion: d.TokensCompletion,
		TokensTotal:      d.TokensTotal,
		LatencyMS:        d.LatencyMS,
		StatusCode:       d.StatusCode,
		Error:            d.Error,
	}
}

// EtoD converts the entity to its domain form.
func (e *RequestLog) EtoD() *requestlog.RequestLog {
	return &requestlog.RequestLog{
		ID:               e.ID,
		SubtenantID:      e.SubtenantID,
		ChatID:           e.ChatID,
		MessageID:        e.MessageID,
		Provider:         e.Provider,
		Model:            e.Model,
		RequestData:      jsonToMap(e.RequestData),
		ResponseData:     jsonToMap(e.ResponseData),
		TokensPrompt:     e.TokensPrompt,
		TokensCompletion: e.TokensCompletion,
		TokensTotal:      e.TokensTotal,
		LatencyMS:        e.LatencyMS,
		StatusCode:       e.StatusCode,
		Error:            e.Error,
		CreatedAt:        e.CreatedAt,
	}
}
