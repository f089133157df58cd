package requestlog

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

const (
	maxLoggedMessages   = 10
	maxContentLength    = 1000
	maxToolResultLength = 500
)

// RequestLog is one append-only record per provider round trip.
type RequestLog struct {
	ID               uuid.UUID      `json:"id"`
	SubtenantID      uuid.UUID      `json:"subtenant_id"`
	ChatID           *uuid.UUID     `json:"chat_id,omitempty"`
	MessageID        *uuid.UUID     `json:"message_id,omitempty"`
	Provider         string         `json:"provider"`
	Model            string         `json:"model"`
	RequestData      map[string]any `json:"request_data,omitempty"`
	ResponseData     map[string]any `json:"response_data,omitempty"`
	TokensPrompt     int            `json:"tokens_prompt"`
	TokensCompletion int            `json:"tokens_completion"`
	TokensTotal      int            `json:"tokens_total"`
	LatencyMS        int64          `json:"latency_ms"`
	StatusCode       int            `json:"status_code"`
	Error            *string        `json:"error,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// truncate clips s to at most limit bytes without splitting a UTF-8 rune,
// so the stored JSON stays valid.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// TruncateRequest captures the tail of the outgoing message list in a form
// safe to store: at most the last 10 messages, content clipped to 1000
// characters and tool results to 500.
func TruncateRequest(messages []llm.ChatMessage) map[string]any {
	if len(messages) > maxLoggedMessages {
		messages = messages[len(messages)-maxLoggedMessages:]
	}
	logged := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		entry := map[string]any{"role": m.Role}
		if m.Content != nil {
			limit := maxContentLength
			if m.Role == "tool" {
				limit = maxToolResultLength
			}
			entry["content"] = truncate(*m.Content, limit)
		}
		if len(m.ToolCalls) > 0 {
			entry["tool_calls"] = len(m.ToolCalls)
		}
		logged = append(logged, entry)
	}
	return map[string]any{"messages": logged}
}

// TruncateResponse captures the completion result with content clipped.
func TruncateResponse(resp *llm.CompletionResponse) map[string]any {
	if resp == nil {
		return nil
	}
	data := map[string]any{"role": resp.Role}
	if resp.Content != nil {
		data["content"] = truncate(*resp.Content, maxContentLength)
	}
	if len(resp.ToolCalls) > 0 {
		names := make([]string, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			names = append(names, tc.Function.Name)
		}
		data["tool_calls"] = names
	}
	return data
}
