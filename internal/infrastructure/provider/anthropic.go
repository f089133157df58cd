package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

const (
	anthropicVersion          = "2023-06-01"
	anthropicDefaultMaxTokens = 4096
)

// AnthropicProvider talks to the Anthropic Messages API over resty.
type AnthropicProvider struct {
	client       *resty.Client
	defaultModel string
}

// NewAnthropicProvider builds the provider against baseURL.
func NewAnthropicProvider(apiKey, baseURL, defaultModel string, timeout time.Duration) *AnthropicProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json")
	return &AnthropicProvider{client: client, defaultModel: defaultModel}
}

func (p *AnthropicProvider) Name() string         { return "anthropic" }
func (p *AnthropicProvider) DefaultModel() string { return p.defaultModel }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Stream      bool               `json:"stream,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicResponse struct {
	Model   string           `json:"model"`
	Content []anthropicBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildRequest translates neutral messages. System messages move to the
// top-level system field, tool results become tool_result blocks inside a
// user message, and assistant tool calls become tool_use blocks.
func (p *AnthropicProvider) buildRequest(req llm.CompletionRequest) (*anthropicRequest, error) {
	out := &anthropicRequest{
		Model:       req.Model,
		MaxTokens:   anthropicDefaultMaxTokens,
		Temperature: req.Temperature,
	}
	if out.Model == "" {
		out.Model = p.defaultModel
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}

	var system []string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if m.Content != nil {
				system = append(system, *m.Content)
			}
		case "tool":
			block := anthropicBlock{Type: "tool_result"}
			if m.ToolCallID != nil {
				block.ToolUseID = *m.ToolCallID
			}
			if m.Content != nil {
				block.Content = *m.Content
			}
			out.Messages = append(out.Messages, anthropicMessage{Role: "user", Content: []anthropicBlock{block}})
		case "assistant":
			var blocks []anthropicBlock
			if m.Content != nil && *m.Content != "" {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: *m.Content})
			}
			for _, tc := range m.ToolCalls {
				var input map[string]any
				if tc.Function.Arguments != "" {
					if err := json.Unmarshal([]byte(tc.Function.Arguments), &input); err != nil {
						return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation,
							fmt.Sprintf("tool call %s has malformed arguments", tc.ID), err)
					}
				}
				blocks = append(blocks, anthropicBlock{Type: "tool_use", ID: tc.ID, Name: tc.Function.Name, Input: input})
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: ""})
			}
			out.Messages = append(out.Messages, anthropicMessage{Role: "assistant", Content: blocks})
		default:
			content := ""
			if m.Content != nil {
				content = *m.Content
			}
			out.Messages = append(out.Messages, anthropicMessage{Role: "user", Content: []anthropicBlock{{Type: "text", Text: content}}})
		}
	}
	out.System = strings.Join(system, "\n\n")

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, anthropicTool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: t.Function.Parameters,
		})
	}
	return out, nil
}

func (p *AnthropicProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	body, err := p.buildRequest(req)
	if err != nil {
		return nil, err
	}

	var parsed anthropicResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/v1/messages")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "anthropic request failed", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"anthropic request failed with status %d: %s", resp.StatusCode(), msg)
	}

	out := &llm.CompletionResponse{
		Role:     "assistant",
		Model:    parsed.Model,
		Provider: p.Name(),
		Usage: &llm.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args, err := json.Marshal(block.Input)
			if err != nil {
				args = []byte("{}")
			}
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: llm.ToolFunction{
					Name:      block.Name,
					Arguments: string(args),
				},
			})
		}
	}
	if text.Len() > 0 || len(out.ToolCalls) == 0 {
		content := text.String()
		out.Content = &content
	}
	return out, nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, req llm.CompletionRequest) (llm.Stream, error) {
	body, err := p.buildRequest(req)
	if err != nil {
		return nil, err
	}
	body.Stream = true

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post("/v1/messages")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "anthropic stream failed", err)
	}
	if resp.IsError() {
		defer resp.RawBody().Close()
		data, _ := io.ReadAll(resp.RawBody())
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"anthropic stream failed with status %d: %s", resp.StatusCode(), strings.TrimSpace(string(data)))
	}
	return &anthropicStream{
		body:    resp.RawBody(),
		scanner: bufio.NewScanner(resp.RawBody()),
		acc:     newToolCallAccumulator(),
	}, nil
}

type anthropicStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	acc     *toolCallAccumulator
	usage   *llm.Usage
}

type anthropicStreamEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		PartialJSON string `json:"partial_json"`
	} `json:"delta"`
	ContentBlock struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"content_block"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (s *anthropicStream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			continue
		}
		switch event.Type {
		case "content_block_start":
			if event.ContentBlock.Type == "tool_use" {
				s.acc.add(event.Index, event.ContentBlock.ID, "function", event.ContentBlock.Name, "")
			}
		case "content_block_delta":
			switch event.Delta.Type {
			case "text_delta":
				if event.Delta.Text != "" {
					return event.Delta.Text, nil
				}
			case "input_json_delta":
				s.acc.add(event.Index, "", "", "", event.Delta.PartialJSON)
			}
		case "message_delta":
			if event.Usage.OutputTokens > 0 {
				s.usage = &llm.Usage{
					PromptTokens:     event.Usage.InputTokens,
					CompletionTokens: event.Usage.OutputTokens,
					TotalTokens:      event.Usage.InputTokens + event.Usage.OutputTokens,
				}
			}
		case "message_stop":
			return "", io.EOF
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "anthropic stream read failed", err)
	}
	return "", io.EOF
}

func (s *anthropicStream) ToolCalls() []llm.ToolCall { return s.acc.calls() }
func (s *anthropicStream) Usage() *llm.Usage         { return s.usage }
func (s *anthropicStream) Close() error              { return s.body.Close() }
