package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// LocalProvider talks to an Ollama-compatible server's /api/chat endpoint.
type LocalProvider struct {
	client       *resty.Client
	defaultModel string
}

// NewLocalProvider builds the provider against baseURL.
func NewLocalProvider(baseURL, defaultModel string, timeout time.Duration) *LocalProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &LocalProvider{client: client, defaultModel: defaultModel}
}

func (p *LocalProvider) Name() string         { return "local" }
func (p *LocalProvider) DefaultModel() string { return p.defaultModel }

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaToolCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type ollamaRequest struct {
	Model    string               `json:"model"`
	Messages []ollamaMessage      `json:"messages"`
	Stream   bool                 `json:"stream"`
	Tools    []llm.ToolDefinition `json:"tools,omitempty"`
	Options  map[string]any       `json:"options,omitempty"`
}

type ollamaResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error"`

	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

func (p *LocalProvider) buildRequest(req llm.CompletionRequest, stream bool) *ollamaRequest {
	out := &ollamaRequest{
		Model:  req.Model,
		Stream: stream,
		Tools:  req.Tools,
	}
	if out.Model == "" {
		out.Model = p.defaultModel
	}
	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.MaxTokens != nil {
		options["num_predict"] = *req.MaxTokens
	}
	if len(options) > 0 {
		out.Options = options
	}
	for _, m := range req.Messages {
		msg := ollamaMessage{Role: m.Role}
		if m.Content != nil {
			msg.Content = *m.Content
		}
		for _, tc := range m.ToolCalls {
			var otc ollamaToolCall
			otc.Function.Name = tc.Function.Name
			if tc.Function.Arguments != "" {
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &otc.Function.Arguments)
			}
			msg.ToolCalls = append(msg.ToolCalls, otc)
		}
		out.Messages = append(out.Messages, msg)
	}
	return out
}

func (p *LocalProvider) toResponse(parsed *ollamaResponse) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		Role:     "assistant",
		Model:    parsed.Model,
		Provider: p.Name(),
		Usage: &llm.Usage{
			PromptTokens:     parsed.PromptEvalCount,
			CompletionTokens: parsed.EvalCount,
			TotalTokens:      parsed.PromptEvalCount + parsed.EvalCount,
		},
	}
	for i, tc := range parsed.Message.ToolCalls {
		args, err := json.Marshal(tc.Function.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:   generateCallID(i),
			Type: "function",
			Function: llm.ToolFunction{
				Name:      tc.Function.Name,
				Arguments: string(args),
			},
		})
	}
	if parsed.Message.Content != "" || len(out.ToolCalls) == 0 {
		content := parsed.Message.Content
		out.Content = &content
	}
	return out
}

func (p *LocalProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var parsed ollamaResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.buildRequest(req, false)).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/api/chat")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "local provider request failed", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if parsed.Error != "" {
			msg = parsed.Error
		}
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"local provider request failed with status %d: %s", resp.StatusCode(), msg)
	}
	return p.toResponse(&parsed), nil
}

// Stream reads the NDJSON response line by line.
func (p *LocalProvider) Stream(ctx context.Context, req llm.CompletionRequest) (llm.Stream, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.buildRequest(req, true)).
		SetDoNotParseResponse(true).
		Post("/api/chat")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "local provider stream failed", err)
	}
	if resp.IsError() {
		defer resp.RawBody().Close()
		data, _ := io.ReadAll(resp.RawBody())
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"local provider stream failed with status %d: %s", resp.StatusCode(), strings.TrimSpace(string(data)))
	}
	return &localStream{
		body:    resp.RawBody(),
		scanner: bufio.NewScanner(resp.RawBody()),
	}, nil
}

type localStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	calls   []llm.ToolCall
	usage   *llm.Usage
	done    bool
}

func (s *localStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		var chunk ollamaResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}
		if chunk.Error != "" {
			return "", apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "local provider stream error: %s", chunk.Error)
		}
		// Ollama emits each tool call whole, so collect them directly; the
		// fragment accumulator would merge calls from separate chunks.
		for _, tc := range chunk.Message.ToolCalls {
			args, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				args = []byte("{}")
			}
			s.calls = append(s.calls, llm.ToolCall{
				ID:   generateCallID(len(s.calls)),
				Type: "function",
				Function: llm.ToolFunction{
					Name:      tc.Function.Name,
					Arguments: string(args),
				},
			})
		}
		if chunk.Done {
			s.done = true
			s.usage = &llm.Usage{
				PromptTokens:     chunk.PromptEvalCount,
				CompletionTokens: chunk.EvalCount,
				TotalTokens:      chunk.PromptEvalCount + chunk.EvalCount,
			}
			if chunk.Message.Content != "" {
				return chunk.Message.Content, nil
			}
			return "", io.EOF
		}
		if chunk.Message.Content != "" {
			return chunk.Message.Content, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "local provider stream read failed", err)
	}
	return "", io.EOF
}

func (s *localStream) ToolCalls() []llm.ToolCall { return s.calls }
func (s *localStream) Usage() *llm.Usage         { return s.usage }
func (s *localStream) Close() error              { return s.body.Close() }
