package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// OpenAIProvider talks to the OpenAI chat completions API. The "private"
// provider reuses it with a custom base URL.
type OpenAIProvider struct {
	client       *openai.Client
	name         string
	defaultModel string
}

// NewOpenAIProvider builds the provider. baseURL is optional.
func NewOpenAIProvider(name, apiKey, baseURL, defaultModel string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(cfg),
		name:         name,
		defaultModel: defaultModel,
	}
}

func (p *OpenAIProvider) Name() string         { return p.name }
func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

func (p *OpenAIProvider) buildRequest(req llm.CompletionRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
	}
	if out.Model == "" {
		out.Model = p.defaultModel
	}
	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}
	for _, m := range req.Messages {
		msg := openai.ChatCompletionMessage{Role: m.Role}
		if m.Content != nil {
			msg.Content = *m.Content
		}
		if m.Name != nil {
			msg.Name = *m.Name
		}
		if m.ToolCallID != nil {
			msg.ToolCallID = *m.ToolCallID
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolType(tc.Type),
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out.Messages = append(out.Messages, msg)
	}
	for _, t := range req.Tools {
		params, _ := json.Marshal(t.Function.Parameters)
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolType(t.Type),
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  json.RawMessage(params),
			},
		})
	}
	if req.ToolChoice != nil {
		out.ToolChoice = openai.ToolChoice{
			Type: openai.ToolType(req.ToolChoice.Type),
			Function: openai.ToolFunction{
				Name: req.ToolChoice.Function.Name,
			},
		}
	}
	return out
}

func upstreamError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			fmt.Sprintf("%s request failed with status %d: %s", provider, apiErr.HTTPStatusCode, apiErr.Message), err)
	}
	return apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
		fmt.Sprintf("%s request failed", provider), err)
}

func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, upstreamError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "%s returned no choices", p.name)
	}

	choice := resp.Choices[0].Message
	out := &llm.CompletionResponse{
		Role:     choice.Role,
		Model:    resp.Model,
		Provider: p.name,
	}
	if choice.Content != "" || len(choice.ToolCalls) == 0 {
		content := choice.Content
		out.Content = &content
	}
	for _, tc := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: llm.ToolFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	out.Usage = &llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return out, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req llm.CompletionRequest) (llm.Stream, error) {
	apiReq := p.buildRequest(req)
	apiReq.Stream = true
	stream, err := p.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, upstreamError(p.name, err)
	}
	return &openaiStream{inner: stream, acc: newToolCallAccumulator()}, nil
}

type openaiStream struct {
	inner *openai.ChatCompletionStream
	acc   *toolCallAccumulator
	usage *llm.Usage
}

func (s *openaiStream) Recv() (string, error) {
	for {
		chunk, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", upstreamError("openai", err)
		}
		if chunk.Usage != nil {
			s.usage = &llm.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		for _, tc := range delta.ToolCalls {
			index := 0
			if tc.Index != nil {
				index = *tc.Index
			}
			s.acc.add(index, tc.ID, string(tc.Type), tc.Function.Name, tc.Function.Arguments)
		}
		if delta.Content != "" {
			return delta.Content, nil
		}
	}
}

func (s *openaiStream) ToolCalls() []llm.ToolCall { return s.acc.calls() }
func (s *openaiStream) Usage() *llm.Usage         { return s.usage }
func (s *openaiStream) Close() error              { return s.inner.Close() }
