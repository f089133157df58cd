package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/catalog"
	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/domain/requestlog"
	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/infrastructure/metrics"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Service runs conversation turns: it persists the transcript, resolves the
// tool catalog, talks to the model provider and executes requested tools.
type Service struct {
	chats     chat.Repository
	messages  chat.MessageRepository
	memories  subtenant.MemoryRepository
	catalog   *catalog.Aggregator
	registry  *function.Registry
	gateway   *mcptool.Gateway
	providers llm.ProviderFactory
	logs      requestlog.Repository
	logger    zerolog.Logger
}

func NewService(
	chats chat.Repository,
	messages chat.MessageRepository,
	memories subtenant.MemoryRepository,
	agg *catalog.Aggregator,
	registry *function.Registry,
	gateway *mcptool.Gateway,
	providers llm.ProviderFactory,
	logs requestlog.Repository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		chats:     chats,
		messages:  messages,
		memories:  memories,
		catalog:   agg,
		registry:  registry,
		gateway:   gateway,
		providers: providers,
		logs:      logs,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// turn bundles the state shared by Send and Stream up to the provider call.
type turn struct {
	chat      *chat.Chat
	provider  llm.Provider
	selection *catalog.Selection
	userMsg   *chat.Message
	history   []llm.ChatMessage
	started   time.Time
}

// begin validates the chat, resolves the tool catalog, persists the user
// message with the effective tool snapshot and assembles the neutral
// history. Nothing is written when the chat does not exist.
func (s *Service) begin(ctx context.Context, chatID uuid.UUID, params SendParams) (*turn, error) {
	c, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	provider, err := s.providers.Create(params.Provider)
	if err != nil {
		return nil, err
	}
	selection, err := s.catalog.Resolve(ctx, catalog.Request{
		EnabledFunctions:  params.EnabledFunctions,
		DisabledFunctions: params.DisabledFunctions,
		EnabledMCPTools:   params.EnabledMCPTools,
		DisabledMCPTools:  params.DisabledMCPTools,
	}, c.EnabledFunctions, c.EnabledMCPTools)
	if err != nil {
		return nil, err
	}

	userMsg := &chat.Message{
		ID:               uuid.New(),
		ChatID:           c.ID,
		Role:             chat.RoleUser,
		Content:          &params.Content,
		EnabledFunctions: selection.FunctionNames,
		EnabledMCPTools:  selection.MCPToolNames,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, c, params.IncludeMemories)
	if err != nil {
		return nil, err
	}

	return &turn{
		chat:      c,
		provider:  provider,
		selection: selection,
		userMsg:   userMsg,
		history:   history,
		started:   time.Now(),
	}, nil
}

// loadHistory reads the full ordered transcript and optionally prepends a
// synthesized system message carrying the subtenant's memories.
func (s *Service) loadHistory(ctx context.Context, c *chat.Chat, includeMemories bool) ([]llm.ChatMessage, error) {
	stored, err := s.messages.ListByChat(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	history := make([]llm.ChatMessage, 0, len(stored)+1)
	if includeMemories {
		mems, err := s.memories.ListBySubtenant(ctx, c.SubtenantID)
		if err != nil {
			return nil, err
		}
		if len(mems) > 0 {
			var b strings.Builder
			b.WriteString("User context:\n")
			for _, m := range mems {
				fmt.Fprintf(&b, "- %s: %s\n", m.Key, m.Value)
			}
			content := b.String()
			history = append(history, llm.ChatMessage{Role: "system", Content: &content})
		}
	}
	for i := range stored {
		history = append(history, stored[i].ToChatMessage())
	}
	return history, nil
}

func (s *Service) completionRequest(t *turn, params SendParams, messages []llm.ChatMessage) llm.CompletionRequest {
	req := llm.CompletionRequest{
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Tools:       t.selection.Definitions,
	}
	if params.Model != nil {
		req.Model = *params.Model
	}
	return req
}

func (s *Service) writeLog(ctx context.Context, t *turn, params SendParams, messages []llm.ChatMessage, resp *llm.CompletionResponse, messageID *uuid.UUID, callErr error) {
	rl := &requestlog.RequestLog{
		ID:          uuid.New(),
		SubtenantID: t.chat.SubtenantID,
		ChatID:      &t.chat.ID,
		MessageID:   messageID,
		Provider:    t.provider.Name(),
		Model:       t.provider.DefaultModel(),
		RequestData: requestlog.TruncateRequest(messages),
		LatencyMS:   time.Since(t.started).Milliseconds(),
		StatusCode:  200,
	}
	if params.Model != nil {
		rl.Model = *params.Model
	}
	if resp != nil {
		rl.ResponseData = requestlog.TruncateResponse(resp)
		if resp.Usage != nil {
			rl.TokensPrompt = resp.Usage.PromptTokens
			rl.TokensCompletion = resp.Usage.CompletionTokens
			rl.TokensTotal = resp.Usage.TotalTokens
		}
	}
	status := "success"
	if callErr != nil {
		rl.StatusCode = 500
		msg := callErr.Error()
		rl.Error = &msg
		status = "error"
	}
	metrics.ProviderRequestsTotal.WithLabelValues(rl.Provider, status).Inc()
	metrics.ProviderDuration.WithLabelValues(rl.Provider).Observe(float64(rl.LatencyMS) / 1000)
	if err := s.logs.Create(ctx, rl); err != nil {
		s.logger.Error().Err(err).Str("chat_id", t.chat.ID.String()).Msg("failed to write request log")
	}
}

// executeToolCall resolves a tool call against the registry first, then the
// gateway. Execution failures and unknown names both come back as a
// structured error payload so the model sees what went wrong.
func (s *Service) executeToolCall(ctx context.Context, tc llm.ToolCall) any {
	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return map[string]any{"error": fmt.Sprintf("invalid arguments: %v", err)}
		}
	}

	started := time.Now()
	defer func() {
		metrics.ToolDuration.WithLabelValues(tc.Function.Name).Observe(time.Since(started).Seconds())
	}()

	result, err := s.registry.Execute(ctx, tc.Function.Name, args)
	if err != nil && apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		result, err = s.gateway.Execute(ctx, tc.Function.Name, args)
	}
	if err != nil {
		metrics.ToolExecutionsTotal.WithLabelValues(tc.Function.Name, "error").Inc()
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return map[string]any{"error": fmt.Sprintf("tool %s not found", tc.Function.Name)}
		}
		return map[string]any{"error": err.Error()}
	}
	metrics.ToolExecutionsTotal.WithLabelValues(tc.Function.Name, "success").Inc()
	return result
}

func marshalToolResult(result any) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

func (s *Service) persistAssistant(ctx context.Context, t *turn, resp *llm.CompletionResponse) (*chat.Message, error) {
	msg := &chat.Message{
		ID:               uuid.New(),
		ChatID:           t.chat.ID,
		Role:             chat.RoleAssistant,
		Content:          resp.Content,
		ToolCalls:        resp.ToolCalls,
		EnabledFunctions: t.selection.FunctionNames,
		EnabledMCPTools:  t.selection.MCPToolNames,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Send runs one blocking conversation turn. When the model requests tools,
// each call is executed in emitted order, the results are appended to the
// transcript and exactly one follow-up completion produces the final
// message. Tool calls in the follow-up response are persisted but not
// executed again.
func (s *Service) Send(ctx context.Context, chatID uuid.UUID, params SendParams) (*SendResult, error) {
	t, err := s.begin(ctx, chatID, params)
	if err != nil {
		return nil, err
	}

	req := s.completionRequest(t, params, t.history)
	resp, err := t.provider.Complete(ctx, req)
	if err != nil {
		s.writeLog(ctx, t, params, t.history, nil, &t.userMsg.ID, err)
		return nil, err
	}

	if !resp.HasToolCalls() {
		final, err := s.persistAssistant(ctx, t, resp)
		if err != nil {
			return nil, err
		}
		s.writeLog(ctx, t, params, t.history, resp, &final.ID, nil)
		return &SendResult{Message: *final, Usage: resp.Usage}, nil
	}

	if _, err := s.persistAssistant(ctx, t, resp); err != nil {
		return nil, err
	}
	for _, tc := range resp.ToolCalls {
		result := s.executeToolCall(ctx, tc)
		content := marshalToolResult(result)
		callID := tc.ID
		name := tc.Function.Name
		toolMsg := &chat.Message{
			ID:               uuid.New(),
			ChatID:           t.chat.ID,
			Role:             chat.RoleTool,
			Content:          &content,
			ToolCallID:       &callID,
			Name:             &name,
			EnabledFunctions: t.selection.FunctionNames,
			EnabledMCPTools:  t.selection.MCPToolNames,
		}
		if err := s.messages.Create(ctx, toolMsg); err != nil {
			return nil, err
		}
	}

	followUp, err := s.loadHistory(ctx, t.chat, params.IncludeMemories)
	if err != nil {
		return nil, err
	}
	finalResp, err := t.provider.Complete(ctx, s.completionRequest(t, params, followUp))
	if err != nil {
		s.writeLog(ctx, t, params, followUp, nil, &t.userMsg.ID, err)
		return nil, err
	}
	final, err := s.persistAssistant(ctx, t, finalResp)
	if err != nil {
		return nil, err
	}
	s.writeLog(ctx, t, params, followUp, finalResp, &final.ID, nil)
	return &SendResult{Message: *final, Usage: finalResp.Usage}, nil
}

// Stream runs one streaming turn. Text deltas are forwarded as events and
// only the accumulated text is persisted as the assistant message; tool
// calls surfaced by the stream are not executed. A Done event terminates a
// successful stream.
func (s *Service) Stream(ctx context.Context, chatID uuid.UUID, params SendParams) (<-chan StreamEvent, error) {
	t, err := s.begin(ctx, chatID, params)
	if err != nil {
		return nil, err
	}

	stream, err := t.provider.Stream(ctx, s.completionRequest(t, params, t.history))
	if err != nil {
		s.writeLog(ctx, t, params, t.history, nil, &t.userMsg.ID, err)
		return nil, err
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		var accumulated strings.Builder
		for {
			delta, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				s.logger.Error().Err(err).Str("chat_id", t.chat.ID.String()).Msg("stream aborted")
				s.writeLog(ctx, t, params, t.history, nil, &t.userMsg.ID, err)
				return
			}
			if delta != "" {
				accumulated.WriteString(delta)
				select {
				case events <- StreamEvent{Content: delta}:
				case <-ctx.Done():
					return
				}
			}
		}

		content := accumulated.String()
		final := &chat.Message{
			ID:               uuid.New(),
			ChatID:           t.chat.ID,
			Role:             chat.RoleAssistant,
			Content:          &content,
			EnabledFunctions: t.selection.FunctionNames,
			EnabledMCPTools:  t.selection.MCPToolNames,
		}
		if err := s.messages.Create(ctx, final); err != nil {
			s.logger.Error().Err(err).Str("chat_id", t.chat.ID.String()).Msg("failed to persist streamed message")
			return
		}

		resp := &llm.CompletionResponse{Role: "assistant", Content: &content, Usage: stream.Usage()}
		s.writeLog(ctx, t, params, t.history, resp, &final.ID, nil)

		select {
		case events <- StreamEvent{Done: true}:
		case <-ctx.Done():
		}
	}()
	return events, nil
}
