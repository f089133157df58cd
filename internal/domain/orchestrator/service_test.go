package orchestrator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/domain/catalog"
	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/domain/requestlog"
	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// --- in-memory repositories ---

type memChatRepo struct {
	chats map[uuid.UUID]*chat.Chat
}

func (r *memChatRepo) Create(_ context.Context, c *chat.Chat) error {
	r.chats[c.ID] = c
	return nil
}

func (r *memChatRepo) FindByID(_ context.Context, id uuid.UUID) (*chat.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "chat not found: %s", id)
	}
	return c, nil
}

func (r *memChatRepo) ListBySubtenant(_ context.Context, _ uuid.UUID) ([]chat.Chat, error) {
	return nil, nil
}

func (r *memChatRepo) Update(_ context.Context, c *chat.Chat) error {
	r.chats[c.ID] = c
	return nil
}

func (r *memChatRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.chats, id)
	return nil
}

type memMessageRepo struct {
	messages []chat.Message
}

func (r *memMessageRepo) Create(_ context.Context, m *chat.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*chat.Message, error) {
	for i := range r.messages {
		if r.messages[i].ID == id {
			return &r.messages[i], nil
		}
	}
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "message not found")
}

func (r *memMessageRepo) ListByChat(_ context.Context, chatID uuid.UUID) ([]chat.Message, error) {
	out := make([]chat.Message, 0, len(r.messages))
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) byRole(role chat.Role) []chat.Message {
	out := make([]chat.Message, 0)
	for _, m := range r.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

type memMemoryRepo struct {
	memories []subtenant.Memory
}

func (r *memMemoryRepo) Upsert(_ context.Context, m *subtenant.Memory) error {
	r.memories = append(r.memories, *m)
	return nil
}

func (r *memMemoryRepo) FindByKey(_ context.Context, _ uuid.UUID, _ string) (*subtenant.Memory, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "memory not found")
}

func (r *memMemoryRepo) ListBySubtenant(_ context.Context, subtenantID uuid.UUID) ([]subtenant.Memory, error) {
	out := make([]subtenant.Memory, 0)
	for _, m := range r.memories {
		if m.SubtenantID == subtenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMemoryRepo) Delete(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type memLogRepo struct {
	logs []requestlog.RequestLog
}

func (r *memLogRepo) Create(_ context.Context, rl *requestlog.RequestLog) error {
	r.logs = append(r.logs, *rl)
	return nil
}

func (r *memLogRepo) ListBySubtenant(_ context.Context, _ uuid.UUID, _ int) ([]requestlog.RequestLog, error) {
	return r.logs, nil
}

// --- tool plumbing fakes ---

type emptyFunctionRepo struct{}

func (emptyFunctionRepo) Create(_ context.Context, _ *function.RegisteredFunction) error { return nil }

func (emptyFunctionRepo) FindByID(_ context.Context, _ uuid.UUID) (*function.RegisteredFunction, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "not found")
}

func (emptyFunctionRepo) FindByName(_ context.Context, name string) (*function.RegisteredFunction, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "function not found: %s", name)
}

func (emptyFunctionRepo) ListActive(_ context.Context) ([]function.RegisteredFunction, error) {
	return nil, nil
}

func (emptyFunctionRepo) List(_ context.Context) ([]function.RegisteredFunction, error) {
	return nil, nil
}

func (emptyFunctionRepo) Update(_ context.Context, _ *function.RegisteredFunction) error { return nil }

func (emptyFunctionRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type noScriptEngine struct{}

func (noScriptEngine) Compile(_ *function.RegisteredFunction) (function.Handler, error) {
	return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "no script support in tests")
}

type emptyServerRepo struct{}

func (emptyServerRepo) Create(_ context.Context, _ *mcptool.Server) error { return nil }

func (emptyServerRepo) FindByID(_ context.Context, _ uuid.UUID) (*mcptool.Server, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "not found")
}

func (emptyServerRepo) FindByName(_ context.Context, _ string) (*mcptool.Server, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "not found")
}

func (emptyServerRepo) List(_ context.Context) ([]mcptool.Server, error)       { return nil, nil }
func (emptyServerRepo) ListActive(_ context.Context) ([]mcptool.Server, error) { return nil, nil }
func (emptyServerRepo) Update(_ context.Context, _ *mcptool.Server) error      { return nil }
func (emptyServerRepo) Delete(_ context.Context, _ uuid.UUID) error            { return nil }

type stubTransport struct {
	tools []mcptool.ToolDescriptor
	call  func(ctx context.Context, name string, args map[string]any) (any, error)
}

func (s *stubTransport) ListTools(_ context.Context) ([]mcptool.ToolDescriptor, error) {
	return s.tools, nil
}

func (s *stubTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	return s.call(ctx, name, args)
}

func (s *stubTransport) Close() error { return nil }

type stubTransportFactory struct {
	transport mcptool.Transport
}

func (f *stubTransportFactory) Dial(_ context.Context, _ *mcptool.Server) (mcptool.Transport, error) {
	return f.transport, nil
}

// --- provider fakes ---

type mockProvider struct {
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	streamFunc   func(ctx context.Context, req llm.CompletionRequest) (llm.Stream, error)
}

func (p *mockProvider) Name() string         { return "mock" }
func (p *mockProvider) DefaultModel() string { return "mock-model" }

func (p *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return p.completeFunc(ctx, req)
}

func (p *mockProvider) Stream(ctx context.Context, req llm.CompletionRequest) (llm.Stream, error) {
	return p.streamFunc(ctx, req)
}

type mockFactory struct {
	provider llm.Provider
}

func (f *mockFactory) Create(_ string) (llm.Provider, error) {
	return f.provider, nil
}

type mockStream struct {
	deltas []string
	pos    int
	calls  []llm.ToolCall
	usage  *llm.Usage
}

func (s *mockStream) Recv() (string, error) {
	if s.pos >= len(s.deltas) {
		return "", io.EOF
	}
	delta := s.deltas[s.pos]
	s.pos++
	return delta, nil
}

func (s *mockStream) ToolCalls() []llm.ToolCall { return s.calls }
func (s *mockStream) Usage() *llm.Usage         { return s.usage }
func (s *mockStream) Close() error              { return nil }

// --- fixture ---

type fixture struct {
	service  *Service
	chats    *memChatRepo
	messages *memMessageRepo
	memories *memMemoryRepo
	logs     *memLogRepo
	chatID   uuid.UUID
	tenantID uuid.UUID
}

func newFixture(t *testing.T, provider llm.Provider) *fixture {
	t.Helper()

	chats := &memChatRepo{chats: make(map[uuid.UUID]*chat.Chat)}
	messages := &memMessageRepo{}
	memories := &memMemoryRepo{}
	logs := &memLogRepo{}

	registry := function.NewRegistry(emptyFunctionRepo{}, noScriptEngine{}, zerolog.Nop())
	gateway := mcptool.NewGateway(&stubTransportFactory{transport: &stubTransport{
		tools: []mcptool.ToolDescriptor{{Name: "echo"}},
		call: func(_ context.Context, _ string, args map[string]any) (any, error) {
			return map[string]any{"echoed": args["value"]}, nil
		},
	}}, emptyServerRepo{}, zerolog.Nop())
	require.NoError(t, gateway.Connect(context.Background(), &mcptool.Server{ID: uuid.New(), Name: "ext"}))

	agg := catalog.NewAggregator(registry, gateway, zerolog.Nop())
	service := NewService(chats, messages, memories, agg, registry, gateway, &mockFactory{provider: provider}, logs, zerolog.Nop())

	tenantID := uuid.New()
	chatID := uuid.New()
	chats.chats[chatID] = &chat.Chat{ID: chatID, SubtenantID: tenantID}

	return &fixture{
		service:  service,
		chats:    chats,
		messages: messages,
		memories: memories,
		logs:     logs,
		chatID:   chatID,
		tenantID: tenantID,
	}
}

func textResponse(text string, usage *llm.Usage) *llm.CompletionResponse {
	return &llm.CompletionResponse{Role: "assistant", Content: &text, Usage: usage}
}

// --- tests ---

func TestSendWithoutToolCalls(t *testing.T) {
	provider := &mockProvider{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			return textResponse("hello back", &llm.Usage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8}), nil
		},
	}
	f := newFixture(t, provider)

	result, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello back", *result.Message.Content)
	assert.Equal(t, 8, result.Usage.TotalTokens)

	require.Len(t, f.messages.messages, 2)
	assert.Equal(t, chat.RoleUser, f.messages.messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, f.messages.messages[1].Role)

	require.Len(t, f.logs.logs, 1)
	rl := f.logs.logs[0]
	assert.Equal(t, 200, rl.StatusCode)
	assert.Equal(t, "mock", rl.Provider)
	assert.Equal(t, 8, rl.TokensTotal)
	assert.Equal(t, f.tenantID, rl.SubtenantID)
}

func TestSendExecutesToolsThenOneFollowUp(t *testing.T) {
	completions := 0
	provider := &mockProvider{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			completions++
			if completions == 1 {
				return &llm.CompletionResponse{
					Role: "assistant",
					ToolCalls: []llm.ToolCall{
						{ID: "call_1", Type: "function", Function: llm.ToolFunction{Name: "calculator", Arguments: `{"expression":"6*7"}`}},
						{ID: "call_2", Type: "function", Function: llm.ToolFunction{Name: "ext_echo", Arguments: `{"value":"hi"}`}},
					},
				}, nil
			}
			// Follow-up sees the tool results in the transcript.
			last := req.Messages[len(req.Messages)-1]
			assert.Equal(t, "tool", last.Role)
			return textResponse("the answer is 42", nil), nil
		},
	}
	f := newFixture(t, provider)

	result, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "compute"})
	require.NoError(t, err)
	assert.Equal(t, 2, completions)
	assert.Equal(t, "the answer is 42", *result.Message.Content)

	toolMsgs := f.messages.byRole(chat.RoleTool)
	require.Len(t, toolMsgs, 2)
	assert.Equal(t, "call_1", *toolMsgs[0].ToolCallID)
	assert.Equal(t, "calculator", *toolMsgs[0].Name)
	assert.Contains(t, *toolMsgs[0].Content, "42")
	assert.Equal(t, "call_2", *toolMsgs[1].ToolCallID)
	assert.Contains(t, *toolMsgs[1].Content, "hi")

	// user, assistant-with-calls, two tool results, final assistant
	require.Len(t, f.messages.messages, 5)
	assert.Equal(t, chat.RoleAssistant, f.messages.messages[1].Role)
	require.Len(t, f.messages.messages[1].ToolCalls, 2)
}

func TestSendFollowUpToolCallsAreNotExecuted(t *testing.T) {
	completions := 0
	withCalls := func() *llm.CompletionResponse {
		return &llm.CompletionResponse{
			Role: "assistant",
			ToolCalls: []llm.ToolCall{
				{ID: "call_n", Type: "function", Function: llm.ToolFunction{Name: "calculator", Arguments: `{"expression":"1+1"}`}},
			},
		}
	}
	provider := &mockProvider{
		completeFunc: func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
			completions++
			return withCalls(), nil
		},
	}
	f := newFixture(t, provider)

	result, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "loop?"})
	require.NoError(t, err)
	assert.Equal(t, 2, completions)
	require.Len(t, result.Message.ToolCalls, 1)

	// Only the first round's call produced a tool message.
	assert.Len(t, f.messages.byRole(chat.RoleTool), 1)
}

func TestSendToolFailuresBecomeErrorPayloads(t *testing.T) {
	completions := 0
	provider := &mockProvider{
		completeFunc: func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
			completions++
			if completions == 1 {
				return &llm.CompletionResponse{
					Role: "assistant",
					ToolCalls: []llm.ToolCall{
						{ID: "c1", Type: "function", Function: llm.ToolFunction{Name: "calculator", Arguments: `{"expression":"1/0"}`}},
						{ID: "c2", Type: "function", Function: llm.ToolFunction{Name: "no_such_tool", Arguments: `{}`}},
						{ID: "c3", Type: "function", Function: llm.ToolFunction{Name: "calculator", Arguments: `not json`}},
					},
				}, nil
			}
			return textResponse("noted", nil), nil
		},
	}
	f := newFixture(t, provider)

	_, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "break things"})
	require.NoError(t, err)

	toolMsgs := f.messages.byRole(chat.RoleTool)
	require.Len(t, toolMsgs, 3)
	assert.Contains(t, *toolMsgs[0].Content, `"error"`)
	assert.Contains(t, *toolMsgs[1].Content, "tool no_such_tool not found")
	assert.Contains(t, *toolMsgs[2].Content, "invalid arguments")
}

func TestSendUnknownChatWritesNothing(t *testing.T) {
	f := newFixture(t, &mockProvider{})

	_, err := f.service.Send(context.Background(), uuid.New(), SendParams{Content: "hi"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Empty(t, f.messages.messages)
	assert.Empty(t, f.logs.logs)
}

func TestSendProviderErrorIsLogged(t *testing.T) {
	provider := &mockProvider{
		completeFunc: func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, errors.New("rate limited")
		},
	}
	f := newFixture(t, provider)

	_, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "hi"})
	require.Error(t, err)

	// The user message survives the failed turn.
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, chat.RoleUser, f.messages.messages[0].Role)

	require.Len(t, f.logs.logs, 1)
	rl := f.logs.logs[0]
	assert.Equal(t, 500, rl.StatusCode)
	require.NotNil(t, rl.Error)
	assert.Contains(t, *rl.Error, "rate limited")
}

func TestSendIncludesMemories(t *testing.T) {
	provider := &mockProvider{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			require.NotEmpty(t, req.Messages)
			first := req.Messages[0]
			assert.Equal(t, "system", first.Role)
			assert.Contains(t, *first.Content, "User context:\n")
			assert.Contains(t, *first.Content, "- name: Ada\n")
			return textResponse("hi Ada", nil), nil
		},
	}
	f := newFixture(t, provider)
	f.memories.memories = append(f.memories.memories, subtenant.Memory{
		SubtenantID: f.tenantID, Key: "name", Value: "Ada",
	})

	_, err := f.service.Send(context.Background(), f.chatID, SendParams{Content: "hello", IncludeMemories: true})
	require.NoError(t, err)

	// The synthesized memory message is not part of the transcript.
	for _, m := range f.messages.messages {
		assert.NotEqual(t, chat.RoleSystem, m.Role)
	}
}

func TestSendStampsToolSnapshotOnMessages(t *testing.T) {
	provider := &mockProvider{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			require.Len(t, req.Tools, 1)
			assert.Equal(t, "calculator", req.Tools[0].Function.Name)
			return textResponse("done", nil), nil
		},
	}
	f := newFixture(t, provider)

	_, err := f.service.Send(context.Background(), f.chatID, SendParams{
		Content:          "hi",
		EnabledFunctions: []string{"calculator"},
		EnabledMCPTools:  []string{},
	})
	require.NoError(t, err)

	require.Len(t, f.messages.messages, 2)
	for _, m := range f.messages.messages {
		assert.Equal(t, []string{"calculator"}, m.EnabledFunctions)
		assert.Empty(t, m.EnabledMCPTools)
	}
}

func TestStreamPersistsAccumulatedText(t *testing.T) {
	provider := &mockProvider{
		streamFunc: func(_ context.Context, _ llm.CompletionRequest) (llm.Stream, error) {
			return &mockStream{
				deltas: []string{"Hel", "lo", " world"},
				calls:  []llm.ToolCall{{ID: "ignored", Function: llm.ToolFunction{Name: "calculator"}}},
				usage:  &llm.Usage{PromptTokens: 2, CompletionTokens: 4, TotalTokens: 6},
			}, nil
		},
	}
	f := newFixture(t, provider)

	events, err := f.service.Stream(context.Background(), f.chatID, SendParams{Content: "hi"})
	require.NoError(t, err)

	var collected string
	var done bool
	for ev := range events {
		if ev.Done {
			done = true
			continue
		}
		collected += ev.Content
	}
	assert.True(t, done)
	assert.Equal(t, "Hello world", collected)

	require.Len(t, f.messages.messages, 2)
	final := f.messages.messages[1]
	assert.Equal(t, chat.RoleAssistant, final.Role)
	assert.Equal(t, "Hello world", *final.Content)
	// Streaming never executes or persists tool calls.
	assert.Empty(t, final.ToolCalls)
	assert.Empty(t, f.messages.byRole(chat.RoleTool))

	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, 6, f.logs.logs[0].TokensTotal)
}

func TestStreamProviderErrorBeforeFirstByte(t *testing.T) {
	provider := &mockProvider{
		streamFunc: func(_ context.Context, _ llm.CompletionRequest) (llm.Stream, error) {
			return nil, errors.New("connection reset")
		},
	}
	f := newFixture(t, provider)

	_, err := f.service.Stream(context.Background(), f.chatID, SendParams{Content: "hi"})
	require.Error(t, err)

	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, 500, f.logs.logs[0].StatusCode)
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, chat.RoleUser, f.messages.messages[0].Role)
}
