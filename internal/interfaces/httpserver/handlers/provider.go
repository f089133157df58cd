package handlers

import (
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/domain/catalog"
	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/domain/orchestrator"
	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Subtenant *SubtenantHandler
	Chat      *ChatHandler
	Assistant *AssistantHandler
	Function  *FunctionHandler
	Catalog   *CatalogHandler
	MCP       *MCPHandler
	LLM       *LLMHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	subtenants *subtenant.Service,
	chats *chat.Service,
	assistants *assistant.Service,
	functions *function.Service,
	registry *function.Registry,
	aggregator *catalog.Aggregator,
	mcpServers *mcptool.Service,
	orch *orchestrator.Service,
	providers llm.ProviderFactory,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Subtenant: NewSubtenantHandler(subtenants, log),
		Chat:      NewChatHandler(chats, orch, log),
		Assistant: NewAssistantHandler(assistants, log),
		Function:  NewFunctionHandler(functions, registry, log),
		Catalog:   NewCatalogHandler(aggregator, log),
		MCP:       NewMCPHandler(mcpServers, log),
		LLM:       NewLLMHandler(providers, log),
	}
}
