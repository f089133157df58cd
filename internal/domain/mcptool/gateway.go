package mcptool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

type remoteHandler struct {
	serverName string
	toolName   string
	transport  Transport
	descriptor ToolDescriptor
}

// Gateway is the process-scoped MCP client hub. It holds one transport per
// connected server and exposes every remote tool under the namespaced name
// "{server}_{tool}".
type Gateway struct {
	mu         sync.RWMutex
	transports map[string]Transport
	handlers   map[string]*remoteHandler
	factory    TransportFactory
	repo       Repository
	logger     zerolog.Logger
}

func NewGateway(factory TransportFactory, repo Repository, logger zerolog.Logger) *Gateway {
	return &Gateway{
		transports: make(map[string]Transport),
		handlers:   make(map[string]*remoteHandler),
		factory:    factory,
		repo:       repo,
		logger:     logger.With().Str("component", "mcp_gateway").Logger(),
	}
}

// NamespacedName builds the registry-wide unique tool name for a server tool.
func NamespacedName(server, tool string) string {
	return server + "_" + tool
}

func (g *Gateway) persistStatus(ctx context.Context, server *Server, status ConnectionStatus, connectErr error) {
	server.ConnectionStatus = status
	if connectErr != nil {
		msg := connectErr.Error()
		server.ErrorMessage = &msg
	} else {
		server.ErrorMessage = nil
	}
	if status == StatusConnected {
		now := time.Now().UTC()
		server.LastConnected = &now
	}
	if err := g.repo.Update(ctx, server); err != nil {
		g.logger.Error().Err(err).Str("server", server.Name).Msg("failed to persist connection status")
	}
}

// Connect dials the server, discovers its tools and installs a namespaced
// handler per tool. The outcome is persisted either way and the dial or
// discovery error returned.
func (g *Gateway) Connect(ctx context.Context, server *Server) error {
	g.persistStatus(ctx, server, StatusConnecting, nil)

	transport, err := g.factory.Dial(ctx, server)
	if err != nil {
		g.persistStatus(ctx, server, StatusError, err)
		return apperrors.New(apperrors.LayerDomain, apperrors.ErrorTypeUpstream,
			fmt.Sprintf("connect to MCP server %s", server.Name), err)
	}
	tools, err := transport.ListTools(ctx)
	if err != nil {
		_ = transport.Close()
		g.persistStatus(ctx, server, StatusError, err)
		return apperrors.New(apperrors.LayerDomain, apperrors.ErrorTypeUpstream,
			fmt.Sprintf("list tools on MCP server %s", server.Name), err)
	}

	g.mu.Lock()
	if old, ok := g.transports[server.Name]; ok {
		_ = old.Close()
		g.removeHandlersLocked(server.Name)
	}
	g.transports[server.Name] = transport
	for _, t := range tools {
		g.handlers[NamespacedName(server.Name, t.Name)] = &remoteHandler{
			serverName: server.Name,
			toolName:   t.Name,
			transport:  transport,
			descriptor: t,
		}
	}
	g.mu.Unlock()

	g.persistStatus(ctx, server, StatusConnected, nil)
	g.logger.Info().Str("server", server.Name).Int("tools", len(tools)).Msg("MCP server connected")
	return nil
}

func (g *Gateway) removeHandlersLocked(serverName string) {
	prefix := serverName + "_"
	for name := range g.handlers {
		if strings.HasPrefix(name, prefix) {
			delete(g.handlers, name)
		}
	}
}

// Disconnect drops the server's transport and every handler it contributed.
func (g *Gateway) Disconnect(ctx context.Context, server *Server) error {
	g.mu.Lock()
	if transport, ok := g.transports[server.Name]; ok {
		_ = transport.Close()
		delete(g.transports, server.Name)
	}
	g.removeHandlersLocked(server.Name)
	g.mu.Unlock()

	g.persistStatus(ctx, server, StatusDisconnected, nil)
	g.logger.Info().Str("server", server.Name).Msg("MCP server disconnected")
	return nil
}

// IsLoaded reports whether the named server currently has a live transport.
func (g *Gateway) IsLoaded(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.transports[name]
	return ok
}

// reconcile connects any active durable server that has no live transport
// yet. Failures are recorded on the server row and skipped.
func (g *Gateway) reconcile(ctx context.Context) error {
	servers, err := g.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	for i := range servers {
		s := &servers[i]
		if g.IsLoaded(s.Name) {
			continue
		}
		if err := g.Connect(ctx, s); err != nil {
			g.logger.Warn().Err(err).Str("server", s.Name).Msg("lazy MCP connect failed")
		}
	}
	return nil
}

// Definitions reconciles active servers and returns the namespaced schema
// list of every reachable remote tool.
func (g *Gateway) Definitions(ctx context.Context) ([]llm.ToolDefinition, error) {
	if err := g.reconcile(ctx); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	defs := make([]llm.ToolDefinition, 0, len(g.handlers))
	for name, h := range g.handlers {
		defs = append(defs, llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        name,
				Description: h.descriptor.Description,
				Parameters:  translateSchema(h.descriptor.InputSchema),
			},
		})
	}
	return defs, nil
}

// translateSchema passes the advertised JSON Schema through unchanged,
// defaulting to an empty object schema when the server sent none.
func translateSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return schema
}

// ServerTools lists the tools a single connected server advertises.
func (g *Gateway) ServerTools(ctx context.Context, serverName string) ([]ToolDescriptor, error) {
	if err := g.reconcile(ctx); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.transports[serverName]; !ok {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "MCP server %s is not connected", serverName)
	}
	prefix := serverName + "_"
	tools := make([]ToolDescriptor, 0)
	for name, h := range g.handlers {
		if strings.HasPrefix(name, prefix) {
			tools = append(tools, h.descriptor)
		}
	}
	return tools, nil
}

// Execute dispatches a namespaced tool call to its owning server.
func (g *Gateway) Execute(ctx context.Context, namespacedName string, args map[string]any) (any, error) {
	g.mu.RLock()
	h, ok := g.handlers[namespacedName]
	g.mu.RUnlock()
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "MCP tool %s not found", namespacedName)
	}
	result, err := h.transport.CallTool(ctx, h.toolName, args)
	if err != nil {
		return nil, apperrors.New(apperrors.LayerDomain, apperrors.ErrorTypeUpstream,
			fmt.Sprintf("call MCP tool %s", namespacedName), err)
	}
	return result, nil
}
