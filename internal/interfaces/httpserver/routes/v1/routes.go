package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerSubtenantRoutes(group, r.handlers.Subtenant, r.handlers.Chat)
	registerChatRoutes(group, r.handlers.Chat)
	registerAssistantRoutes(group, r.handlers.Assistant)
	registerFunctionRoutes(group, r.handlers.Function)
	registerToolRoutes(group, r.handlers.Function, r.handlers.Catalog)
	registerMCPRoutes(group, r.handlers.MCP)
	registerLLMRoutes(group, r.handlers.LLM)
}

func registerSubtenantRoutes(group *gin.RouterGroup, h *handlers.SubtenantHandler, chats *handlers.ChatHandler) {
	subtenants := group.Group("/subtenants")
	subtenants.POST("", h.Create)
	subtenants.GET("", h.List)
	subtenants.GET("/:subtenant_id", h.Get)
	subtenants.DELETE("/:subtenant_id", h.Delete)

	subtenants.PUT("/:subtenant_id/memories", h.SetMemory)
	subtenants.GET("/:subtenant_id/memories", h.ListMemories)
	subtenants.GET("/:subtenant_id/memories/:key", h.GetMemory)
	subtenants.DELETE("/:subtenant_id/memories/:key", h.DeleteMemory)

	subtenants.POST("/:subtenant_id/chats", chats.Create)
	subtenants.GET("/:subtenant_id/chats", chats.List)
}

func registerChatRoutes(group *gin.RouterGroup, h *handlers.ChatHandler) {
	chats := group.Group("/chats")
	chats.GET("/:chat_id", h.Get)
	chats.PATCH("/:chat_id", h.Update)
	chats.DELETE("/:chat_id", h.Delete)
	chats.GET("/:chat_id/messages", h.Messages)
	chats.POST("/:chat_id/messages", h.Send)
	chats.POST("/:chat_id/messages/stream", h.Stream)
}

func registerAssistantRoutes(group *gin.RouterGroup, h *handlers.AssistantHandler) {
	assistants := group.Group("/assistants")
	assistants.POST("", h.Create)
	assistants.GET("", h.List)
	assistants.GET("/:assistant_id", h.Get)
	assistants.PATCH("/:assistant_id", h.Update)
	assistants.DELETE("/:assistant_id", h.Delete)
}

func registerFunctionRoutes(group *gin.RouterGroup, h *handlers.FunctionHandler) {
	functions := group.Group("/functions")
	functions.GET("/definitions", h.Definitions)
	functions.POST("", h.Register)
	functions.GET("", h.List)
	functions.GET("/:function_id", h.Get)
	functions.PATCH("/:function_id", h.Update)
	functions.DELETE("/:function_id", h.Delete)
}

func registerToolRoutes(group *gin.RouterGroup, functions *handlers.FunctionHandler, catalog *handlers.CatalogHandler) {
	tools := group.Group("/tools")
	tools.GET("/available", catalog.Available)
	tools.GET("/names", catalog.Names)
	tools.POST("/:name/execute", functions.Execute)
}

func registerMCPRoutes(group *gin.RouterGroup, h *handlers.MCPHandler) {
	servers := group.Group("/mcp-servers")
	servers.POST("", h.Create)
	servers.GET("", h.List)
	servers.GET("/:server_id", h.Get)
	servers.PATCH("/:server_id", h.Update)
	servers.DELETE("/:server_id", h.Delete)
	servers.POST("/:server_id/connect", h.Connect)
	servers.POST("/:server_id/disconnect", h.Disconnect)
	servers.GET("/:server_id/tools", h.Tools)
}

func registerLLMRoutes(group *gin.RouterGroup, h *handlers.LLMHandler) {
	group.POST("/llm/complete", h.Complete)
	group.POST("/llm/stream", h.Stream)
}
