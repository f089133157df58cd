package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/catalog"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// CatalogHandler serves the combined tool catalog, local functions and MCP
// tools side by side.
type CatalogHandler struct {
	aggregator *catalog.Aggregator
	log        zerolog.Logger
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(aggregator *catalog.Aggregator, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{aggregator: aggregator, log: log}
}

// Available handles GET /v1/tools/available.
func (h *CatalogHandler) Available(c *gin.Context) {
	functions, mcpTools, err := h.aggregator.Available(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"functions": summarize(functions),
		"mcp_tools": summarize(mcpTools),
	})
}

// Names handles GET /v1/tools/names.
func (h *CatalogHandler) Names(c *gin.Context) {
	functions, mcpTools, err := h.aggregator.Available(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"functions": namesOf(functions),
		"mcp_tools": namesOf(mcpTools),
	})
}

func summarize(defs []llm.ToolDefinition) []gin.H {
	out := make([]gin.H, 0, len(defs))
	for _, d := range defs {
		out = append(out, gin.H{
			"name":        d.Function.Name,
			"description": d.Function.Description,
			"parameters":  d.Function.Parameters,
		})
	}
	return out
}

func namesOf(defs []llm.ToolDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Function.Name)
	}
	return out
}
