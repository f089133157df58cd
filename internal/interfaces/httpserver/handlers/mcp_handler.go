package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// MCPHandler serves MCP server endpoints.
type MCPHandler struct {
	service *mcptool.Service
	log     zerolog.Logger
}

// NewMCPHandler builds the handler.
func NewMCPHandler(service *mcptool.Service, log zerolog.Logger) *MCPHandler {
	return &MCPHandler{service: service, log: log}
}

// Create handles POST /v1/mcp-servers.
func (h *MCPHandler) Create(c *gin.Context) {
	var req dto.CreateMCPServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid MCP server payload", err))
		return
	}
	out, err := h.service.Create(c.Request.Context(), mcptool.CreateParams{
		Name:     req.Name,
		URL:      req.URL,
		Protocol: req.Protocol,
		APIKey:   req.APIKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// List handles GET /v1/mcp-servers.
func (h *MCPHandler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/mcp-servers/:server_id.
func (h *MCPHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	out, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /v1/mcp-servers/:server_id.
func (h *MCPHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	var req dto.UpdateMCPServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid MCP server payload", err))
		return
	}
	out, err := h.service.Update(c.Request.Context(), id, mcptool.UpdateParams{
		URL:      req.URL,
		Protocol: req.Protocol,
		APIKey:   req.APIKey,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/mcp-servers/:server_id.
func (h *MCPHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Connect handles POST /v1/mcp-servers/:server_id/connect.
func (h *MCPHandler) Connect(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	srv, err := h.service.Connect(c.Request.Context(), id)
	if err != nil {
		// The failure is persisted on the server row; return it alongside.
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "server": srv})
		return
	}
	c.JSON(http.StatusOK, srv)
}

// Disconnect handles POST /v1/mcp-servers/:server_id/disconnect.
func (h *MCPHandler) Disconnect(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	srv, err := h.service.Disconnect(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, srv)
}

// Tools handles GET /v1/mcp-servers/:server_id/tools.
func (h *MCPHandler) Tools(c *gin.Context) {
	id, ok := pathUUID(c, "server_id")
	if !ok {
		return
	}
	tools, err := h.service.Tools(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}
