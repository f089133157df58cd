package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// AssistantHandler serves assistant endpoints.
type AssistantHandler struct {
	service *assistant.Service
	log     zerolog.Logger
}

// NewAssistantHandler builds the handler.
func NewAssistantHandler(service *assistant.Service, log zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{service: service, log: log}
}

// Create handles POST /v1/assistants.
func (h *AssistantHandler) Create(c *gin.Context) {
	var req dto.CreateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid assistant payload", err))
		return
	}
	out, err := h.service.Create(c.Request.Context(), assistant.CreateParams{
		SubtenantID:        req.SubtenantID,
		Name:               req.Name,
		Description:        req.Description,
		SystemPrompt:       req.SystemPrompt,
		EnabledFunctions:   req.EnabledFunctions,
		EnabledMCPTools:    req.EnabledMCPTools,
		FunctionParameters: req.FunctionParameters,
		MCPToolParameters:  req.MCPToolParameters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// List handles GET /v1/assistants with optional ?subtenant_id= and
// ?include_inactive=true filters.
func (h *AssistantHandler) List(c *gin.Context) {
	var subtenantID *uuid.UUID
	if raw := c.Query("subtenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.Newf(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid subtenant_id: %s", raw))
			return
		}
		subtenantID = &id
	}
	includeInactive := c.Query("include_inactive") == "true"
	out, err := h.service.List(c.Request.Context(), subtenantID, includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/assistants/:assistant_id.
func (h *AssistantHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "assistant_id")
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

// Update handles PATCH /v1/assistants/:assistant_id.
func (h *AssistantHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "assistant_id")
	if !ok {
		return
	}
	var req dto.UpdateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid assistant payload", err))
		return
	}
	out, err := h.service.Update(c.Request.Context(), id, assistant.UpdateParams{
		Name:               req.Name,
		Description:        req.Description,
		SystemPrompt:       req.SystemPrompt,
		EnabledFunctions:   req.EnabledFunctions,
		EnabledMCPTools:    req.EnabledMCPTools,
		FunctionParameters: req.FunctionParameters,
		MCPToolParameters:  req.MCPToolParameters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/assistants/:assistant_id (soft delete).
func (h *AssistantHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "assistant_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
