package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// SubtenantHandler serves subtenant and memory endpoints.
type SubtenantHandler struct {
	service *subtenant.Service
	log     zerolog.Logger
}

// NewSubtenantHandler builds the handler.
func NewSubtenantHandler(service *subtenant.Service, log zerolog.Logger) *SubtenantHandler {
	return &SubtenantHandler{service: service, log: log}
}

// Create handles POST /v1/subtenants.
func (h *SubtenantHandler) Create(c *gin.Context) {
	st, err := h.service.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// List handles GET /v1/subtenants.
func (h *SubtenantHandler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/subtenants/:subtenant_id.
func (h *SubtenantHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	st, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Delete handles DELETE /v1/subtenants/:subtenant_id.
func (h *SubtenantHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMemory handles PUT /v1/subtenants/:subtenant_id/memories.
func (h *SubtenantHandler) SetMemory(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	var req dto.MemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid memory payload", err))
		return
	}
	m, err := h.service.SetMemory(c.Request.Context(), id, req.Key, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListMemories handles GET /v1/subtenants/:subtenant_id/memories.
func (h *SubtenantHandler) ListMemories(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	out, err := h.service.ListMemories(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetMemory handles GET /v1/subtenants/:subtenant_id/memories/:key.
func (h *SubtenantHandler) GetMemory(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	m, err := h.service.GetMemory(c.Request.Context(), id, c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMemory handles DELETE /v1/subtenants/:subtenant_id/memories/:key.
func (h *SubtenantHandler) DeleteMemory(c *gin.Context) {
	id, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	if err := h.service.DeleteMemory(c.Request.Context(), id, c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
