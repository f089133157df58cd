package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// FunctionHandler serves dynamic function endpoints.
type FunctionHandler struct {
	service  *function.Service
	registry *function.Registry
	log      zerolog.Logger
}

// NewFunctionHandler builds the handler.
func NewFunctionHandler(service *function.Service, registry *function.Registry, log zerolog.Logger) *FunctionHandler {
	return &FunctionHandler{service: service, registry: registry, log: log}
}

// Definitions handles GET /v1/functions/definitions: the live tool schemas,
// built-ins included.
func (h *FunctionHandler) Definitions(c *gin.Context) {
	defs, err := h.registry.Definitions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"definitions": defs})
}

// List handles GET /v1/functions.
func (h *FunctionHandler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Register handles POST /v1/functions.
func (h *FunctionHandler) Register(c *gin.Context) {
	var req dto.RegisterFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid function payload", err))
		return
	}
	out, err := h.service.Register(c.Request.Context(), function.RegisterParams{
		Name:        req.Name,
		Description: req.Description,
		Parameters:  req.Parameters,
		Code:        req.Code,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Get handles GET /v1/functions/:function_id.
func (h *FunctionHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "function_id")
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

// Update handles PATCH /v1/functions/:function_id.
func (h *FunctionHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "function_id")
	if !ok {
		return
	}
	var req dto.UpdateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid function payload", err))
		return
	}
	out, err := h.service.Update(c.Request.Context(), id, function.UpdateParams{
		Description: req.Description,
		Parameters:  req.Parameters,
		Code:        req.Code,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/functions/:function_id.
func (h *FunctionHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "function_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Execute handles POST /v1/tools/:name/execute.
func (h *FunctionHandler) Execute(c *gin.Context) {
	var req dto.ExecuteFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid execute payload", err))
		return
	}
	result, err := h.registry.Execute(c.Request.Context(), c.Param("name"), req.Arguments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
