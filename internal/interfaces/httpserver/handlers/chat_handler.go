package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/domain/orchestrator"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// ChatHandler serves chat, message and send endpoints.
type ChatHandler struct {
	chats        *chat.Service
	orchestrator *orchestrator.Service
	log          zerolog.Logger
}

// NewChatHandler builds the handler.
func NewChatHandler(chats *chat.Service, orch *orchestrator.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, orchestrator: orch, log: log}
}

// Create handles POST /v1/subtenants/:subtenant_id/chats.
func (h *ChatHandler) Create(c *gin.Context) {
	subtenantID, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid chat payload", err))
		return
	}
	out, err := h.chats.Create(c.Request.Context(), subtenantID, chat.CreateParams{
		AssistantID:      req.AssistantID,
		Title:            req.Title,
		EnabledFunctions: req.EnabledFunctions,
		EnabledMCPTools:  req.EnabledMCPTools,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// List handles GET /v1/subtenants/:subtenant_id/chats.
func (h *ChatHandler) List(c *gin.Context) {
	subtenantID, ok := pathUUID(c, "subtenant_id")
	if !ok {
		return
	}
	out, err := h.chats.List(c.Request.Context(), subtenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/chats/:chat_id.
func (h *ChatHandler) Get(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	out, err := h.chats.Get(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /v1/chats/:chat_id.
func (h *ChatHandler) Update(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	var req dto.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid chat payload", err))
		return
	}
	out, err := h.chats.Update(c.Request.Context(), chatID, chat.UpdateParams{
		Title:            req.Title,
		EnabledFunctions: req.EnabledFunctions,
		EnabledMCPTools:  req.EnabledMCPTools,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/chats/:chat_id.
func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	if err := h.chats.Delete(c.Request.Context(), chatID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Messages handles GET /v1/chats/:chat_id/messages.
func (h *ChatHandler) Messages(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	out, err := h.chats.Messages(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func sendParams(req dto.SendMessageRequest, provider string) orchestrator.SendParams {
	return orchestrator.SendParams{
		Content:           req.Content,
		Provider:          provider,
		Model:             req.Model,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
		IncludeMemories:   req.IncludeMemories,
		EnabledFunctions:  req.EnabledFunctions,
		DisabledFunctions: req.DisabledFunctions,
		EnabledMCPTools:   req.EnabledMCPTools,
		DisabledMCPTools:  req.DisabledMCPTools,
	}
}

// Send handles POST /v1/chats/:chat_id/messages.
func (h *ChatHandler) Send(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid message payload", err))
		return
	}
	result, err := h.orchestrator.Send(c.Request.Context(), chatID, sendParams(req, c.Query("provider")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stream handles POST /v1/chats/:chat_id/messages/stream with SSE output.
func (h *ChatHandler) Stream(c *gin.Context) {
	chatID, ok := pathUUID(c, "chat_id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid message payload", err))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, apperrors.Newf(apperrors.LayerHandler, apperrors.ErrorTypeInternal, "streaming not supported"))
		return
	}

	events, err := h.orchestrator.Stream(c.Request.Context(), chatID, sendParams(req, c.Query("provider")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for event := range events {
		if event.Done {
			fmt.Fprint(c.Writer, "data: [DONE]\n\n")
			flusher.Flush()
			return
		}
		payload, err := json.Marshal(gin.H{"content": event.Content})
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
	}
	// Channel closed without the done sentinel: the stream failed upstream.
	h.log.Warn().Str("chat_id", chatID.String()).Msg("stream ended without done sentinel")
}
