package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/dto"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// LLMHandler serves the direct completion passthrough, bypassing chats.
type LLMHandler struct {
	providers llm.ProviderFactory
	log       zerolog.Logger
}

// NewLLMHandler builds the handler.
func NewLLMHandler(providers llm.ProviderFactory, log zerolog.Logger) *LLMHandler {
	return &LLMHandler{providers: providers, log: log}
}

// Complete handles POST /v1/llm/complete.
func (h *LLMHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid completion payload", err))
		return
	}
	provider, err := h.providers.Create(req.Provider)
	if err != nil {
		respondError(c, err)
		return
	}
	completion := llm.CompletionRequest{
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Model != nil {
		completion.Model = *req.Model
	}
	resp, err := provider.Complete(c.Request.Context(), completion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stream handles POST /v1/llm/stream with SSE output.
func (h *LLMHandler) Stream(c *gin.Context) {
	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.LayerHandler, apperrors.ErrorTypeValidation, "invalid completion payload", err))
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, apperrors.Newf(apperrors.LayerHandler, apperrors.ErrorTypeInternal, "streaming not supported"))
		return
	}
	provider, err := h.providers.Create(req.Provider)
	if err != nil {
		respondError(c, err)
		return
	}
	completion := llm.CompletionRequest{
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Model != nil {
		completion.Model = *req.Model
	}

	stream, err := provider.Stream(c.Request.Context(), completion)
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			fmt.Fprint(c.Writer, "data: [DONE]\n\n")
			flusher.Flush()
			return
		}
		if err != nil {
			// Headers are already out; all we can do is stop the stream.
			h.log.Warn().Err(err).Msg("llm stream aborted")
			return
		}
		payload, err := json.Marshal(gin.H{"content": delta})
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
