package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// CreateParams carries the caller-supplied chat fields. AssistantID, when
// set, binds the chat to a preset for its whole lifetime.
type CreateParams struct {
	AssistantID      *uuid.UUID
	Title            *string
	EnabledFunctions []string
	EnabledMCPTools  []string
}

// UpdateParams carries optional field updates; nil fields are left unchanged.
type UpdateParams struct {
	Title            *string
	EnabledFunctions []string
	EnabledMCPTools  []string
}

// Service owns chat lifecycle and transcript reads.
type Service struct {
	repo       Repository
	messages   MessageRepository
	subtenants subtenant.Repository
	assistants assistant.Repository
	logger     zerolog.Logger
}

func NewService(
	repo Repository,
	messages MessageRepository,
	subtenants subtenant.Repository,
	assistants assistant.Repository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		messages:   messages,
		subtenants: subtenants,
		assistants: assistants,
		logger:     logger.With().Str("component", "chat_service").Logger(),
	}
}

// Create makes a chat under a subtenant. Binding an assistant copies its
// enabled tool lists as chat defaults (unless the caller set their own) and
// seeds the transcript with the assistant's system prompt.
func (s *Service) Create(ctx context.Context, subtenantID uuid.UUID, params CreateParams) (*Chat, error) {
	if _, err := s.subtenants.FindByID(ctx, subtenantID); err != nil {
		return nil, err
	}

	var preset *assistant.Assistant
	if params.AssistantID != nil {
		a, err := s.assistants.FindByID(ctx, *params.AssistantID)
		if err != nil {
			return nil, err
		}
		if !a.UsableBy(subtenantID) {
			return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeForbidden, "assistant %s belongs to another subtenant", a.ID)
		}
		if !a.IsActive {
			return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "assistant %s is inactive", a.ID)
		}
		preset = a
	}

	c := &Chat{
		ID:               uuid.New(),
		SubtenantID:      subtenantID,
		AssistantID:      params.AssistantID,
		Title:            params.Title,
		EnabledFunctions: params.EnabledFunctions,
		EnabledMCPTools:  params.EnabledMCPTools,
	}
	if preset != nil {
		if c.EnabledFunctions == nil {
			c.EnabledFunctions = preset.EnabledFunctions
		}
		if c.EnabledMCPTools == nil {
			c.EnabledMCPTools = preset.EnabledMCPTools
		}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if preset != nil && preset.SystemPrompt != nil && *preset.SystemPrompt != "" {
		seed := &Message{
			ID:      uuid.New(),
			ChatID:  c.ID,
			Role:    RoleSystem,
			Content: preset.SystemPrompt,
		}
		if err := s.messages.Create(ctx, seed); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("chat_id", c.ID.String()).
		Str("subtenant_id", subtenantID.String()).
		Msg("chat created")
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Chat, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, subtenantID uuid.UUID) ([]Chat, error) {
	if _, err := s.subtenants.FindByID(ctx, subtenantID); err != nil {
		return nil, err
	}
	return s.repo.ListBySubtenant(ctx, subtenantID)
}

// Update changes mutable chat fields. The assistant binding is immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Chat, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		c.Title = params.Title
	}
	if params.EnabledFunctions != nil {
		c.EnabledFunctions = params.EnabledFunctions
	}
	if params.EnabledMCPTools != nil {
		c.EnabledMCPTools = params.EnabledMCPTools
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the chat and its messages.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Messages returns the full ordered transcript.
func (s *Service) Messages(ctx context.Context, chatID uuid.UUID) ([]Message, error) {
	if _, err := s.repo.FindByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}
