package subtenant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Service owns subtenant lifecycle and the memory map attached to each one.
type Service struct {
	repo     Repository
	memories MemoryRepository
	logger   zerolog.Logger
}

func NewService(repo Repository, memories MemoryRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		memories: memories,
		logger:   logger.With().Str("component", "subtenant_service").Logger(),
	}
}

func (s *Service) Create(ctx context.Context) (*Subtenant, error) {
	st := &Subtenant{ID: uuid.New()}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info().Str("subtenant_id", st.ID.String()).Msg("subtenant created")
	return st, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Subtenant, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Subtenant, error) {
	return s.repo.List(ctx)
}

// Delete removes the subtenant; chats, messages and memories cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetMemory creates or replaces the memory stored under key.
func (s *Service) SetMemory(ctx context.Context, subtenantID uuid.UUID, key, value string) (*Memory, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "memory key must not be empty")
	}
	if _, err := s.repo.FindByID(ctx, subtenantID); err != nil {
		return nil, err
	}
	m := &Memory{ID: uuid.New(), SubtenantID: subtenantID, Key: key, Value: value}
	if err := s.memories.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetMemory(ctx context.Context, subtenantID uuid.UUID, key string) (*Memory, error) {
	return s.memories.FindByKey(ctx, subtenantID, key)
}

func (s *Service) ListMemories(ctx context.Context, subtenantID uuid.UUID) ([]Memory, error) {
	if _, err := s.repo.FindByID(ctx, subtenantID); err != nil {
		return nil, err
	}
	return s.memories.ListBySubtenant(ctx, subtenantID)
}

func (s *Service) DeleteMemory(ctx context.Context, subtenantID uuid.UUID, key string) error {
	if _, err := s.memories.FindByKey(ctx, subtenantID, key); err != nil {
		return err
	}
	return s.memories.Delete(ctx, subtenantID, key)
}
