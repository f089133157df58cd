package assistant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

const maxNameLength = 255

// CreateParams carries the caller-supplied assistant fields.
type CreateParams struct {
	SubtenantID        *uuid.UUID
	Name               string
	Description        *string
	SystemPrompt       *string
	EnabledFunctions   []string
	EnabledMCPTools    []string
	FunctionParameters map[string]any
	MCPToolParameters  map[string]any
}

// UpdateParams carries optional field updates; nil fields are left unchanged.
type UpdateParams struct {
	Name               *string
	Description        *string
	SystemPrompt       *string
	EnabledFunctions   []string
	EnabledMCPTools    []string
	FunctionParameters map[string]any
	MCPToolParameters  map[string]any
}

// Service owns assistant lifecycle. Deletion is soft: the record is kept and
// is_active flipped off so existing chats stay interpretable.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "assistant_service").Logger(),
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "assistant name must not be empty")
	}
	if len(name) > maxNameLength {
		return "", apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "assistant name exceeds %d characters", maxNameLength)
	}
	return name, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Assistant, error) {
	name, err := validateName(params.Name)
	if err != nil {
		return nil, err
	}
	a := &Assistant{
		ID:                 uuid.New(),
		SubtenantID:        params.SubtenantID,
		Name:               name,
		Description:        params.Description,
		SystemPrompt:       params.SystemPrompt,
		EnabledFunctions:   params.EnabledFunctions,
		EnabledMCPTools:    params.EnabledMCPTools,
		FunctionParameters: params.FunctionParameters,
		MCPToolParameters:  params.MCPToolParameters,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("assistant_id", a.ID.String()).Str("name", a.Name).Msg("assistant created")
	return a, nil
}

// Get returns the assistant. Soft-deleted records are hidden from lookups.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Assistant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "assistant not found: %s", id)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, subtenantID *uuid.UUID, includeInactive bool) ([]Assistant, error) {
	return s.repo.List(ctx, subtenantID, includeInactive)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Assistant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		name, err := validateName(*params.Name)
		if err != nil {
			return nil, err
		}
		a.Name = name
	}
	if params.Description != nil {
		a.Description = params.Description
	}
	if params.SystemPrompt != nil {
		a.SystemPrompt = params.SystemPrompt
	}
	if params.EnabledFunctions != nil {
		a.EnabledFunctions = params.EnabledFunctions
	}
	if params.EnabledMCPTools != nil {
		a.EnabledMCPTools = params.EnabledMCPTools
	}
	if params.FunctionParameters != nil {
		a.FunctionParameters = params.FunctionParameters
	}
	if params.MCPToolParameters != nil {
		a.MCPToolParameters = params.MCPToolParameters
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete deactivates the assistant. Chats already bound to it keep working.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.IsActive {
		return nil
	}
	a.IsActive = false
	return s.repo.Update(ctx, a)
}
