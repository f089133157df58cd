package function

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// RegisterParams carries the caller-supplied dynamic function fields.
type RegisterParams struct {
	Name        string
	Description string
	Parameters  map[string]Parameter
	Code        string
}

// UpdateParams carries optional field updates; nil fields are left unchanged.
type UpdateParams struct {
	Description *string
	Parameters  map[string]Parameter
	Code        *string
	IsActive    *bool
}

// Service owns durable dynamic-function CRUD. Every mutation re-validates
// the script source and evicts the registry's compiled cache so the next
// execution picks up the stored version.
type Service struct {
	repo     Repository
	registry *Registry
	engine   ScriptEngine
	logger   zerolog.Logger
}

func NewService(repo Repository, registry *Registry, engine ScriptEngine, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		engine:   engine,
		logger:   logger.With().Str("component", "function_service").Logger(),
	}
}

func (s *Service) validate(f *RegisteredFunction) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "function name must not be empty")
	}
	for pname, p := range f.Parameters {
		if p.Type == "" {
			return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "parameter %s is missing a type", pname)
		}
	}
	if _, err := s.engine.Compile(f); err != nil {
		return err
	}
	return nil
}

// Register validates and stores a new dynamic function.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*RegisteredFunction, error) {
	f := &RegisteredFunction{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Parameters:  params.Parameters,
		Code:        params.Code,
		IsActive:    true,
	}
	if err := s.validate(f); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByName(ctx, f.Name); err == nil {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeConflict, "function %s already exists", f.Name)
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.registry.InvalidateDynamic(f.Name)
	s.logger.Info().Str("function", f.Name).Msg("dynamic function registered")
	return f, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RegisteredFunction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]RegisteredFunction, error) {
	return s.repo.List(ctx)
}

// Update modifies a stored function. A code change re-runs validation
// against the new source before anything is written.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*RegisteredFunction, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Description != nil {
		f.Description = *params.Description
	}
	if params.Parameters != nil {
		f.Parameters = params.Parameters
	}
	if params.Code != nil {
		f.Code = *params.Code
	}
	if params.IsActive != nil {
		f.IsActive = *params.IsActive
	}
	if params.Code != nil || params.Parameters != nil {
		if err := s.validate(f); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.registry.InvalidateDynamic(f.Name)
	return f, nil
}

// Delete removes the durable record and the compiled cache entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.registry.InvalidateDynamic(f.Name)
	s.logger.Info().Str("function", f.Name).Msg("dynamic function deleted")
	return nil
}
