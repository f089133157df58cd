package mcptool

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// CreateParams carries the caller-supplied MCP server registration fields.
type CreateParams struct {
	Name     string
	URL      string
	Protocol Protocol
	APIKey   string
}

// UpdateParams carries optional field updates; nil fields are left unchanged.
type UpdateParams struct {
	URL      *string
	Protocol *Protocol
	APIKey   *string
	IsActive *bool
}

// Service owns MCP server registrations and drives the gateway for
// connect/disconnect.
type Service struct {
	repo    Repository
	gateway *Gateway
	logger  zerolog.Logger
}

func NewService(repo Repository, gateway *Gateway, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		logger:  logger.With().Str("component", "mcp_service").Logger(),
	}
}

func validateParams(name string, protocol Protocol, url string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "server name must not be empty")
	}
	if strings.Contains(name, "_") {
		return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "server name must not contain underscores")
	}
	if url == "" {
		return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "server url must not be empty")
	}
	if protocol != ProtocolWebSocket && protocol != ProtocolHTTP {
		return apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeValidation, "protocol must be websocket or http")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Server, error) {
	name := strings.TrimSpace(params.Name)
	if err := validateParams(name, params.Protocol, params.URL); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeConflict, "MCP server %s already exists", name)
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	srv := &Server{
		ID:               uuid.New(),
		Name:             name,
		URL:              params.URL,
		Protocol:         params.Protocol,
		APIKey:           params.APIKey,
		IsActive:         true,
		ConnectionStatus: StatusDisconnected,
	}
	if err := s.repo.Create(ctx, srv); err != nil {
		return nil, err
	}
	s.logger.Info().Str("server", srv.Name).Msg("MCP server registered")
	return srv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Server, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Server, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Server, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.URL != nil {
		srv.URL = *params.URL
	}
	if params.Protocol != nil {
		srv.Protocol = *params.Protocol
	}
	if params.APIKey != nil {
		srv.APIKey = *params.APIKey
	}
	if params.IsActive != nil {
		srv.IsActive = *params.IsActive
	}
	if err := validateParams(srv.Name, srv.Protocol, srv.URL); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, srv); err != nil {
		return nil, err
	}
	// A changed endpoint or credential invalidates any live connection.
	if s.gateway.IsLoaded(srv.Name) {
		if err := s.gateway.Disconnect(ctx, srv); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.gateway.IsLoaded(srv.Name) {
		if err := s.gateway.Disconnect(ctx, srv); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// Connect dials the registered server now instead of waiting for the next
// lazy reconcile.
func (s *Service) Connect(ctx context.Context, id uuid.UUID) (*Server, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.Connect(ctx, srv); err != nil {
		return srv, err
	}
	return srv, nil
}

func (s *Service) Disconnect(ctx context.Context, id uuid.UUID) (*Server, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.Disconnect(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// Tools lists the tools the server currently advertises.
func (s *Service) Tools(ctx context.Context, id uuid.UUID) ([]ToolDescriptor, error) {
	srv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.gateway.ServerTools(ctx, srv.Name)
}
