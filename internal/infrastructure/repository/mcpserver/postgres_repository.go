package mcpserver

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists MCP server registrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an MCP server repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, s *domain.Server) error {
	entity := entities.NewSchemaMCPServer(s)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create MCP server", err)
	}
	s.CreatedAt = entity.CreatedAt
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Server, error) {
	var entity entities.MCPServer
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "MCP server not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch MCP server", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Server, error) {
	var entity entities.MCPServer
	if err := r.db.WithContext(ctx).First(&entity, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "MCP server not found: %s", name)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch MCP server", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Server, error) {
	return r.list(ctx, false)
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.Server, error) {
	return r.list(ctx, true)
}

func (r *Repository) list(ctx context.Context, activeOnly bool) ([]domain.Server, error) {
	query := r.db.WithContext(ctx).Model(&entities.MCPServer{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []entities.MCPServer
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list MCP servers", err)
	}
	out := make([]domain.Server, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, s *domain.Server) error {
	entity := entities.NewSchemaMCPServer(s)
	if err := r.db.WithContext(ctx).Model(&entities.MCPServer{ID: s.ID}).
		Updates(map[string]any{
			"url":               entity.URL,
			"protocol":          entity.Protocol,
			"api_key":           entity.APIKey,
			"is_active":         entity.IsActive,
			"last_connected":    entity.LastConnected,
			"connection_status": entity.ConnectionStatus,
			"error_message":     entity.ErrorMessage,
		}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to update MCP server", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.MCPServer{ID: id}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to delete MCP server", err)
	}
	return nil
}
