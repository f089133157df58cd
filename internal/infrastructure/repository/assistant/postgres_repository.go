package assistant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/pulsr-ai/lingua/internal/domain/assistant"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists assistants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an assistant repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *domain.Assistant) error {
	entity := entities.NewSchemaAssistant(a)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create assistant", err)
	}
	a.CreatedAt = entity.CreatedAt
	a.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Assistant, error) {
	var entity entities.Assistant
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "assistant not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch assistant", err)
	}
	return entity.EtoD(), nil
}

// List returns global assistants plus, when subtenantID is set, that
// subtenant's own.
func (r *Repository) List(ctx context.Context, subtenantID *uuid.UUID, includeInactive bool) ([]domain.Assistant, error) {
	query := r.db.WithContext(ctx).Model(&entities.Assistant{})
	if subtenantID != nil {
		query = query.Where("subtenant_id IS NULL OR subtenant_id = ?", *subtenantID)
	}
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var rows []entities.Assistant
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list assistants", err)
	}
	out := make([]domain.Assistant, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, a *domain.Assistant) error {
	entity := entities.NewSchemaAssistant(a)
	if err := r.db.WithContext(ctx).Model(&entities.Assistant{ID: a.ID}).
		Updates(map[string]any{
			"name":                entity.Name,
			"description":         entity.Description,
			"system_prompt":       entity.SystemPrompt,
			"enabled_functions":   entity.EnabledFunctions,
			"enabled_mcp_tools":   entity.EnabledMCPTools,
			"function_parameters": entity.FunctionParameters,
			"mcp_tool_parameters": entity.MCPToolParameters,
			"is_active":           entity.IsActive,
		}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to update assistant", err)
	}
	return nil
}
