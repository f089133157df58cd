package function

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists registered functions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a registered-function repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, f *domain.RegisteredFunction) error {
	entity := entities.NewSchemaRegisteredFunction(f)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create function", err)
	}
	f.CreatedAt = entity.CreatedAt
	f.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.RegisteredFunction, error) {
	var entity entities.RegisteredFunction
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "function not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch function", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*domain.RegisteredFunction, error) {
	var entity entities.RegisteredFunction
	if err := r.db.WithContext(ctx).First(&entity, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "function not found: %s", name)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch function", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.RegisteredFunction, error) {
	return r.list(ctx, true)
}

func (r *Repository) List(ctx context.Context) ([]domain.RegisteredFunction, error) {
	return r.list(ctx, false)
}

func (r *Repository) list(ctx context.Context, activeOnly bool) ([]domain.RegisteredFunction, error) {
	query := r.db.WithContext(ctx).Model(&entities.RegisteredFunction{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []entities.RegisteredFunction
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list functions", err)
	}
	out := make([]domain.RegisteredFunction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, f *domain.RegisteredFunction) error {
	entity := entities.NewSchemaRegisteredFunction(f)
	if err := r.db.WithContext(ctx).Model(&entities.RegisteredFunction{ID: f.ID}).
		Updates(map[string]any{
			"description": entity.Description,
			"parameters":  entity.Parameters,
			"code":        entity.Code,
			"is_active":   entity.IsActive,
		}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to update function", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.RegisteredFunction{ID: id}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to delete function", err)
	}
	return nil
}
