package subtenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/pulsr-ai/lingua/internal/domain/subtenant"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists subtenants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a subtenant repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, s *domain.Subtenant) error {
	entity := entities.NewSchemaSubtenant(s)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create subtenant", err)
	}
	s.CreatedAt = entity.CreatedAt
	s.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subtenant, error) {
	var entity entities.Subtenant
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "subtenant not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch subtenant", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Subtenant, error) {
	var rows []entities.Subtenant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list subtenants", err)
	}
	out := make([]domain.Subtenant, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&entities.Subtenant{ID: id}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, fmt.Sprintf("failed to delete subtenant %s", id), err)
	}
	return nil
}

// MemoryRepository persists subtenant memories.
type MemoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository builds a memory repository.
func NewMemoryRepository(db *gorm.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

// Upsert inserts the memory or replaces the value stored under the same
// (subtenant, key) pair.
func (r *MemoryRepository) Upsert(ctx context.Context, m *domain.Memory) error {
	entity := entities.NewSchemaMemory(m)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subtenant_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entity).Error
	if err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to upsert memory", err)
	}
	m.CreatedAt = entity.CreatedAt
	m.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *MemoryRepository) FindByKey(ctx context.Context, subtenantID uuid.UUID, key string) (*domain.Memory, error) {
	var entity entities.Memory
	if err := r.db.WithContext(ctx).First(&entity, "subtenant_id = ? AND key = ?", subtenantID, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "memory not found: %s", key)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch memory", err)
	}
	return entity.EtoD(), nil
}

func (r *MemoryRepository) ListBySubtenant(ctx context.Context, subtenantID uuid.UUID) ([]domain.Memory, error) {
	var rows []entities.Memory
	if err := r.db.WithContext(ctx).Where("subtenant_id = ?", subtenantID).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list memories", err)
	}
	out := make([]domain.Memory, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, subtenantID uuid.UUID, key string) error {
	if err := r.db.WithContext(ctx).Where("subtenant_id = ? AND key = ?", subtenantID, key).Delete(&entities.Memory{}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to delete memory", err)
	}
	return nil
}
