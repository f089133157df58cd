package requestlog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/pulsr-ai/lingua/internal/domain/requestlog"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists the append-only request log.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a request log repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rl *domain.RequestLog) error {
	entity := entities.NewSchemaRequestLog(rl)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create request log", err)
	}
	rl.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListBySubtenant(ctx context.Context, subtenantID uuid.UUID, limit int) ([]domain.RequestLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []entities.RequestLog
	if err := r.db.WithContext(ctx).
		Where("subtenant_id = ?", subtenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list request logs", err)
	}
	out := make([]domain.RequestLog, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}
