package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/pulsr-ai/lingua/internal/domain/chat"
	"github.com/pulsr-ai/lingua/internal/infrastructure/database/entities"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Repository persists chats.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a chat repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *domain.Chat) error {
	entity := entities.NewSchemaChat(c)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create chat", err)
	}
	c.CreatedAt = entity.CreatedAt
	c.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	var entity entities.Chat
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "chat not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch chat", err)
	}
	return entity.EtoD(), nil
}

func (r *Repository) ListBySubtenant(ctx context.Context, subtenantID uuid.UUID) ([]domain.Chat, error) {
	var rows []entities.Chat
	if err := r.db.WithContext(ctx).
		Where("subtenant_id = ?", subtenantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list chats", err)
	}
	out := make([]domain.Chat, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, c *domain.Chat) error {
	entity := entities.NewSchemaChat(c)
	if err := r.db.WithContext(ctx).Model(&entities.Chat{ID: c.ID}).
		Select("title", "enabled_functions", "enabled_mcp_tools").
		Updates(map[string]any{
			"title":             entity.Title,
			"enabled_functions": entity.EnabledFunctions,
			"enabled_mcp_tools": entity.EnabledMCPTools,
		}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, fmt.Sprintf("failed to update chat %s", c.ID), err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(&entities.Chat{ID: id}).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, fmt.Sprintf("failed to delete chat %s", id), err)
	}
	return nil
}

// MessageRepository persists transcript entries.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	entity := entities.NewSchemaMessage(m)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to create message", err)
	}
	m.CreatedAt = entity.CreatedAt
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var entity entities.Message
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "message not found: %s", id)
		}
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to fetch message", err)
	}
	return entity.EtoD(), nil
}

// ListByChat returns the transcript oldest first; the insertion sequence
// breaks created_at ties.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, seq ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.New(apperrors.LayerRepository, apperrors.ErrorTypeDatabase, "failed to list messages", err)
	}
	out := make([]domain.Message, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].EtoD())
	}
	return out, nil
}
