package chat

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists chats.
type Repository interface {
	Create(ctx context.Context, c *Chat) error
	FindByID(ctx context.Context, id uuid.UUID) (*Chat, error)
	ListBySubtenant(ctx context.Context, subtenantID uuid.UUID) ([]Chat, error)
	Update(ctx context.Context, c *Chat) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageRepository persists transcript entries. ListByChat returns messages
// ordered oldest first, insertion order breaking created_at ties.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]Message, error)
}
