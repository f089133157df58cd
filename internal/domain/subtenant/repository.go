package subtenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists subtenants.
type Repository interface {
	Create(ctx context.Context, s *Subtenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subtenant, error)
	List(ctx context.Context) ([]Subtenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryRepository persists subtenant memories. Upsert replaces the value
// when the (subtenant, key) pair already exists.
type MemoryRepository interface {
	Upsert(ctx context.Context, m *Memory) error
	FindByKey(ctx context.Context, subtenantID uuid.UUID, key string) (*Memory, error)
	ListBySubtenant(ctx context.Context, subtenantID uuid.UUID) ([]Memory, error)
	Delete(ctx context.Context, subtenantID uuid.UUID, key string) error
}
