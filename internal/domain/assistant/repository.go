package assistant

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists assistants. List filters to a subtenant's own plus
// global assistants; includeInactive widens the result to soft-deleted ones.
type Repository interface {
	Create(ctx context.Context, a *Assistant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Assistant, error)
	List(ctx context.Context, subtenantID *uuid.UUID, includeInactive bool) ([]Assistant, error)
	Update(ctx context.Context, a *Assistant) error
}
