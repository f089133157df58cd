package requestlog

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists request logs. Records are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, rl *RequestLog) error
	ListBySubtenant(ctx context.Context, subtenantID uuid.UUID, limit int) ([]RequestLog, error)
}
