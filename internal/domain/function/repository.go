package function

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists registered functions. Names are unique.
type Repository interface {
	Create(ctx context.Context, f *RegisteredFunction) error
	FindByID(ctx context.Context, id uuid.UUID) (*RegisteredFunction, error)
	FindByName(ctx context.Context, name string) (*RegisteredFunction, error)
	ListActive(ctx context.Context) ([]RegisteredFunction, error)
	List(ctx context.Context) ([]RegisteredFunction, error)
	Update(ctx context.Context, f *RegisteredFunction) error
	Delete(ctx context.Context, id uuid.UUID) error
}
