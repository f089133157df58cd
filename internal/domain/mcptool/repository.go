package mcptool

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists MCP server registrations. Names are unique.
type Repository interface {
	Create(ctx context.Context, s *Server) error
	FindByID(ctx context.Context, id uuid.UUID) (*Server, error)
	FindByName(ctx context.Context, name string) (*Server, error)
	List(ctx context.Context) ([]Server, error)
	ListActive(ctx context.Context) ([]Server, error)
	Update(ctx context.Context, s *Server) error
	Delete(ctx context.Context, id uuid.UUID) error
}
