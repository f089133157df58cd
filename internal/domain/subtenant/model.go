package subtenant

import (
	"time"

	"github.com/google/uuid"
)

// Subtenant is an isolated end-user scope. Chats and memories hang off it
// and are removed with it.
type Subtenant struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Memory is a key/value fact attached to a subtenant, optionally injected
// into conversations as context.
type Memory struct {
	ID          uuid.UUID `json:"id"`
	SubtenantID uuid.UUID `json:"subtenant_id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
