package function

import (
	"time"

	"github.com/google/uuid"
)

// RegisteredFunction is a durably stored dynamic tool. Code holds the script
// source; Parameters the declared argument schema.
type RegisteredFunction struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Parameters  map[string]Parameter `json:"parameters"`
	Code        string               `json:"code"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
