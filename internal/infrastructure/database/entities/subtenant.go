package entities

import (
	"time"

	"github.com/google/uuid"
)

// Subtenant represents the database schema for subtenants.
type Subtenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Chats    []Chat   `gorm:"foreignKey:SubtenantID;constraint:OnDelete:CASCADE"`
	Memories []Memory `gorm:"foreignKey:SubtenantID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Subtenant.
func (Subtenant) TableName() string {
	return "subtenants"
}

// Memory represents the database schema for subtenant memories.
type Memory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	SubtenantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_memory_subtenant_key;not null"`
	Key         string    `gorm:"type:varchar(255);uniqueIndex:idx_memory_subtenant_key;not null"`
	Value       string    `gorm:"type:text;not null"`
}

// TableName specifies the table name for Memory.
func (Memory) TableName() string {
	return "memories"
}
