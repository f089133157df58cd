package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RegisteredFunction represents the database schema for dynamic functions.
type RegisteredFunction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string         `gorm:"type:text"`
	Parameters  datatypes.JSON `gorm:"type:jsonb"`
	Code        string         `gorm:"type:text;not null"`
	IsActive    bool           `gorm:"not null;default:true;index"`
}

// TableName specifies the table name for RegisteredFunction.
func (RegisteredFunction) TableName() string {
	return "registered_functions"
}
