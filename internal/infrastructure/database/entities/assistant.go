package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assistant represents the database schema for assistants.
type Assistant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	SubtenantID        *uuid.UUID     `gorm:"type:uuid;index"`
	Name               string         `gorm:"type:varchar(255);not null"`
	Description        *string        `gorm:"type:text"`
	SystemPrompt       *string        `gorm:"type:text"`
	EnabledFunctions   datatypes.JSON `gorm:"type:jsonb"`
	EnabledMCPTools    datatypes.JSON `gorm:"type:jsonb;column:enabled_mcp_tools"`
	FunctionParameters datatypes.JSON `gorm:"type:jsonb"`
	MCPToolParameters  datatypes.JSON `gorm:"type:jsonb;column:mcp_tool_parameters"`
	IsActive           bool           `gorm:"not null;default:true;index"`
}

// TableName specifies the table name for Assistant.
func (Assistant) TableName() string {
	return "assistants"
}
