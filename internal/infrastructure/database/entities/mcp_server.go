package entities

import (
	"time"

	"github.com/google/uuid"
)

// MCPServer represents the database schema for MCP server registrations.
type MCPServer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name             string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	URL              string     `gorm:"type:varchar(1024);not null"`
	Protocol         string     `gorm:"type:varchar(20);not null"`
	APIKey           string     `gorm:"type:text"`
	IsActive         bool       `gorm:"not null;default:true;index"`
	LastConnected    *time.Time `gorm:"type:timestamptz"`
	ConnectionStatus string     `gorm:"type:varchar(20);not null;default:'disconnected'"`
	ErrorMessage     *string    `gorm:"type:text"`
}

// TableName specifies the table name for MCPServer.
func (MCPServer) TableName() string {
	return "mcp_servers"
}
