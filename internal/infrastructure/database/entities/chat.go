package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chat represents the database schema for chats.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	SubtenantID      uuid.UUID      `gorm:"type:uuid;index;not null"`
	AssistantID      *uuid.UUID     `gorm:"type:uuid;index"`
	Title            *string        `gorm:"type:varchar(256)"`
	EnabledFunctions datatypes.JSON `gorm:"type:jsonb"`
	EnabledMCPTools  datatypes.JSON `gorm:"type:jsonb;column:enabled_mcp_tools"`

	Messages []Message `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Chat.
func (Chat) TableName() string {
	return "chats"
}

// Message represents the database schema for transcript entries. Seq breaks
// created_at ties with insertion order.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       uint64    `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_chat_created"`

	ChatID           uuid.UUID      `gorm:"type:uuid;index:idx_message_chat_created;not null"`
	Role             string         `gorm:"type:varchar(20);not null"`
	Content          *string        `gorm:"type:text"`
	ToolCalls        datatypes.JSON `gorm:"type:jsonb"`
	ToolCallID       *string        `gorm:"type:varchar(64)"`
	Name             *string        `gorm:"type:varchar(255)"`
	EnabledFunctions datatypes.JSON `gorm:"type:jsonb"`
	EnabledMCPTools  datatypes.JSON `gorm:"type:jsonb;column:enabled_mcp_tools"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}
