package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RequestLog represents the append-only provider call audit table.
type RequestLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	SubtenantID      uuid.UUID      `gorm:"type:uuid;index;not null"`
	ChatID           *uuid.UUID     `gorm:"type:uuid;index"`
	MessageID        *uuid.UUID     `gorm:"type:uuid"`
	Provider         string         `gorm:"type:varchar(50);not null"`
	Model            string         `gorm:"type:varchar(100)"`
	RequestData      datatypes.JSON `gorm:"type:jsonb"`
	ResponseData     datatypes.JSON `gorm:"type:jsonb"`
	TokensPrompt     int            `gorm:"default:0"`
	TokensCompletion int            `gorm:"default:0"`
	TokensTotal      int            `gorm:"default:0"`
	LatencyMS        int64          `gorm:"default:0"`
	StatusCode       int            `gorm:"default:0"`
	Error            *string        `gorm:"type:text"`
}

// TableName specifies the table name for RequestLog.
func (RequestLog) TableName() string {
	return "request_logs"
}
