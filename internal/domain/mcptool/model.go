package mcptool

import (
	"time"

	"github.com/google/uuid"
)

// Protocol selects the wire transport for an MCP server.
type Protocol string

const (
	ProtocolWebSocket Protocol = "websocket"
	ProtocolHTTP      Protocol = "http"
)

// ConnectionStatus tracks the gateway's view of a server.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// Server is a registered external MCP tool server. APIKey is write-only:
// it never appears in serialized output.
type Server struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	URL              string           `json:"url"`
	Protocol         Protocol         `json:"protocol"`
	APIKey           string           `json:"-"`
	IsActive         bool             `json:"is_active"`
	LastConnected    *time.Time       `json:"last_connected,omitempty"`
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	ErrorMessage     *string          `json:"error_message,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToolDescriptor is one tool as advertised by a server, schema untouched.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}
