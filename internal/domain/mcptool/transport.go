package mcptool

import "context"

// Transport is one live connection to an MCP server.
type Transport interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)
	Close() error
}

// TransportFactory dials a server using its configured protocol.
type TransportFactory interface {
	Dial(ctx context.Context, server *Server) (Transport, error)
}
