package mcptransport

import (
	"context"
	"time"

	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Factory dials MCP servers by their configured protocol.
type Factory struct {
	dialTimeout time.Duration
	callTimeout time.Duration
}

// NewFactory builds the transport factory.
func NewFactory(dialTimeout, callTimeout time.Duration) *Factory {
	return &Factory{dialTimeout: dialTimeout, callTimeout: callTimeout}
}

// Dial opens a transport for the server.
func (f *Factory) Dial(ctx context.Context, server *mcptool.Server) (mcptool.Transport, error) {
	switch server.Protocol {
	case mcptool.ProtocolHTTP:
		return NewHTTPTransport(server, f.callTimeout), nil
	case mcptool.ProtocolWebSocket:
		dialCtx, cancel := context.WithTimeout(ctx, f.dialTimeout)
		defer cancel()
		return DialWS(dialCtx, server, f.callTimeout)
	default:
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation,
			"unsupported MCP protocol: %s", server.Protocol)
	}
}
