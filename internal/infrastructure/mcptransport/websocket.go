package mcptransport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// WSTransport speaks JSON-RPC 2.0 over a websocket: tools/list for
// discovery and tools/call for execution, the credential inside the request
// params. Calls are serialized over the single connection.
type WSTransport struct {
	mu          sync.Mutex
	conn        *websocket.Conn
	apiKey      string
	callTimeout time.Duration
	nextID      int64
}

// DialWS opens the websocket connection for the server.
func DialWS(ctx context.Context, server *mcptool.Server, callTimeout time.Duration) (*WSTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, server.URL, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "websocket dial failed", err)
	}
	return &WSTransport{
		conn:        conn,
		apiKey:      server.APIKey,
		callTimeout: callTimeout,
	}, nil
}

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *WSTransport) call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if params == nil {
		params = map[string]any{}
	}
	if t.apiKey != "" {
		params["api_key"] = t.apiKey
	}
	t.nextID++
	req := rpcRequest{JSONRPC: "2.0", ID: t.nextID, Method: method, Params: params}

	deadline := time.Now().Add(t.callTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = t.conn.SetWriteDeadline(deadline)
	if err := t.conn.WriteJSON(req); err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "websocket write failed", err)
	}

	_ = t.conn.SetReadDeadline(deadline)
	for {
		var resp rpcResponse
		if err := t.conn.ReadJSON(&resp); err != nil {
			return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "websocket read failed", err)
		}
		if resp.ID != req.ID {
			continue // stale reply from an abandoned call
		}
		if resp.Error != nil {
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
				"MCP server error %d: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil
	}
}

func (t *WSTransport) ListTools(ctx context.Context) ([]mcptool.ToolDescriptor, error) {
	raw, err := t.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Tools []wireTool `json:"tools"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "malformed tools/list result", err)
	}
	out := make([]mcptool.ToolDescriptor, 0, len(parsed.Tools))
	for _, tool := range parsed.Tools {
		out = append(out, tool.descriptor())
	}
	return out, nil
}

func (t *WSTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	raw, err := t.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "malformed tools/call result", err)
	}
	return result, nil
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Close()
}
