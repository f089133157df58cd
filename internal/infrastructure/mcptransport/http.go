package mcptransport

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pulsr-ai/lingua/internal/domain/mcptool"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// HTTPTransport speaks the plain-HTTP MCP dialect: GET {url}/tools for
// discovery and POST {url}/tools/call for execution, the credential carried
// as a bearer token.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport builds a transport for the server.
func NewHTTPTransport(server *mcptool.Server, timeout time.Duration) *HTTPTransport {
	client := resty.New().
		SetBaseURL(strings.TrimRight(server.URL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if server.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+server.APIKey)
	}
	return &HTTPTransport{client: client}
}

type wireTool struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	InputSchema  map[string]any `json:"inputSchema"`
	InputSchema2 map[string]any `json:"input_schema"`
}

func (t wireTool) descriptor() mcptool.ToolDescriptor {
	schema := t.InputSchema
	if schema == nil {
		schema = t.InputSchema2
	}
	return mcptool.ToolDescriptor{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}

func (t *HTTPTransport) ListTools(ctx context.Context) ([]mcptool.ToolDescriptor, error) {
	var parsed struct {
		Tools []wireTool `json:"tools"`
	}
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&parsed).
		Get("/tools")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "MCP tool discovery failed", err)
	}
	if resp.IsError() {
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"MCP tool discovery failed with status %d", resp.StatusCode())
	}
	out := make([]mcptool.ToolDescriptor, 0, len(parsed.Tools))
	for _, tool := range parsed.Tools {
		out = append(out, tool.descriptor())
	}
	return out, nil
}

func (t *HTTPTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	var parsed struct {
		Result any    `json:"result"`
		Error  string `json:"error"`
	}
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": name, "arguments": args}).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/tools/call")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "MCP tool call failed", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if parsed.Error != "" {
			msg = parsed.Error
		}
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream,
			"MCP tool call failed with status %d: %s", resp.StatusCode(), msg)
	}
	if parsed.Error != "" {
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "MCP tool call failed: %s", parsed.Error)
	}
	if parsed.Result != nil {
		return parsed.Result, nil
	}
	// Servers that reply with a bare payload instead of a result envelope.
	var raw any
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return string(resp.Body()), nil
	}
	return raw, nil
}

func (t *HTTPTransport) Close() error { return nil }
