package mcptool

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

type mockTransport struct {
	listToolsFunc func(ctx context.Context) ([]ToolDescriptor, error)
	callToolFunc  func(ctx context.Context, name string, args map[string]any) (any, error)
	closed        bool
}

func (m *mockTransport) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	return m.listToolsFunc(ctx)
}

func (m *mockTransport) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	return m.callToolFunc(ctx, name, args)
}

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

type mockTransportFactory struct {
	dialFunc func(ctx context.Context, server *Server) (Transport, error)
}

func (m *mockTransportFactory) Dial(ctx context.Context, server *Server) (Transport, error) {
	return m.dialFunc(ctx, server)
}

type mockServerRepository struct {
	listActiveFunc func(ctx context.Context) ([]Server, error)
	updates        []ConnectionStatus
}

func (m *mockServerRepository) Create(_ context.Context, _ *Server) error { return nil }

func (m *mockServerRepository) FindByID(_ context.Context, _ uuid.UUID) (*Server, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "not found")
}

func (m *mockServerRepository) FindByName(_ context.Context, _ string) (*Server, error) {
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "not found")
}

func (m *mockServerRepository) List(_ context.Context) ([]Server, error) { return nil, nil }

func (m *mockServerRepository) ListActive(ctx context.Context) ([]Server, error) {
	if m.listActiveFunc == nil {
		return nil, nil
	}
	return m.listActiveFunc(ctx)
}

func (m *mockServerRepository) Update(_ context.Context, s *Server) error {
	m.updates = append(m.updates, s.ConnectionStatus)
	return nil
}

func (m *mockServerRepository) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func staticTransport(tools ...ToolDescriptor) *mockTransport {
	return &mockTransport{
		listToolsFunc: func(_ context.Context) ([]ToolDescriptor, error) {
			return tools, nil
		},
		callToolFunc: func(_ context.Context, name string, _ map[string]any) (any, error) {
			return map[string]any{"tool": name}, nil
		},
	}
}

func TestGatewayConnectNamespacesTools(t *testing.T) {
	transport := staticTransport(
		ToolDescriptor{Name: "lookup", Description: "look things up"},
		ToolDescriptor{Name: "forecast"},
	)
	repo := &mockServerRepository{}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) { return transport, nil },
	}, repo, zerolog.Nop())

	server := &Server{ID: uuid.New(), Name: "weather", IsActive: true}
	require.NoError(t, gw.Connect(context.Background(), server))

	assert.True(t, gw.IsLoaded("weather"))
	assert.Equal(t, StatusConnected, server.ConnectionStatus)
	require.NotNil(t, server.LastConnected)
	assert.Equal(t, []ConnectionStatus{StatusConnecting, StatusConnected}, repo.updates)

	defs, err := gw.Definitions(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Function.Name)
	}
	assert.ElementsMatch(t, []string{"weather_lookup", "weather_forecast"}, names)
}

func TestGatewayConnectDialFailurePersistsError(t *testing.T) {
	repo := &mockServerRepository{}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) {
			return nil, errors.New("connection refused")
		},
	}, repo, zerolog.Nop())

	server := &Server{ID: uuid.New(), Name: "weather"}
	err := gw.Connect(context.Background(), server)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))
	assert.Equal(t, StatusError, server.ConnectionStatus)
	require.NotNil(t, server.ErrorMessage)
	assert.Contains(t, *server.ErrorMessage, "connection refused")
	assert.False(t, gw.IsLoaded("weather"))
}

func TestGatewayReconnectReplacesHandlers(t *testing.T) {
	first := staticTransport(ToolDescriptor{Name: "old_tool"})
	second := staticTransport(ToolDescriptor{Name: "new_tool"})
	dials := 0
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) {
			dials++
			if dials == 1 {
				return first, nil
			}
			return second, nil
		},
	}, &mockServerRepository{}, zerolog.Nop())

	server := &Server{ID: uuid.New(), Name: "svc"}
	require.NoError(t, gw.Connect(context.Background(), server))
	require.NoError(t, gw.Connect(context.Background(), server))

	assert.True(t, first.closed)
	_, err := gw.Execute(context.Background(), "svc_old_tool", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	_, err = gw.Execute(context.Background(), "svc_new_tool", nil)
	assert.NoError(t, err)
}

func TestGatewayDisconnectRemovesOnlyOwnHandlers(t *testing.T) {
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, server *Server) (Transport, error) {
			return staticTransport(ToolDescriptor{Name: "run"}), nil
		},
	}, &mockServerRepository{}, zerolog.Nop())

	alpha := &Server{ID: uuid.New(), Name: "alpha"}
	beta := &Server{ID: uuid.New(), Name: "beta"}
	require.NoError(t, gw.Connect(context.Background(), alpha))
	require.NoError(t, gw.Connect(context.Background(), beta))

	require.NoError(t, gw.Disconnect(context.Background(), alpha))
	assert.Equal(t, StatusDisconnected, alpha.ConnectionStatus)
	assert.False(t, gw.IsLoaded("alpha"))

	_, err := gw.Execute(context.Background(), "alpha_run", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	_, err = gw.Execute(context.Background(), "beta_run", nil)
	assert.NoError(t, err)
}

func TestGatewayLazyReconcile(t *testing.T) {
	repo := &mockServerRepository{
		listActiveFunc: func(_ context.Context) ([]Server, error) {
			return []Server{{ID: uuid.New(), Name: "lazy", IsActive: true}}, nil
		},
	}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) {
			return staticTransport(ToolDescriptor{Name: "ping"}), nil
		},
	}, repo, zerolog.Nop())

	assert.False(t, gw.IsLoaded("lazy"))
	defs, err := gw.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "lazy_ping", defs[0].Function.Name)
	assert.True(t, gw.IsLoaded("lazy"))
}

func TestGatewayReconcileSkipsFailures(t *testing.T) {
	repo := &mockServerRepository{
		listActiveFunc: func(_ context.Context) ([]Server, error) {
			return []Server{
				{ID: uuid.New(), Name: "down", IsActive: true},
				{ID: uuid.New(), Name: "up", IsActive: true},
			}, nil
		},
	}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, server *Server) (Transport, error) {
			if server.Name == "down" {
				return nil, errors.New("unreachable")
			}
			return staticTransport(ToolDescriptor{Name: "ok"}), nil
		},
	}, repo, zerolog.Nop())

	defs, err := gw.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "up_ok", defs[0].Function.Name)
}

func TestGatewayDefinitionsDefaultSchema(t *testing.T) {
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) {
			return staticTransport(ToolDescriptor{Name: "bare"}), nil
		},
	}, &mockServerRepository{}, zerolog.Nop())

	require.NoError(t, gw.Connect(context.Background(), &Server{ID: uuid.New(), Name: "svc"}))
	defs, err := gw.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, map[string]any{"type": "object", "properties": map[string]any{}}, defs[0].Function.Parameters)
}

func TestGatewayExecute(t *testing.T) {
	transport := staticTransport(ToolDescriptor{Name: "echo"})
	transport.callToolFunc = func(_ context.Context, name string, args map[string]any) (any, error) {
		assert.Equal(t, "echo", name) // transport sees the bare tool name
		return args["value"], nil
	}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) { return transport, nil },
	}, &mockServerRepository{}, zerolog.Nop())
	require.NoError(t, gw.Connect(context.Background(), &Server{ID: uuid.New(), Name: "svc"}))

	result, err := gw.Execute(context.Background(), "svc_echo", map[string]any{"value": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	_, err = gw.Execute(context.Background(), "svc_missing", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestGatewayExecuteTransportError(t *testing.T) {
	transport := staticTransport(ToolDescriptor{Name: "flaky"})
	transport.callToolFunc = func(_ context.Context, _ string, _ map[string]any) (any, error) {
		return nil, errors.New("timeout")
	}
	gw := NewGateway(&mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) { return transport, nil },
	}, &mockServerRepository{}, zerolog.Nop())
	require.NoError(t, gw.Connect(context.Background(), &Server{ID: uuid.New(), Name: "svc"}))

	_, err := gw.Execute(context.Background(), "svc_flaky", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))
}
