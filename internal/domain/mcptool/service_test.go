package mcptool

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

type memServerRepo struct {
	servers map[uuid.UUID]*Server
}

func newMemServerRepo() *memServerRepo {
	return &memServerRepo{servers: make(map[uuid.UUID]*Server)}
}

func (r *memServerRepo) Create(_ context.Context, s *Server) error {
	r.servers[s.ID] = s
	return nil
}

func (r *memServerRepo) FindByID(_ context.Context, id uuid.UUID) (*Server, error) {
	s, ok := r.servers[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "MCP server not found")
	}
	return s, nil
}

func (r *memServerRepo) FindByName(_ context.Context, name string) (*Server, error) {
	for _, s := range r.servers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "MCP server not found: %s", name)
}

func (r *memServerRepo) List(_ context.Context) ([]Server, error) {
	out := make([]Server, 0, len(r.servers))
	for _, s := range r.servers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memServerRepo) ListActive(_ context.Context) ([]Server, error) { return nil, nil }

func (r *memServerRepo) Update(_ context.Context, s *Server) error {
	r.servers[s.ID] = s
	return nil
}

func (r *memServerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.servers, id)
	return nil
}

func newTestService(repo Repository, factory TransportFactory) *Service {
	gateway := NewGateway(factory, repo, zerolog.Nop())
	return NewService(repo, gateway, zerolog.Nop())
}

func TestCreateServerValidation(t *testing.T) {
	svc := newTestService(newMemServerRepo(), &mockTransportFactory{})

	cases := []struct {
		name   string
		params CreateParams
	}{
		{"empty name", CreateParams{URL: "https://x", Protocol: ProtocolHTTP}},
		{"underscore in name", CreateParams{Name: "my_server", URL: "https://x", Protocol: ProtocolHTTP}},
		{"empty url", CreateParams{Name: "srv", Protocol: ProtocolHTTP}},
		{"bad protocol", CreateParams{Name: "srv", URL: "https://x", Protocol: "grpc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.params)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestCreateServerNameConflict(t *testing.T) {
	svc := newTestService(newMemServerRepo(), &mockTransportFactory{})

	_, err := svc.Create(context.Background(), CreateParams{Name: "weather", URL: "https://x", Protocol: ProtocolHTTP})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateParams{Name: "weather", URL: "https://y", Protocol: ProtocolWebSocket})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestCreateServerDefaults(t *testing.T) {
	svc := newTestService(newMemServerRepo(), &mockTransportFactory{})

	srv, err := svc.Create(context.Background(), CreateParams{Name: "weather", URL: "https://x", Protocol: ProtocolHTTP, APIKey: "secret"})
	require.NoError(t, err)
	assert.True(t, srv.IsActive)
	assert.Equal(t, StatusDisconnected, srv.ConnectionStatus)
}

func TestUpdateServerDisconnectsLiveTransport(t *testing.T) {
	repo := newMemServerRepo()
	transport := staticTransport(ToolDescriptor{Name: "ping"})
	svc := newTestService(repo, &mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) { return transport, nil },
	})

	srv, err := svc.Create(context.Background(), CreateParams{Name: "weather", URL: "https://x", Protocol: ProtocolHTTP})
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), srv.ID)
	require.NoError(t, err)
	require.True(t, svc.gateway.IsLoaded("weather"))

	newURL := "https://elsewhere"
	updated, err := svc.Update(context.Background(), srv.ID, UpdateParams{URL: &newURL})
	require.NoError(t, err)
	assert.Equal(t, newURL, updated.URL)
	assert.False(t, svc.gateway.IsLoaded("weather"))
	assert.True(t, transport.closed)
}

func TestDeleteServerDisconnects(t *testing.T) {
	repo := newMemServerRepo()
	transport := staticTransport(ToolDescriptor{Name: "ping"})
	svc := newTestService(repo, &mockTransportFactory{
		dialFunc: func(_ context.Context, _ *Server) (Transport, error) { return transport, nil },
	})

	srv, err := svc.Create(context.Background(), CreateParams{Name: "weather", URL: "https://x", Protocol: ProtocolHTTP})
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), srv.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), srv.ID))
	assert.False(t, svc.gateway.IsLoaded("weather"))
	_, err = svc.Get(context.Background(), srv.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
