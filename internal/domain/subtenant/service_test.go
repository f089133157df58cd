package subtenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

type memRepo struct {
	subtenants map[uuid.UUID]*Subtenant
}

func (r *memRepo) Create(_ context.Context, s *Subtenant) error {
	r.subtenants[s.ID] = s
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Subtenant, error) {
	s, ok := r.subtenants[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "subtenant not found: %s", id)
	}
	return s, nil
}

func (r *memRepo) List(_ context.Context) ([]Subtenant, error) {
	out := make([]Subtenant, 0, len(r.subtenants))
	for _, s := range r.subtenants {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.subtenants, id)
	return nil
}

type memMemoryRepo struct {
	memories map[uuid.UUID]map[string]string
}

func newMemMemoryRepo() *memMemoryRepo {
	return &memMemoryRepo{memories: make(map[uuid.UUID]map[string]string)}
}

func (r *memMemoryRepo) Upsert(_ context.Context, m *Memory) error {
	if r.memories[m.SubtenantID] == nil {
		r.memories[m.SubtenantID] = make(map[string]string)
	}
	r.memories[m.SubtenantID][m.Key] = m.Value
	return nil
}

func (r *memMemoryRepo) FindByKey(_ context.Context, subtenantID uuid.UUID, key string) (*Memory, error) {
	value, ok := r.memories[subtenantID][key]
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "memory not found: %s", key)
	}
	return &Memory{SubtenantID: subtenantID, Key: key, Value: value}, nil
}

func (r *memMemoryRepo) ListBySubtenant(_ context.Context, subtenantID uuid.UUID) ([]Memory, error) {
	out := make([]Memory, 0)
	for key, value := range r.memories[subtenantID] {
		out = append(out, Memory{SubtenantID: subtenantID, Key: key, Value: value})
	}
	return out, nil
}

func (r *memMemoryRepo) Delete(_ context.Context, subtenantID uuid.UUID, key string) error {
	delete(r.memories[subtenantID], key)
	return nil
}

func newTestService() (*Service, *memRepo) {
	repo := &memRepo{subtenants: make(map[uuid.UUID]*Subtenant)}
	return NewService(repo, newMemMemoryRepo(), zerolog.Nop()), repo
}

func TestSetMemoryValidatesKey(t *testing.T) {
	svc, _ := newTestService()
	st, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.SetMemory(context.Background(), st.ID, "   ", "value")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	m, err := svc.SetMemory(context.Background(), st.ID, "  city  ", "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "city", m.Key)
}

func TestSetMemoryRequiresSubtenant(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetMemory(context.Background(), uuid.New(), "key", "value")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSetMemoryReplacesValue(t *testing.T) {
	svc, _ := newTestService()
	st, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.SetMemory(context.Background(), st.ID, "name", "Ada")
	require.NoError(t, err)
	_, err = svc.SetMemory(context.Background(), st.ID, "name", "Grace")
	require.NoError(t, err)

	stored, err := svc.GetMemory(context.Background(), st.ID, "name")
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.Value)

	all, err := svc.ListMemories(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteMemoryMissingKey(t *testing.T) {
	svc, _ := newTestService()
	st, err := svc.Create(context.Background())
	require.NoError(t, err)

	err = svc.DeleteMemory(context.Background(), st.ID, "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
