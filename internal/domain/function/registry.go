package function

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Registry is the process-scoped tool registry. Built-in handlers live in
// memory for the process lifetime; dynamic handlers are compiled lazily from
// durable records and cached until the record changes.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Handler
	dynamic  map[string]Handler
	repo     Repository
	engine   ScriptEngine
	logger   zerolog.Logger
}

func NewRegistry(repo Repository, engine ScriptEngine, logger zerolog.Logger) *Registry {
	r := &Registry{
		builtins: make(map[string]Handler),
		dynamic:  make(map[string]Handler),
		repo:     repo,
		engine:   engine,
		logger:   logger.With().Str("component", "function_registry").Logger(),
	}
	for _, h := range Builtins() {
		r.Register(h)
	}
	return r
}

// Register installs a compiled-in handler. A same-name handler is replaced
// atomically; callers mid-execution on the old handler finish on it.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builtins[h.Name()]; exists {
		r.logger.Warn().Str("function", h.Name()).Msg("replacing registered handler")
	}
	r.builtins[h.Name()] = h
}

// Unregister removes a handler by name. Absent names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.builtins, name)
	delete(r.dynamic, name)
}

// InvalidateDynamic drops the cached compiled handler for a durable record.
// Called by the CRUD service after every mutation.
func (r *Registry) InvalidateDynamic(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dynamic, name)
}

// Definitions returns the model-facing schemas of every callable tool:
// built-ins plus a fresh read of the active durable records.
func (r *Registry) Definitions(ctx context.Context) ([]llm.ToolDefinition, error) {
	r.mu.RLock()
	defs := make([]llm.ToolDefinition, 0, len(r.builtins))
	for _, h := range r.builtins {
		defs = append(defs, h.Definition())
	}
	r.mu.RUnlock()

	records, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		f := &records[i]
		if _, shadowed := r.builtin(f.Name); shadowed {
			continue
		}
		defs = append(defs, BuildDefinition(f.Name, f.Description, f.Parameters))
	}
	return defs, nil
}

func (r *Registry) builtin(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.builtins[name]
	return h, ok
}

func (r *Registry) cached(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.dynamic[name]
	return h, ok
}

// Execute runs the named tool. Resolution order: built-in, cached dynamic,
// lazy compile from the durable record. An unknown or inactive name returns
// a NOT_FOUND error.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	if h, ok := r.builtin(name); ok {
		return h.Execute(ctx, args)
	}
	if h, ok := r.cached(name); ok {
		return h.Execute(ctx, args)
	}

	record, err := r.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, apperrors.Newf(apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "function %s is inactive", name)
	}
	h, err := r.engine.Compile(record)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.dynamic[name] = h
	r.mu.Unlock()
	return h.Execute(ctx, args)
}
