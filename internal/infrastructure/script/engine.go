package script

import (
	"context"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/function"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Engine compiles registered function sources with the embedded ECMAScript
// interpreter. Every execution runs on a fresh VM with an interrupt-based
// timeout; scripts share nothing with the host process.
type Engine struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewEngine builds the script engine.
func NewEngine(timeout time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		timeout: timeout,
		logger:  logger.With().Str("component", "script_engine").Logger(),
	}
}

// Compile parses the source and verifies it declares exactly one public
// entrypoint: a callable global whose name does not start with an
// underscore. Underscore-prefixed helpers are allowed.
func (e *Engine) Compile(fn *function.RegisteredFunction) (function.Handler, error) {
	program, err := goja.Compile(fn.Name, fn.Code, false)
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation,
			"script does not compile", err)
	}

	entry, err := e.findEntrypoint(fn.Name, program)
	if err != nil {
		return nil, err
	}

	return &scriptHandler{
		record:  fn,
		program: program,
		entry:   entry,
		timeout: e.timeout,
	}, nil
}

func (e *Engine) findEntrypoint(name string, program *goja.Program) (string, error) {
	vm := goja.New()
	timer := time.AfterFunc(e.timeout, func() { vm.Interrupt("validation timeout") })
	defer timer.Stop()

	if _, err := vm.RunProgram(program); err != nil {
		return "", apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation,
			"script failed during validation", err)
	}

	var public []string
	global := vm.GlobalObject()
	for _, key := range global.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		if _, ok := goja.AssertFunction(global.Get(key)); ok {
			public = append(public, key)
		}
	}
	if len(public) != 1 {
		return "", apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation,
			"script for %s must declare exactly one public function, found %d", name, len(public))
	}
	return public[0], nil
}

type scriptHandler struct {
	record  *function.RegisteredFunction
	program *goja.Program
	entry   string
	timeout time.Duration
}

func (h *scriptHandler) Name() string { return h.record.Name }

func (h *scriptHandler) Definition() llm.ToolDefinition {
	return function.BuildDefinition(h.record.Name, h.record.Description, h.record.Parameters)
}

// Execute runs the entrypoint on a fresh VM. A fulfilled promise result is
// unwrapped so async and sync scripts behave identically.
func (h *scriptHandler) Execute(ctx context.Context, args map[string]any) (any, error) {
	vm := goja.New()

	timer := time.AfterFunc(h.timeout, func() { vm.Interrupt("execution timeout") })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt("context canceled") })
	defer stop()

	if _, err := vm.RunProgram(h.program); err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeInternal,
			"script initialization failed", err)
	}
	entry, ok := goja.AssertFunction(vm.GlobalObject().Get(h.entry))
	if !ok {
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeInternal,
			"script entrypoint %s is not callable", h.entry)
	}

	if args == nil {
		args = map[string]any{}
	}
	value, err := entry(goja.Undefined(), vm.ToValue(args))
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.ErrorTypeInternal,
			"script execution failed", err)
	}

	if promise, ok := value.Export().(*goja.Promise); ok {
		switch promise.State() {
		case goja.PromiseStateFulfilled:
			return promise.Result().Export(), nil
		case goja.PromiseStateRejected:
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeInternal,
				"script promise rejected: %s", promise.Result().String())
		default:
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeInternal,
				"script promise never settled")
		}
	}
	return value.Export(), nil
}
