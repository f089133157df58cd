package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// Source supplies the currently available tool schemas for one origin
// (local functions or MCP gateway).
type Source interface {
	Definitions(ctx context.Context) ([]llm.ToolDefinition, error)
}

// Request carries per-call tool selection overrides. A nil slice means the
// field was not set; an empty non-nil slice is an explicit "none".
type Request struct {
	EnabledFunctions  []string
	DisabledFunctions []string
	EnabledMCPTools   []string
	DisabledMCPTools  []string
}

// Selection is the resolved tool set for one completion: the union schema
// list handed to the provider plus the per-source effective name snapshots
// stamped onto messages for audit.
type Selection struct {
	Definitions   []llm.ToolDefinition
	FunctionNames []string
	MCPToolNames  []string
}

// Filter resolves one source's tool list. Precedence: an explicit
// request-enabled list wins, then the chat's default list, then everything
// minus the request-disabled list, then everything. Names that no longer
// exist in the available set are silently dropped.
func Filter(available []llm.ToolDefinition, requestEnabled, chatDefault, requestDisabled []string) []llm.ToolDefinition {
	switch {
	case requestEnabled != nil:
		return intersect(available, requestEnabled)
	case chatDefault != nil:
		return intersect(available, chatDefault)
	case requestDisabled != nil:
		return subtract(available, requestDisabled)
	default:
		return available
	}
}

func intersect(available []llm.ToolDefinition, names []string) []llm.ToolDefinition {
	wanted := toSet(names)
	out := make([]llm.ToolDefinition, 0, len(names))
	for _, d := range available {
		if wanted[d.Function.Name] {
			out = append(out, d)
		}
	}
	return out
}

func subtract(available []llm.ToolDefinition, names []string) []llm.ToolDefinition {
	excluded := toSet(names)
	out := make([]llm.ToolDefinition, 0, len(available))
	for _, d := range available {
		if !excluded[d.Function.Name] {
			out = append(out, d)
		}
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func namesOf(defs []llm.ToolDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Function.Name)
	}
	return out
}

// Aggregator merges the function registry and the MCP gateway into one
// filtered tool catalog per completion.
type Aggregator struct {
	functions Source
	mcpTools  Source
	logger    zerolog.Logger
}

func NewAggregator(functions, mcpTools Source, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		functions: functions,
		mcpTools:  mcpTools,
		logger:    logger.With().Str("component", "tool_catalog").Logger(),
	}
}

// Available returns the unfiltered catalog, split by source.
func (a *Aggregator) Available(ctx context.Context) (functions, mcpTools []llm.ToolDefinition, err error) {
	functions, err = a.functions.Definitions(ctx)
	if err != nil {
		return nil, nil, err
	}
	mcpTools, err = a.mcpTools.Definitions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return functions, mcpTools, nil
}

// Resolve applies the filter rule to each source independently and unions
// the results. chatFunctions and chatMCPTools are the chat-level defaults.
func (a *Aggregator) Resolve(ctx context.Context, req Request, chatFunctions, chatMCPTools []string) (*Selection, error) {
	functionDefs, err := a.functions.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	mcpDefs, err := a.mcpTools.Definitions(ctx)
	if err != nil {
		return nil, err
	}

	selectedFunctions := Filter(functionDefs, req.EnabledFunctions, chatFunctions, req.DisabledFunctions)
	selectedMCP := Filter(mcpDefs, req.EnabledMCPTools, chatMCPTools, req.DisabledMCPTools)

	union := make([]llm.ToolDefinition, 0, len(selectedFunctions)+len(selectedMCP))
	union = append(union, selectedFunctions...)
	union = append(union, selectedMCP...)

	return &Selection{
		Definitions:   union,
		FunctionNames: namesOf(selectedFunctions),
		MCPToolNames:  namesOf(selectedMCP),
	}, nil
}
