package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

func defs(names ...string) []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, 0, len(names))
	for _, n := range names {
		out = append(out, llm.ToolDefinition{
			Type:     "function",
			Function: llm.ToolFunctionSchema{Name: n},
		})
	}
	return out
}

func TestFilterPrecedence(t *testing.T) {
	available := defs("a", "b", "c")

	tests := []struct {
		name            string
		requestEnabled  []string
		chatDefault     []string
		requestDisabled []string
		want            []string
	}{
		{
			name: "no selection returns everything",
			want: []string{"a", "b", "c"},
		},
		{
			name:           "request enabled wins over chat default",
			requestEnabled: []string{"a"},
			chatDefault:    []string{"b"},
			want:           []string{"a"},
		},
		{
			name:           "explicit empty enabled list disables all",
			requestEnabled: []string{},
			chatDefault:    []string{"b"},
			want:           []string{},
		},
		{
			name:        "chat default applies when request is unset",
			chatDefault: []string{"b", "c"},
			want:        []string{"b", "c"},
		},
		{
			name:            "disabled subtracts when nothing enabled",
			requestDisabled: []string{"b"},
			want:            []string{"a", "c"},
		},
		{
			name:            "enabled takes precedence over disabled",
			requestEnabled:  []string{"a", "b"},
			requestDisabled: []string{"b"},
			want:            []string{"a", "b"},
		},
		{
			name:           "stale names are silently dropped",
			requestEnabled: []string{"a", "gone"},
			want:           []string{"a"},
		},
		{
			name:        "stale chat default names are silently dropped",
			chatDefault: []string{"gone"},
			want:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(available, tt.requestEnabled, tt.chatDefault, tt.requestDisabled)
			names := make([]string, 0, len(got))
			for _, d := range got {
				names = append(names, d.Function.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

type stubSource struct {
	definitions []llm.ToolDefinition
	err         error
}

func (s *stubSource) Definitions(_ context.Context) ([]llm.ToolDefinition, error) {
	return s.definitions, s.err
}

func TestAggregatorResolve(t *testing.T) {
	agg := NewAggregator(
		&stubSource{definitions: defs("calculator", "get_current_time")},
		&stubSource{definitions: defs("weather_lookup", "weather_forecast")},
		zerolog.Nop(),
	)

	selection, err := agg.Resolve(context.Background(), Request{
		EnabledFunctions: []string{"calculator"},
		EnabledMCPTools:  []string{"weather_forecast"},
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"calculator"}, selection.FunctionNames)
	assert.Equal(t, []string{"weather_forecast"}, selection.MCPToolNames)
	require.Len(t, selection.Definitions, 2)
	assert.Equal(t, "calculator", selection.Definitions[0].Function.Name)
	assert.Equal(t, "weather_forecast", selection.Definitions[1].Function.Name)
}

func TestAggregatorResolveFiltersPerSource(t *testing.T) {
	agg := NewAggregator(
		&stubSource{definitions: defs("calculator")},
		&stubSource{definitions: defs("weather_lookup")},
		zerolog.Nop(),
	)

	// An enabled-functions override must not constrain the MCP source.
	selection, err := agg.Resolve(context.Background(), Request{
		EnabledFunctions: []string{},
	}, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, selection.FunctionNames)
	assert.Equal(t, []string{"weather_lookup"}, selection.MCPToolNames)
	require.Len(t, selection.Definitions, 1)
}
