package provider

import (
	"sort"

	"github.com/pulsr-ai/lingua/internal/domain/llm"
)

// toolCallAccumulator reassembles tool calls from streamed fragments keyed
// by choice index.
type toolCallAccumulator struct {
	partial map[int]*llm.ToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{partial: make(map[int]*llm.ToolCall)}
}

func (a *toolCallAccumulator) add(index int, id, typ, name, argsFragment string) {
	tc, ok := a.partial[index]
	if !ok {
		tc = &llm.ToolCall{}
		a.partial[index] = tc
	}
	if id != "" {
		tc.ID = id
	}
	if typ != "" {
		tc.Type = typ
	}
	if name != "" {
		tc.Function.Name = name
	}
	tc.Function.Arguments += argsFragment
}

func (a *toolCallAccumulator) calls() []llm.ToolCall {
	if len(a.partial) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(a.partial))
	for i := range a.partial {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	out := make([]llm.ToolCall, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *a.partial[i])
	}
	return out
}
