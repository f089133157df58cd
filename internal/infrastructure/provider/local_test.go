package provider

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStream(ndjson string) *localStream {
	body := io.NopCloser(strings.NewReader(ndjson))
	return &localStream{body: body, scanner: bufio.NewScanner(body)}
}

func drain(t *testing.T, s *localStream) []string {
	t.Helper()
	var deltas []string
	for {
		delta, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return deltas
		}
		require.NoError(t, err)
		deltas = append(deltas, delta)
	}
}

func TestLocalStreamCollectsText(t *testing.T) {
	s := newLocalStream(
		`{"message":{"role":"assistant","content":"Hel"},"done":false}` + "\n" +
			`{"message":{"role":"assistant","content":"lo"},"done":false}` + "\n" +
			`{"message":{"role":"assistant","content":""},"done":true,"prompt_eval_count":3,"eval_count":5}` + "\n")

	assert.Equal(t, []string{"Hel", "lo"}, drain(t, s))
	require.NotNil(t, s.Usage())
	assert.Equal(t, 8, s.Usage().TotalTokens)
	assert.Empty(t, s.ToolCalls())
}

func TestLocalStreamKeepsToolCallsFromSeparateChunksDistinct(t *testing.T) {
	s := newLocalStream(
		`{"message":{"role":"assistant","tool_calls":[{"function":{"name":"calculator","arguments":{"expression":"6 * 7"}}}]},"done":false}` + "\n" +
			`{"message":{"role":"assistant","tool_calls":[{"function":{"name":"get_current_time","arguments":{}}}]},"done":false}` + "\n" +
			`{"message":{"role":"assistant","content":""},"done":true}` + "\n")

	drain(t, s)
	calls := s.ToolCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "calculator", calls[0].Function.Name)
	assert.Contains(t, calls[0].Function.Arguments, "6 * 7")
	assert.Equal(t, "get_current_time", calls[1].Function.Name)
	assert.JSONEq(t, "{}", calls[1].Function.Arguments)
	assert.NotEqual(t, calls[0].ID, calls[1].ID)
}
