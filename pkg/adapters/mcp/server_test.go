package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/topic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	engine, err := stepwise.New()
	require.NoError(t, err)
	catalog, err := topic.NewCatalog(topic.Builtin())
	require.NoError(t, err)
	return NewServer(engine, WithCatalog(catalog))
}

func TestListAlgorithms(t *testing.T) {
	s := newServer(t)
	res, err := s.handleListAlgorithms(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Algorithms, 14)
	assert.Equal(t, "heap-build", string(res.Algorithms[0].Kind))
}

func TestGenerateTrace(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleGenerateTrace(ctx, mcp.CallToolRequest{}, generateArgs{TraceArgs: TraceArgs{Algorithm: "huffman"}})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Annotations, 6)
	assert.Empty(t, res.Steps, "states are opt-in")
	assert.NotEmpty(t, res.Fingerprint)

	res, err = s.handleGenerateTrace(ctx, mcp.CallToolRequest{}, generateArgs{
		TraceArgs:     TraceArgs{Algorithm: "heap-build", Input: map[string]any{"values": []any{3, 2, 1}}},
		IncludeStates: true,
	})
	require.NoError(t, err)
	assert.Len(t, res.Steps, res.Total)

	_, err = s.handleGenerateTrace(ctx, mcp.CallToolRequest{}, generateArgs{TraceArgs: TraceArgs{Algorithm: "bogosort"}})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestGetStep(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleGetStep(ctx, mcp.CallToolRequest{}, StepArgs{TraceArgs: TraceArgs{Algorithm: "heap-build"}, Index: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Index)
	assert.Equal(t, 6, res.Total)
	assert.Contains(t, res.Text, "heap-build  step 6/6")

	_, err = s.handleGetStep(ctx, mcp.CallToolRequest{}, StepArgs{TraceArgs: TraceArgs{Algorithm: "heap-build"}, Index: 6})
	assert.Error(t, err)
}

func TestStepArgsBinding(t *testing.T) {
	var args StepArgs
	raw := `{"algorithm":"bfs","input":{"source":"D"},"index":2}`
	require.NoError(t, json.Unmarshal([]byte(raw), &args))
	assert.Equal(t, "bfs", args.Algorithm)
	assert.Equal(t, "D", args.Input["source"])
	assert.Equal(t, 2, args.Index)
}

func TestSimulate(t *testing.T) {
	s := newServer(t)
	res, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{
		Structure: "stack",
		Actions:   "push 10; push 20; push 30; pop; pop; pop; pop",
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 7)
	assert.Empty(t, res.Outcomes[3].Error)
	assert.NotEmpty(t, res.Outcomes[6].Error, "pop on an empty stack is rejected")
	assert.Equal(t, res.Outcomes[5].State, res.Outcomes[6].State, "a rejected action leaves the state unchanged")

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{Structure: "deque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetTopic(t *testing.T) {
	s := newServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_topic"
	req.Params.Arguments = map[string]any{"id": "heaps"}
	res, err := s.handleGetTopic(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "stepwise play heap-build")

	req.Params.Arguments = map[string]any{"id": "nope"}
	res, err = s.handleGetTopic(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsAreListed(t *testing.T) {
	s := newServer(t)
	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"list_algorithms", "generate_trace", "get_step", "simulate", "get_topic"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
