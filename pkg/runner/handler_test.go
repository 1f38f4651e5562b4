package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out,
		WithTextHandlerRenderer(func(s string) (string, error) { return "Rendered: " + s, nil }))

	require.NoError(t, h.Output(context.Background(), Frame{Algorithm: "huffman", Total: 6, Text: "body\n"}))
	assert.Equal(t, "Rendered: body\n", out.String())
}

func TestTextHandler_OutputWithoutText(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out)

	require.NoError(t, h.Output(context.Background(), Frame{Algorithm: "bfs", Index: 1, Total: 7, Annotation: "visit B"}))
	assert.Equal(t, "bfs  step 2/7\nvisit B\n", out.String())
}

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("  seek 3  \n\x1b\n"), out)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seek 3", val)
	assert.Equal(t, "> ", out.String())

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", val, "control characters are stripped")

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputRetriesOversizedLine(t *testing.T) {
	t.Setenv(EnvMaxLineSize, "8")
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("seek 1234567\nnext\n"), out, WithPrompt(""))

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "next", val)
	assert.Contains(t, out.String(), "Please try again")
}

func TestTextHandler_InputCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := NewTextHandler(pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.NewReader("\"next\"\n{\"command\":\"seek\",\"index\":3}\nprev\n{\"command\":\"play\"}")
	h := NewJSONHandler(in, &bytes.Buffer{})

	for _, want := range []string{"next", "seek 3", "prev", "play"} {
		got, err := h.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader(""), out)

	require.NoError(t, h.Output(context.Background(), Frame{Algorithm: "dfs", Index: 2, Total: 7, Text: "dropped"}))
	require.NoError(t, h.SystemOutput(context.Background(), "hello"))

	assert.Equal(t,
		`{"type":"step","algorithm":"dfs","index":2,"total":7,"annotation":"","state":null}`+"\n"+
			`{"type":"system","message":"hello"}`+"\n",
		out.String())
}
