package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		in, err := ParseInput("", nil)
		require.NoError(t, err)
		assert.Nil(t, in)
	})

	t.Run("sets", func(t *testing.T) {
		in, err := ParseInput("", []string{"values = 4,10,3", "order=pre"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"values": "4,10,3", "order": "pre"}, in)
	})

	t.Run("file with overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input.yaml")
		require.NoError(t, os.WriteFile(path, []byte("values: [5, 3, 8]\nvalue: 3\n"), 0644))

		in, err := ParseInput(path, []string{"value=8"})
		require.NoError(t, err)
		assert.Equal(t, []any{5, 3, 8}, in["values"])
		assert.Equal(t, "8", in["value"])
	})

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"symbols": "a:5,b:9"}`), 0644))

		in, err := ParseInput(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "a:5,b:9", in["symbols"])
	})

	t.Run("bad set", func(t *testing.T) {
		_, err := ParseInput("", []string{"values"})
		assert.ErrorContains(t, err, "want key=value")
	})
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(runner.ErrInterrupted))
	assert.NoError(t, handleExecutionError(fmt.Errorf("input error: %w", io.EOF)))

	boom := errors.New("boom")
	assert.Equal(t, boom, handleExecutionError(boom))
}

func TestLogCompletion(t *testing.T) {
	var out bytes.Buffer
	logCompletion(&out, 2, 7, nil, false, nil)
	assert.Equal(t, ">>> Stopped at step 3/7.\n", out.String())

	out.Reset()
	logCompletion(&out, 0, 7, runner.ErrInterrupted, false, os.Interrupt)
	assert.Equal(t, "[CTRL+C]\n>>> Interrupted at step 1/7.\n", out.String())

	out.Reset()
	logCompletion(&out, 0, 7, nil, true, nil)
	assert.Empty(t, out.String())
}
