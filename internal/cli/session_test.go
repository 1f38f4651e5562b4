package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexesOf(t *testing.T, out *bytes.Buffer) []int {
	t.Helper()
	var idx []int
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var line struct {
			Type  string `json:"type"`
			Index int    `json:"index"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		if line.Type == "step" {
			idx = append(idx, line.Index)
		}
	}
	return idx
}

func TestExecute_Validation(t *testing.T) {
	app, err := NewApp(testConfig(t, config.BackendMemory))
	require.NoError(t, err)

	err = Execute(app, PlayOptions{SessionID: "x", Save: true})
	assert.ErrorContains(t, err, "cannot be used together")

	err = Execute(app, PlayOptions{JSON: true})
	assert.ErrorContains(t, err, "required")

	err = Execute(app, PlayOptions{Algorithm: "bogo-sort", JSON: true, Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestRunSession_Ephemeral(t *testing.T) {
	app, err := NewApp(testConfig(t, config.BackendMemory))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = Execute(app, PlayOptions{
		Algorithm: "dfs",
		JSON:      true,
		Stdin:     strings.NewReader("next\nnext\nprev\n"),
		Stdout:    out,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 1}, indexesOf(t, out))

	sessions, err := app.Sessions()
	require.NoError(t, err)
	ids, err := sessions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunSession_SaveAndResume(t *testing.T) {
	app, err := NewApp(testConfig(t, config.BackendMemory))
	require.NoError(t, err)
	ctx := context.Background()

	err = Execute(app, PlayOptions{
		Algorithm: "huffman",
		Save:      true,
		JSON:      true,
		Stdin:     strings.NewReader("next\nnext\nseek 4\nquit\n"),
		Stdout:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	sessions, err := app.Sessions()
	require.NoError(t, err)
	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	s, err := sessions.Load(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "huffman", s.Algorithm)
	assert.Equal(t, 4, s.Index)

	// Resuming starts where the last run stopped, and play saves the end.
	out := &bytes.Buffer{}
	err = Execute(app, PlayOptions{
		SessionID: ids[0],
		JSON:      true,
		Delay:     time.Millisecond,
		Stdin:     strings.NewReader("play\n"),
		Stdout:    out,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, indexesOf(t, out))

	s, err = sessions.Load(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 5, s.Index)
}

func TestRunSession_MissingSession(t *testing.T) {
	app, err := NewApp(testConfig(t, config.BackendMemory))
	require.NoError(t, err)

	err = Execute(app, PlayOptions{SessionID: "nope", JSON: true, Stdout: &bytes.Buffer{}})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunSession_PlainText(t *testing.T) {
	app, err := NewApp(testConfig(t, config.BackendMemory))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = Execute(app, PlayOptions{
		Algorithm: "bfs",
		Plain:     true,
		Stdin:     strings.NewReader("next\nquit\n"),
		Stdout:    out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "bfs  step 2/")
	assert.Contains(t, out.String(), ">>> Stopped at step 2/")
}
