package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Type    string `json:"type"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

func newCursor(t *testing.T, kind algorithms.Kind) *cursor.Cursor[any] {
	t.Helper()
	tr, err := algorithms.GenerateFixture(kind)
	require.NoError(t, err)
	c, err := cursor.New(tr)
	require.NoError(t, err)
	return c
}

func decodeLines(t *testing.T, out *bytes.Buffer) []line {
	t.Helper()
	var lines []line
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		lines = append(lines, l)
	}
	return lines
}

func stepIndexes(lines []line) []int {
	var idx []int
	for _, l := range lines {
		if l.Type == "step" {
			idx = append(idx, l.Index)
		}
	}
	return idx
}

func TestRunner_Navigation(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("next\nn\nprev\nseek 100\n\nreset\nquit\nnext\n")

	var applied []domain.Command
	r := runner.New(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(in, out)),
		runner.WithOnApply(func(ctx context.Context, cmd domain.Command) error {
			applied = append(applied, cmd)
			return nil
		}),
	)

	c := newCursor(t, algorithms.HeapBuild)
	require.NoError(t, r.Run(context.Background(), algorithms.HeapBuild, c))

	lines := decodeLines(t, out)
	assert.Equal(t, []int{0, 1, 2, 1, 5, 0}, stepIndexes(lines))
	assert.Equal(t, 6, lines[0].Total)
	assert.Equal(t, []domain.Command{
		domain.Next(), domain.Next(), domain.Prev(), domain.Seek(100), domain.Reset(),
	}, applied)
	assert.Equal(t, 0, c.Index(), "quit stops before the trailing command")
}

func TestRunner_HelpAndUnknownCommand(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("help\njump\nnext\n")

	r := runner.New(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(in, out)),
	)
	c := newCursor(t, algorithms.HeapBuild)
	require.NoError(t, r.Run(context.Background(), algorithms.HeapBuild, c), "EOF ends the loop cleanly")

	lines := decodeLines(t, out)
	require.Len(t, lines, 4)
	assert.Equal(t, "system", lines[1].Type)
	assert.Equal(t, runner.HelpText, lines[1].Message)
	assert.Equal(t, "system", lines[2].Type)
	assert.Contains(t, lines[2].Message, "unknown command")
	assert.Equal(t, 1, lines[3].Index)
}

func TestRunner_Play(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("play\nquit\n")

	var applied []domain.Command
	r := runner.New(
		runner.WithRenderer(render.New(render.WithProfile(termenv.Ascii))),
		runner.WithInputHandler(runner.NewTextHandler(in, out, runner.WithPrompt(""))),
		runner.WithDelay(time.Millisecond),
		runner.WithOnApply(func(ctx context.Context, cmd domain.Command) error {
			applied = append(applied, cmd)
			return nil
		}),
	)

	c := newCursor(t, algorithms.Huffman)
	require.NoError(t, r.Run(context.Background(), algorithms.Huffman, c))

	assert.True(t, c.AtEnd())
	assert.Equal(t, []domain.Command{domain.Seek(5)}, applied)
	for i := 1; i <= 6; i++ {
		assert.Contains(t, out.String(), fmt.Sprintf("huffman  step %d/6", i))
	}
}

func TestRunner_PlayAtEnd(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("seek 5\nplay\n")

	r := runner.New(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(in, out)),
	)
	c := newCursor(t, algorithms.Huffman)
	require.NoError(t, r.Run(context.Background(), algorithms.Huffman, c))

	lines := decodeLines(t, out)
	last := lines[len(lines)-1]
	assert.Equal(t, "system", last.Type)
	assert.Contains(t, last.Message, "already at the last step")
}

func TestRunner_PersistenceErrorStops(t *testing.T) {
	boom := errors.New("disk full")
	r := runner.New(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("next\nnext\n"), &bytes.Buffer{})),
		runner.WithOnApply(func(ctx context.Context, cmd domain.Command) error { return boom }),
	)
	c := newCursor(t, algorithms.HeapBuild)
	err := r.Run(context.Background(), algorithms.HeapBuild, c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Index())
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("next\n"), &bytes.Buffer{})),
	)
	err := r.Run(ctx, algorithms.HeapBuild, newCursor(t, algorithms.HeapBuild))
	assert.ErrorIs(t, err, context.Canceled)
}
