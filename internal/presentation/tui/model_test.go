package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, kind algorithms.Kind, opts ...Option) (*Model, *cursor.Cursor[any]) {
	t.Helper()
	tr, err := algorithms.GenerateFixture(kind)
	require.NoError(t, err)
	c, err := cursor.New(tr)
	require.NoError(t, err)
	opts = append([]Option{WithRenderer(render.New(render.WithProfile(termenv.Ascii)))}, opts...)
	return New(kind, c, opts...), c
}

func TestModel_Navigation(t *testing.T) {
	var applied []domain.Command
	m, c := newModel(t, algorithms.DFS, WithOnApply(func(_ context.Context, cmd domain.Command) error {
		applied = append(applied, cmd)
		return nil
	}))

	m.Update(runes("n"))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, c.Index())

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, c.Index())

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, c.Len()-1, c.Index())

	// Next at the end does not move and is not persisted.
	m.Update(runes("n"))
	m.Update(runes("r"))
	assert.Equal(t, 0, c.Index())

	assert.Equal(t, []domain.Command{
		domain.Next(), domain.Next(), domain.Prev(), domain.Seek(c.Len() - 1), domain.Reset(),
	}, applied)
}

func TestModel_View(t *testing.T) {
	m, _ := newModel(t, algorithms.Huffman, WithNotes("# Huffman\n\nGreedy merging.", PlainRenderer))
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 60})

	view := m.View()
	assert.Contains(t, view, "stepwise · huffman")
	assert.Contains(t, view, "step 1/6")
	assert.NotContains(t, view, "Greedy")

	m.Update(runes("t"))
	assert.Contains(t, m.View(), "Greedy")

	m.Update(runes("q"))
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_Play(t *testing.T) {
	sched := &playback.ManualScheduler{}
	var applied []domain.Command
	m, c := newModel(t, algorithms.Huffman,
		WithPlayback(playback.WithScheduler(sched)),
		WithOnApply(func(_ context.Context, cmd domain.Command) error {
			applied = append(applied, cmd)
			return nil
		}),
	)
	var msgs []tea.Msg
	m.send = func(msg tea.Msg) { msgs = append(msgs, msg) }

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.player.Running())
	assert.Contains(t, m.View(), "playing")

	sched.Advance(10 * playback.DefaultDelay)
	require.NotEmpty(t, msgs)
	for _, msg := range msgs {
		m.Update(msg)
	}

	assert.Equal(t, c.Len()-1, c.Index())
	assert.False(t, m.player.Running())
	assert.IsType(t, finishedMsg{}, msgs[len(msgs)-1])
	assert.Equal(t, []domain.Command{domain.Seek(c.Len() - 1)}, applied)

	// Playing again at the end reports an error instead of starting.
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.player.Running())
	assert.Contains(t, m.View(), "already at the last step")
}

func TestModel_PauseCommits(t *testing.T) {
	sched := &playback.ManualScheduler{}
	var applied []domain.Command
	m, c := newModel(t, algorithms.Huffman,
		WithPlayback(playback.WithScheduler(sched), playback.WithDelay(time.Second)),
		WithOnApply(func(_ context.Context, cmd domain.Command) error {
			applied = append(applied, cmd)
			return nil
		}),
	)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	sched.Advance(2 * time.Second)
	assert.Equal(t, 2, c.Index())

	// Manual navigation stops the run first.
	m.Update(runes("n"))
	assert.False(t, m.player.Running())
	assert.Equal(t, 3, c.Index())
	assert.Zero(t, sched.Pending())
	assert.Equal(t, []domain.Command{domain.Seek(2), domain.Next()}, applied)
}

func TestModel_SaveError(t *testing.T) {
	boom := errors.New("disk full")
	m, _ := newModel(t, algorithms.MergeSort, WithOnApply(func(context.Context, domain.Command) error {
		return boom
	}))

	m.Update(runes("n"))
	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, boom)
	assert.Contains(t, m.View(), "save failed: disk full")
}
