package playback_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCursor(t *testing.T, n int) *cursor.Cursor[int] {
	t.Helper()
	b := trace.NewBuilder("count", func(v int) int { return v })
	for i := 0; i < n; i++ {
		b.Record(i, "", fmt.Sprintf("step %d", i))
	}
	tr, err := b.Build()
	require.NoError(t, err)
	c, err := cursor.New(tr)
	require.NoError(t, err)
	return c
}

func TestPlayer_RunsToEnd(t *testing.T) {
	c := newCursor(t, 4)
	sched := &playback.ManualScheduler{}

	var advanced []int
	finished := 0
	p := playback.New(c,
		playback.WithScheduler(sched),
		playback.WithDelay(100*time.Millisecond),
		playback.WithOnAdvance(func(i int) { advanced = append(advanced, i) }),
		playback.WithOnFinish(func() { finished++ }),
	)

	require.NoError(t, p.Start())
	assert.Equal(t, playback.Running, p.State())
	assert.Equal(t, 1, sched.Pending())

	assert.Equal(t, 0, sched.Advance(99*time.Millisecond), "nothing fires before the delay")
	assert.Equal(t, 1, sched.Advance(time.Millisecond))
	assert.Equal(t, []int{1}, advanced)

	assert.Equal(t, 2, sched.Advance(time.Second))
	assert.Equal(t, []int{1, 2, 3}, advanced)
	assert.Equal(t, 1, finished)
	assert.Equal(t, playback.Idle, p.State())
	assert.Equal(t, 0, sched.Pending())
	assert.True(t, c.AtEnd())
}

func TestPlayer_SingleFlight(t *testing.T) {
	c := newCursor(t, 5)
	sched := &playback.ManualScheduler{}
	p := playback.New(c, playback.WithScheduler(sched))

	require.NoError(t, p.Start())
	err := p.Start()
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.Equal(t, 1, sched.Pending(), "a rejected start must not arm another timer")

	sched.Advance(playback.DefaultDelay)
	assert.Equal(t, 1, c.Index(), "one run advances one step per tick")
}

func TestPlayer_NothingToPlay(t *testing.T) {
	c := newCursor(t, 3)
	c.Seek(2)
	p := playback.New(c, playback.WithScheduler(&playback.ManualScheduler{}))

	err := p.Start()
	assert.ErrorIs(t, err, domain.ErrNothingToPlay)
	assert.Equal(t, playback.Idle, p.State())
}

func TestPlayer_CancelStopsAdvancing(t *testing.T) {
	c := newCursor(t, 5)
	sched := &playback.ManualScheduler{}
	p := playback.New(c, playback.WithScheduler(sched))

	require.NoError(t, p.Start())
	sched.Advance(playback.DefaultDelay)
	assert.True(t, p.Cancel())
	assert.False(t, p.Cancel(), "cancel while idle is a no-op")

	sched.Advance(time.Minute)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 0, sched.Pending())
}

// staleScheduler keeps callbacks even after Stop so the test can fire one
// that was already in flight when Cancel ran.
type staleScheduler struct {
	fns []func()
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

func (s *staleScheduler) AfterFunc(_ time.Duration, f func()) playback.Timer {
	s.fns = append(s.fns, f)
	return noopTimer{}
}

func TestPlayer_StaleTickIsIgnored(t *testing.T) {
	c := newCursor(t, 5)
	sched := &staleScheduler{}
	p := playback.New(c, playback.WithScheduler(sched))

	require.NoError(t, p.Start())
	require.Len(t, sched.fns, 1)
	p.Cancel()

	// The first run's callback arrives late, after a second run started.
	require.NoError(t, p.Start())
	sched.fns[0]()
	assert.Equal(t, 0, c.Index(), "a callback from a cancelled run must not advance")

	sched.fns[1]()
	assert.Equal(t, 1, c.Index())
}

func TestPlayer_Toggle(t *testing.T) {
	c := newCursor(t, 3)
	p := playback.New(c, playback.WithScheduler(&playback.ManualScheduler{}))

	require.NoError(t, p.Toggle())
	assert.True(t, p.Running())
	require.NoError(t, p.Toggle())
	assert.False(t, p.Running())
}

func TestPlayer_DelayClamped(t *testing.T) {
	c := newCursor(t, 2)
	assert.Equal(t, playback.MinDelay, playback.New(c, playback.WithDelay(0)).Delay())
	assert.Equal(t, playback.MaxDelay, playback.New(c, playback.WithDelay(time.Hour)).Delay())
	assert.Equal(t, playback.DefaultDelay, playback.New(c).Delay())
}

func TestPlayer_Hooks(t *testing.T) {
	c := newCursor(t, 3)
	sched := &playback.ManualScheduler{}

	var mu sync.Mutex
	var events []domain.PlaybackEvent
	record := func(_ context.Context, e *domain.PlaybackEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, *e)
	}
	p := playback.New(c,
		playback.WithScheduler(sched),
		playback.WithHooks(domain.LifecycleHooks{OnPlaybackStart: record, OnPlaybackStop: record}),
	)

	require.NoError(t, p.Start())
	sched.Advance(time.Minute)

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventPlaybackStarted, events[0].Type)
	assert.Equal(t, 0, events[0].Index)
	assert.Equal(t, domain.EventPlaybackStopped, events[1].Type)
	assert.Equal(t, domain.PlaybackFinished, events[1].Outcome)
	assert.Equal(t, 2, events[1].Index)
}

func TestPlayer_HooksMayQueryPlayer(t *testing.T) {
	c := newCursor(t, 3)
	sched := &playback.ManualScheduler{}

	var p *playback.Player
	var seen []bool
	query := func(_ context.Context, _ *domain.PlaybackEvent) {
		seen = append(seen, p.Running())
	}
	p = playback.New(c,
		playback.WithScheduler(sched),
		playback.WithHooks(domain.LifecycleHooks{OnPlaybackStart: query, OnPlaybackStop: query}),
	)

	require.NoError(t, p.Start())
	assert.True(t, p.Cancel())
	assert.Equal(t, []bool{true, false}, seen)
	assert.Equal(t, 0, sched.Advance(time.Minute), "a cancelled run arms nothing")

	seen = nil
	require.NoError(t, p.Start())
	sched.Advance(time.Minute)
	assert.Equal(t, []bool{true, false}, seen)
	assert.Equal(t, playback.Idle, p.State())
}

func TestPlayer_RunRealClock(t *testing.T) {
	c := newCursor(t, 4)
	p := playback.New(c, playback.WithDelay(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.True(t, c.AtEnd())
	assert.False(t, p.Running())
}

func TestPlayer_RunCancelledByContext(t *testing.T) {
	c := newCursor(t, 4)
	p := playback.New(c, playback.WithScheduler(&playback.ManualScheduler{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.Running())
	assert.Equal(t, 0, c.Index())
}
