package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
)

// Delay bounds and default.
const (
	DefaultDelay = 400 * time.Millisecond
	MinDelay     = time.Millisecond
	MaxDelay     = 10 * time.Second
)

// Stepper is the part of a cursor the Player drives.
type Stepper interface {
	Next() bool
	Index() int
	AtEnd() bool
}

// State of a Player.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Player advances a Stepper on a timer. While Running it is the only mutator
// of the stepper; views must Cancel before they reset or reload it.
type Player struct {
	stepper   Stepper
	scheduler Scheduler
	delay     time.Duration
	onAdvance func(index int)
	onFinish  func()
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	timer      Timer
	done       chan struct{}
	ctx        context.Context
}

// Option configures a Player.
type Option func(*Player)

// WithDelay sets the tick interval, clamped to [MinDelay, MaxDelay].
func WithDelay(d time.Duration) Option {
	return func(p *Player) {
		p.delay = max(MinDelay, min(d, MaxDelay))
	}
}

// WithScheduler replaces the runtime clock.
func WithScheduler(s Scheduler) Option {
	return func(p *Player) {
		p.scheduler = s
	}
}

// WithOnAdvance is called after every tick with the new index.
// It runs on the timer goroutine, outside the Player's lock.
func WithOnAdvance(fn func(index int)) Option {
	return func(p *Player) {
		p.onAdvance = fn
	}
}

// WithOnFinish is called once when a run reaches the last step.
func WithOnFinish(fn func()) Option {
	return func(p *Player) {
		p.onFinish = fn
	}
}

// WithHooks attaches lifecycle hooks for start/stop events.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(p *Player) {
		p.hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

// New creates an Idle player over stepper.
func New(stepper Stepper, opts ...Option) *Player {
	p := &Player{
		stepper:   stepper,
		scheduler: RealScheduler{},
		delay:     DefaultDelay,
		logger:    logging.NewNop(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns Idle or Running.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Running reports whether a run is active.
func (p *Player) Running() bool { return p.State() == Running }

// Delay returns the tick interval.
func (p *Player) Delay() time.Duration { return p.delay }

// Start begins a run from the stepper's current index.
func (p *Player) Start() error {
	_, err := p.start(context.Background())
	return err
}

// Run starts playback and blocks until the run finishes or ctx is done.
// Cancellation through ctx cancels the run and returns ctx.Err().
func (p *Player) Run(ctx context.Context) error {
	done, err := p.start(ctx)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.Cancel()
		return ctx.Err()
	}
}

func (p *Player) start(ctx context.Context) (<-chan struct{}, error) {
	p.mu.Lock()
	if p.state == Running {
		p.mu.Unlock()
		return nil, domain.ErrAlreadyRunning
	}
	if p.stepper.AtEnd() {
		index := p.stepper.Index()
		p.mu.Unlock()
		return nil, fmt.Errorf("cannot start at index %d: %w", index, domain.ErrNothingToPlay)
	}

	p.state = Running
	p.generation++
	gen := p.generation
	done := make(chan struct{})
	p.done = done
	p.ctx = ctx
	index := p.stepper.Index()
	p.mu.Unlock()

	// Hooks run unlocked so they may query the player. The first tick is
	// armed afterwards, so the start event always precedes the stop event.
	p.logger.Debug("Playback started", "index", index, "delay", p.delay)
	if p.hooks.OnPlaybackStart != nil {
		p.hooks.OnPlaybackStart(ctx, &domain.PlaybackEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPlaybackStarted},
			Index:     index,
		})
	}

	p.mu.Lock()
	if gen == p.generation && p.state == Running {
		p.arm(gen)
	}
	p.mu.Unlock()
	return done, nil
}

// arm must be called with p.mu held.
func (p *Player) arm(gen uint64) {
	p.timer = p.scheduler.AfterFunc(p.delay, func() { p.tick(gen) })
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.generation || p.state != Running {
		// Stale callback from a cancelled run.
		p.mu.Unlock()
		return
	}

	p.stepper.Next()
	index := p.stepper.Index()
	finished := p.stepper.AtEnd()
	var stopped func()
	if finished {
		stopped = p.stopLocked(domain.PlaybackFinished)
	}
	p.timer = nil
	p.mu.Unlock()

	if p.onAdvance != nil {
		p.onAdvance(index)
	}
	if finished {
		stopped()
		if p.onFinish != nil {
			p.onFinish()
		}
		return
	}

	// The next tick is armed only after the callback returns, so callbacks
	// never overlap and the delay is measured from the end of a render.
	p.mu.Lock()
	if gen == p.generation && p.state == Running {
		p.arm(gen)
	}
	p.mu.Unlock()
}

// Cancel stops an active run. It is a no-op when Idle and reports whether a
// run was stopped. After Cancel returns no further advance will happen.
func (p *Player) Cancel() bool {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	stopped := p.stopLocked(domain.PlaybackCancelled)
	p.mu.Unlock()

	stopped()
	return true
}

// Toggle starts an Idle player or cancels a Running one.
func (p *Player) Toggle() error {
	if p.Cancel() {
		return nil
	}
	return p.Start()
}

// stopLocked must be called with p.mu held. It returns the notification to
// run once the lock is released; the run's done channel closes after the
// stop hook so Run never returns ahead of it.
func (p *Player) stopLocked(outcome domain.PlaybackOutcome) func() {
	p.state = Idle
	p.generation++
	p.timer = nil
	ctx, done, index := p.ctx, p.done, p.stepper.Index()

	return func() {
		p.logger.Debug("Playback stopped", "index", index, "outcome", outcome)
		if p.hooks.OnPlaybackStop != nil {
			p.hooks.OnPlaybackStop(ctx, &domain.PlaybackEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPlaybackStopped},
				Index:     index,
				Outcome:   outcome,
			})
		}
		close(done)
	}
}
