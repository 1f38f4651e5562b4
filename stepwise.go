package stepwise

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of traces kept by New when no size is given.
const DefaultCacheSize = 128

// Engine is the high-level entry point for the Stepwise library.
// It validates inputs, runs generators, caches the resulting traces and hands
// out cursors and players over them. Safe for concurrent use.
type Engine struct {
	cache     *lru.Cache[uint64, *trace.Trace[any]]
	cacheSize int
	maxInput  int
	delay     time.Duration
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCacheSize sets how many traces are memoized. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithMaxInputSize lowers the number of values, symbols or graph nodes an
// input may carry. It never raises algorithms.MaxValues.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInput = n
	}
}

// WithPlaybackDelay sets the default tick interval of players made by Player.
func WithPlaybackDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// New initializes a new Stepwise Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		cacheSize: DefaultCacheSize,
		maxInput:  algorithms.MaxValues,
		delay:     playback.DefaultDelay,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.cacheSize > 0 {
		cache, err := lru.New[uint64, *trace.Trace[any]](eng.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace cache: %w", err)
		}
		eng.cache = cache
	}

	return eng, nil
}

// Algorithms lists the registered algorithm descriptors.
func (e *Engine) Algorithms() []algorithms.Descriptor {
	return algorithms.Descriptors()
}

// Trace decodes raw input for algorithm and returns its trace.
// It implements ports.TraceSource.
func (e *Engine) Trace(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error) {
	kind, err := algorithms.ParseKind(algorithm)
	if err != nil {
		return nil, err
	}
	in, err := algorithms.DecodeInput(kind, input)
	if err != nil {
		return nil, err
	}
	return e.Generate(ctx, kind, in)
}

// Generate returns the trace of kind over in, from the cache when possible.
// Traces are immutable, so cached values are shared between callers.
func (e *Engine) Generate(ctx context.Context, kind algorithms.Kind, in algorithms.Input) (*trace.Trace[any], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.checkSize(kind, in); err != nil {
		return nil, err
	}

	key, err := cacheKey(kind, in)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		if t, ok := e.cache.Get(key); ok {
			e.emit(ctx, t, true)
			return t, nil
		}
	}

	start := time.Now()
	t, err := algorithms.Generate(kind, in)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("trace generated",
		"algorithm", string(kind),
		"steps", t.Len(),
		"elapsed", time.Since(start),
	)

	if e.cache != nil {
		e.cache.Add(key, t)
	}
	e.emit(ctx, t, false)
	return t, nil
}

// Cursor generates the trace for algorithm and positions a cursor on step 0.
func (e *Engine) Cursor(ctx context.Context, algorithm string, input map[string]any) (*cursor.Cursor[any], error) {
	t, err := e.Trace(ctx, algorithm, input)
	if err != nil {
		return nil, err
	}
	return cursor.New(t)
}

// Apply runs cmd on c and reports the move to the OnCursorMove hook.
func (e *Engine) Apply(ctx context.Context, c *cursor.Cursor[any], cmd domain.Command) (int, error) {
	from := c.Index()
	to, err := c.Apply(cmd)
	if err != nil {
		return from, err
	}
	if e.hooks.OnCursorMove != nil {
		e.hooks.OnCursorMove(ctx, &domain.CursorEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCursorMoved},
			Command:   cmd,
			From:      from,
			To:        to,
		})
	}
	return to, nil
}

// Player creates an Idle player over s with the engine's delay, hooks and
// logger. Later options override the defaults.
func (e *Engine) Player(s playback.Stepper, opts ...playback.Option) *playback.Player {
	base := []playback.Option{
		playback.WithDelay(e.delay),
		playback.WithHooks(e.hooks),
		playback.WithLogger(e.logger),
	}
	return playback.New(s, append(base, opts...)...)
}

// Purge drops every cached trace.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// CacheLen reports how many traces are cached.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

func (e *Engine) checkSize(kind algorithms.Kind, in algorithms.Input) error {
	if e.maxInput <= 0 || e.maxInput >= algorithms.MaxValues {
		return nil
	}
	size := len(in.Values)
	if n := len(in.Symbols); n > size {
		size = n
	}
	if in.Graph != nil && len(in.Graph.Nodes) > size {
		size = len(in.Graph.Nodes)
	}
	if size > e.maxInput {
		return &algorithms.InputError{Kind: kind, Field: "input", Reason: fmt.Sprintf("at most %d items", e.maxInput)}
	}
	return nil
}

func (e *Engine) emit(ctx context.Context, t *trace.Trace[any], cached bool) {
	if e.hooks.OnTraceGenerated == nil {
		return
	}
	e.hooks.OnTraceGenerated(ctx, &domain.TraceEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventTraceGenerated},
		Algorithm:   t.Algorithm(),
		Steps:       t.Len(),
		Cached:      cached,
		Fingerprint: t.Fingerprint(),
	})
}

// cacheKey hashes the kind and the canonical JSON of the input.
func cacheKey(kind algorithms.Kind, in algorithms.Input) (uint64, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("failed to encode input: %w", err)
	}
	d := xxhash.New()
	_, _ = d.WriteString(string(kind))
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(data)
	return d.Sum64(), nil
}
