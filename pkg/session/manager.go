package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// View is an opened session: the persisted record plus a live cursor over the
// regenerated trace.
type View struct {
	Session *domain.Session
	Cursor  *cursor.Cursor[any]
}

// Step returns the step under the cursor.
func (v *View) Step() trace.Step[any] {
	return v.Cursor.Current()
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.SessionStore
	source ports.TraceSource

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers lifecycle callbacks. OnCursorMove fires after every
// applied command.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithIDGenerator replaces the uuid generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a new Session Manager over a persistence store and the
// trace source sessions are replayed from.
func NewManager(store ports.SessionStore, source ports.TraceSource, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		source:  source,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create generates the trace for algorithm and input, then persists a new
// session positioned at step 0. Invalid input is rejected before anything is
// stored.
func (m *Manager) Create(ctx context.Context, algorithm string, input map[string]any) (*View, error) {
	t, err := m.source.Trace(ctx, algorithm, input)
	if err != nil {
		return nil, err
	}
	c, err := cursor.New(t)
	if err != nil {
		return nil, err
	}

	s := domain.NewSession(m.newID(), algorithm, input)
	s.Fingerprint = t.Fingerprint()

	if err := m.Save(ctx, s.ID, s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	m.logger.Debug("session created", "session_id", s.ID, "algorithm", algorithm, "steps", t.Len())
	return &View{Session: s, Cursor: c}, nil
}

// Open loads a session and rebuilds its cursor.
func (m *Manager) Open(ctx context.Context, sessionID string) (*View, error) {
	var view *View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		view, err = m.replay(ctx, s)
		return err
	})
	return view, err
}

// Apply runs cmd against the session cursor and persists the new index.
func (m *Manager) Apply(ctx context.Context, sessionID string, cmd domain.Command) (*View, error) {
	var (
		view *View
		from int
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		view, err = m.replay(ctx, s)
		if err != nil {
			return err
		}

		from = view.Cursor.Index()
		to, err := view.Cursor.Apply(cmd)
		if err != nil {
			return err
		}

		view.Session.Index = to
		view.Session.UpdatedAt = time.Now().UTC()
		return m.store.Save(ctx, sessionID, view.Session)
	})
	if err != nil {
		return nil, err
	}

	if m.hooks.OnCursorMove != nil {
		m.hooks.OnCursorMove(ctx, &domain.CursorEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCursorMoved},
			SessionID: sessionID,
			Command:   cmd,
			From:      from,
			To:        view.Cursor.Index(),
		})
	}
	return view, nil
}

// replay regenerates the trace of s and positions a cursor at its saved index.
// A fingerprint mismatch means the generator changed since the save, so the
// saved index no longer refers to the same step and the cursor starts over.
func (m *Manager) replay(ctx context.Context, s *domain.Session) (*View, error) {
	t, err := m.source.Trace(ctx, s.Algorithm, s.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate trace for session %s: %w", s.ID, err)
	}

	start := s.Index
	if s.Fingerprint != "" && s.Fingerprint != t.Fingerprint() {
		m.logger.Warn("trace fingerprint changed, resetting cursor",
			"session_id", s.ID,
			"algorithm", s.Algorithm,
			"saved_index", s.Index,
		)
		start = 0
	}
	s.Fingerprint = t.Fingerprint()

	c, err := cursor.New(t, cursor.WithStart(start))
	if err != nil {
		return nil, err
	}
	s.Index = c.Index()
	return &View{Session: s, Cursor: c}, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, sessionID string, s *domain.Session) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, s)
	})
}

// Delete removes the session from the store.
// It returns domain.ErrSessionNotFound for unknown ids.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return err
			}
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
