package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceGenerated  EventType = "trace_generated"
	EventCursorMoved     EventType = "cursor_moved"
	EventPlaybackStarted EventType = "playback_started"
	EventPlaybackStopped EventType = "playback_stopped"
)

// PlaybackOutcome tells why a run went back to Idle.
type PlaybackOutcome string

const (
	PlaybackFinished  PlaybackOutcome = "finished"
	PlaybackCancelled PlaybackOutcome = "cancelled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TraceEvent is emitted whenever a trace is produced or served from cache.
type TraceEvent struct {
	EventBase
	Algorithm   string `json:"algorithm"`
	Steps       int    `json:"steps"`
	Cached      bool   `json:"cached"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// CursorEvent is emitted when a session cursor applies a command.
type CursorEvent struct {
	EventBase
	SessionID string  `json:"session_id,omitempty"`
	Command   Command `json:"command"`
	From      int     `json:"from"`
	To        int     `json:"to"`
}

// PlaybackEvent is emitted on Idle<->Running transitions.
type PlaybackEvent struct {
	EventBase
	Index   int             `json:"index"`
	Outcome PlaybackOutcome `json:"outcome,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTraceGenerated func(context.Context, *TraceEvent)
	OnCursorMove     func(context.Context, *CursorEvent)
	OnPlaybackStart  func(context.Context, *PlaybackEvent)
	OnPlaybackStop   func(context.Context, *PlaybackEvent)
}

// Merge returns hooks that call h first and then other, for every callback set in either.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTraceGenerated: chain(h.OnTraceGenerated, other.OnTraceGenerated),
		OnCursorMove:     chain(h.OnCursorMove, other.OnCursorMove),
		OnPlaybackStart:  chain(h.OnPlaybackStart, other.OnPlaybackStart),
		OnPlaybackStop:   chain(h.OnPlaybackStop, other.OnPlaybackStop),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
