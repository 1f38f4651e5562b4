package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stepwise/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(ctx context.Context, e *domain.TraceEvent) {
			logger.DebugContext(ctx, "trace",
				"algorithm", e.Algorithm,
				"steps", e.Steps,
				"cached", e.Cached,
			)
		},
		OnCursorMove: func(ctx context.Context, e *domain.CursorEvent) {
			logger.DebugContext(ctx, "cursor_move",
				"session_id", e.SessionID,
				"command", e.Command.String(),
				"from", e.From,
				"to", e.To,
			)
		},
		OnPlaybackStart: func(ctx context.Context, e *domain.PlaybackEvent) {
			logger.DebugContext(ctx, "playback_start", "index", e.Index)
		},
		OnPlaybackStop: func(ctx context.Context, e *domain.PlaybackEvent) {
			logger.DebugContext(ctx, "playback_stop", "index", e.Index, "outcome", e.Outcome)
		},
	}
}
