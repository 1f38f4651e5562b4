package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTraceGenerated(ctx, &domain.TraceEvent{Algorithm: "heap-build", Steps: 6})
	hooks.OnTraceGenerated(ctx, &domain.TraceEvent{Algorithm: "heap-build", Steps: 6, Cached: true})
	hooks.OnCursorMove(ctx, &domain.CursorEvent{Command: domain.Next()})
	hooks.OnCursorMove(ctx, &domain.CursorEvent{Command: domain.Seek(3)})
	hooks.OnCursorMove(ctx, &domain.CursorEvent{Command: domain.Next()})
	hooks.OnPlaybackStart(ctx, &domain.PlaybackEvent{})
	hooks.OnPlaybackStart(ctx, &domain.PlaybackEvent{})
	hooks.OnPlaybackStop(ctx, &domain.PlaybackEvent{Outcome: domain.PlaybackFinished})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Traces.WithLabelValues("heap-build", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Traces.WithLabelValues("heap-build", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CursorMoves.WithLabelValues("next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CursorMoves.WithLabelValues("seek")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaybackActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaybackRuns.WithLabelValues("finished")))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	m.Hooks().OnTraceGenerated(context.Background(), &domain.TraceEvent{Algorithm: "bfs", Steps: 8})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stepwise_traces_total{algorithm="bfs",cached="false"} 1`)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := observability.LogHooks(logger)
	hooks.OnCursorMove(context.Background(), &domain.CursorEvent{SessionID: "s1", Command: domain.Seek(2), From: 0, To: 2})

	assert.Contains(t, buf.String(), "cursor_move")
	assert.Contains(t, buf.String(), `command="seek 2"`)
	assert.Contains(t, buf.String(), "session_id=s1")
}
