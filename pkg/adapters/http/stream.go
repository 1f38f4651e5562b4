package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/gorilla/websocket"
)

// ControlMessage is sent by the client while a session plays.
type ControlMessage struct {
	Type string `json:"type"`
}

// wsWriter serializes writes; gorilla connections allow one concurrent writer.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
	err  error
}

func (w *wsWriter) view(v *session.View) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.err = w.conn.WriteJSON(viewOf(v))
	return w.err
}

func (w *wsWriter) close(code int, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

// PlaySession handles the GET /sessions/{id}/play websocket.
// It streams one SessionView per step until the last step, a "stop" message
// or the client going away, then saves the reached index.
func (s *Server) PlaySession(w http.ResponseWriter, r *http.Request, id string, params PlaySessionParams) {
	var opts []playback.Option
	if params.Delay != nil {
		d := time.Duration(*params.Delay) * time.Millisecond
		if d < playback.MinDelay || d > playback.MaxDelay {
			s.writeError(w, r, fmt.Errorf("%w: delay must be between %v and %v", domain.ErrInvalidInput, playback.MinDelay, playback.MaxDelay))
			return
		}
		opts = append(opts, playback.WithDelay(d))
	}

	view, err := s.Sessions.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if view.Cursor.AtEnd() {
		s.writeError(w, r, fmt.Errorf("session %s: %w", id, domain.ErrNothingToPlay))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.Logger.Warn("websocket upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()
	out := &wsWriter{conn: conn}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			var msg ControlMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "stop" {
				return
			}
		}
	}()

	finished := make(chan struct{})
	opts = append(opts,
		playback.WithOnAdvance(func(int) {
			if err := out.view(view); err != nil {
				cancel()
			}
		}),
		playback.WithOnFinish(func() { close(finished) }),
	)
	player := s.Engine.Player(view.Cursor, opts...)

	from := view.Cursor.Index()
	if err := out.view(view); err != nil {
		return
	}
	runErr := player.Run(ctx)
	if runErr == nil {
		<-finished
	}

	if to := view.Cursor.Index(); to != from {
		// The request context may already be gone; the reached index is still saved.
		if _, err := s.Sessions.Apply(context.WithoutCancel(r.Context()), id, domain.Seek(to)); err != nil {
			s.Logger.Error("failed to save played session", "session_id", id, "err", err)
		}
	}

	s.Logger.Debug("session playback ended", "session_id", id, "from", from, "to", view.Cursor.Index(), "err", runErr)
	if runErr == nil {
		out.close(websocket.CloseNormalClosure, "finished")
	} else {
		out.close(websocket.CloseNormalClosure, "stopped")
	}
}
