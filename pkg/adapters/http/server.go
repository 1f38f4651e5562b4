package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// Engine is the part of the stepwise engine the API needs.
type Engine interface {
	Algorithms() []algorithms.Descriptor
	Trace(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error)
	Player(s playback.Stepper, opts ...playback.Option) *playback.Player
}

// Server implements ServerInterface.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Logger   *slog.Logger

	apiVersion string
	validate   *validator.Validate
	upgrader   websocket.Upgrader
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

type options struct {
	logger  *slog.Logger
	metrics http.Handler
	rate    float64
	burst   int
}

// Option configures NewHandler.
type Option func(*options)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(o *options) {
		o.metrics = h
	}
}

// WithRateLimit allows r requests per second with the given burst.
// A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(o *options) {
		o.rate = r
		o.burst = burst
	}
}

// NewHandler creates the HTTP handler for the engine and its sessions.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	server := &Server{
		Engine:     engine,
		Sessions:   sessions,
		Logger:     o.logger,
		apiVersion: doc.Info.Version,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	if o.rate > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(o.rate), max(o.burst, 1))))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(specYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if o.metrics != nil {
		r.Handle("/metrics", o.metrics)
	}

	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter:       r,
		Middlewares:      []MiddlewareFunc{server.validateRequest(router)},
		ErrorHandlerFunc: server.writeError,
	}), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, Error{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validateRequest checks parameters and bodies against the OpenAPI document.
// Routes the document does not describe pass through.
func (s *Server) validateRequest(router routers.Router) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.writeError(w, r, fmt.Errorf("%w: %s", domain.ErrInvalidInput, firstLine(err.Error())))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Stepwise API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Info{
		App:        "stepwise-http",
		Version:    strings.TrimSpace(stepwise.Version),
		APIVersion: s.apiVersion,
	})
}

// ListAlgorithms handles the GET /algorithms request.
func (s *Server) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Algorithms())
}

// CreateTrace handles the POST /traces request.
func (s *Server) CreateTrace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if err := s.decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Engine.Trace(r.Context(), body.Algorithm, body.Input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// GetTrace handles the GET /traces/{kind} request.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request, kind string, params GetTraceParams) {
	t, err := s.Engine.Trace(r.Context(), kind, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if params.Index == nil {
		writeJSON(w, http.StatusOK, t)
		return
	}
	i := *params.Index
	if i < 0 || i >= t.Len() {
		s.writeError(w, r, fmt.Errorf("%w: index %d outside [0, %d)", domain.ErrInvalidInput, i, t.Len()))
		return
	}
	writeJSON(w, http.StatusOK, StepResponse{
		Algorithm:   t.Algorithm(),
		Fingerprint: t.Fingerprint(),
		Total:       t.Len(),
		Step:        t.At(i),
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if err := s.decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.Sessions.Create(r.Context(), body.Algorithm, body.Input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("session created", "session_id", view.Session.ID, "algorithm", body.Algorithm)
	w.Header().Set("Location", "/sessions/"+view.Session.ID)
	writeJSON(w, http.StatusCreated, viewOf(view))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	view, err := s.Sessions.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(view))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyCommand handles the POST /sessions/{id}/commands request.
func (s *Server) ApplyCommand(w http.ResponseWriter, r *http.Request, id string) {
	var cmd domain.Command
	if err := s.decode(w, r, &cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.Sessions.Apply(r.Context(), id, cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(view))
}

// decode reads a JSON body into dst and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidInput, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// statusOf maps domain sentinels to HTTP status codes.
func statusOf(err error) int {
	var paramErr *InvalidParamFormatError
	switch {
	case errors.As(err, &paramErr),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrDuplicateValue),
		errors.Is(err, domain.ErrCapacity),
		errors.Is(err, domain.ErrOverflow),
		errors.Is(err, domain.ErrUnderflow):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownAlgorithm),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrTopicNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyRunning),
		errors.Is(err, domain.ErrNothingToPlay):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, Error{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func viewOf(v *session.View) SessionView {
	s := *v.Session
	s.Index = v.Cursor.Index()
	return SessionView{Session: &s, Total: v.Cursor.Len(), Step: v.Step()}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
