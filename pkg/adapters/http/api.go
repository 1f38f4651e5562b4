package http

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var specYAML []byte

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error string `json:"error"`
}

// Info describes the running build.
type Info struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}

// TraceRequest selects an algorithm and its raw input. A nil input means the fixture.
type TraceRequest struct {
	Algorithm string         `json:"algorithm" validate:"required"`
	Input     map[string]any `json:"input,omitempty"`
}

// StepResponse is a single step of a trace.
type StepResponse struct {
	Algorithm   string          `json:"algorithm"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Total       int             `json:"total"`
	Step        trace.Step[any] `json:"step"`
}

// SessionView is a session together with the step under its cursor.
type SessionView struct {
	Session *domain.Session `json:"session"`
	Total   int             `json:"total"`
	Step    trace.Step[any] `json:"step"`
}

// GetTraceParams defines parameters for GetTrace.
type GetTraceParams struct {
	Index *int `form:"index,omitempty" json:"index,omitempty"`
}

// PlaySessionParams defines parameters for PlaySession.
type PlaySessionParams struct {
	// Delay is the tick interval in milliseconds.
	Delay *int `form:"delay,omitempty" json:"delay,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
	// (GET /algorithms)
	ListAlgorithms(w http.ResponseWriter, r *http.Request)
	// (POST /traces)
	CreateTrace(w http.ResponseWriter, r *http.Request)
	// (GET /traces/{kind})
	GetTrace(w http.ResponseWriter, r *http.Request, kind string, params GetTraceParams)
	// (GET /sessions)
	ListSessions(w http.ResponseWriter, r *http.Request)
	// (POST /sessions)
	CreateSession(w http.ResponseWriter, r *http.Request)
	// (GET /sessions/{id})
	GetSession(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /sessions/{id})
	DeleteSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/commands)
	ApplyCommand(w http.ResponseWriter, r *http.Request, id string)
	// (GET /sessions/{id}/play)
	PlaySession(w http.ResponseWriter, r *http.Request, id string, params PlaySessionParams)
}

// MiddlewareFunc wraps every ServerInterface route.
type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper binds parameters and dispatches to the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	return h
}

func (siw *ServerInterfaceWrapper) pathParam(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetHealth)).ServeHTTP(w, r)
}

// GetInfo operation middleware
func (siw *ServerInterfaceWrapper) GetInfo(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetInfo)).ServeHTTP(w, r)
}

// ListAlgorithms operation middleware
func (siw *ServerInterfaceWrapper) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.ListAlgorithms)).ServeHTTP(w, r)
}

// CreateTrace operation middleware
func (siw *ServerInterfaceWrapper) CreateTrace(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.CreateTrace)).ServeHTTP(w, r)
}

// GetTrace operation middleware
func (siw *ServerInterfaceWrapper) GetTrace(w http.ResponseWriter, r *http.Request) {
	var kind string
	if !siw.pathParam(w, r, "kind", &kind) {
		return
	}

	var params GetTraceParams
	if err := runtime.BindQueryParameter("form", true, false, "index", r.URL.Query(), &params.Index); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "index", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetTrace(w, r, kind, params)
	})).ServeHTTP(w, r)
}

// ListSessions operation middleware
func (siw *ServerInterfaceWrapper) ListSessions(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.ListSessions)).ServeHTTP(w, r)
}

// CreateSession operation middleware
func (siw *ServerInterfaceWrapper) CreateSession(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.CreateSession)).ServeHTTP(w, r)
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !siw.pathParam(w, r, "id", &id) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSession(w, r, id)
	})).ServeHTTP(w, r)
}

// DeleteSession operation middleware
func (siw *ServerInterfaceWrapper) DeleteSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !siw.pathParam(w, r, "id", &id) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteSession(w, r, id)
	})).ServeHTTP(w, r)
}

// ApplyCommand operation middleware
func (siw *ServerInterfaceWrapper) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	var id string
	if !siw.pathParam(w, r, "id", &id) {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ApplyCommand(w, r, id)
	})).ServeHTTP(w, r)
}

// PlaySession operation middleware
func (siw *ServerInterfaceWrapper) PlaySession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !siw.pathParam(w, r, "id", &id) {
		return
	}

	var params PlaySessionParams
	if err := runtime.BindQueryParameter("form", true, false, "delay", r.URL.Query(), &params.Delay); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "delay", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PlaySession(w, r, id, params)
	})).ServeHTTP(w, r)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Get("/health", wrapper.GetHealth)
	r.Get("/info", wrapper.GetInfo)
	r.Get("/algorithms", wrapper.ListAlgorithms)
	r.Post("/traces", wrapper.CreateTrace)
	r.Get("/traces/{kind}", wrapper.GetTrace)
	r.Get("/sessions", wrapper.ListSessions)
	r.Post("/sessions", wrapper.CreateSession)
	r.Get("/sessions/{id}", wrapper.GetSession)
	r.Delete("/sessions/{id}", wrapper.DeleteSession)
	r.Post("/sessions/{id}/commands", wrapper.ApplyCommand)
	r.Get("/sessions/{id}/play", wrapper.PlaySession)
	return r
}

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return doc, nil
}
