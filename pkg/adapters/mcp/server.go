package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/simulator"
	"github.com/aretw0/stepwise/pkg/topic"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

const (
	AlgorithmsURI = "stepwise://algorithms"
	TopicsURI     = "stepwise://topics"
)

// Engine is the part of the stepwise engine the MCP server needs.
type Engine interface {
	Algorithms() []algorithms.Descriptor
	Trace(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error)
}

// AlgorithmList is the result of list_algorithms.
type AlgorithmList struct {
	Algorithms []algorithms.Descriptor `json:"algorithms" jsonschema_description:"Registered algorithms in listing order"`
}

// TraceArgs selects an algorithm and its input.
type TraceArgs struct {
	Algorithm string         `json:"algorithm"`
	Input     map[string]any `json:"input,omitempty"`
}

// TraceResult is the result of generate_trace.
type TraceResult struct {
	Algorithm   string            `json:"algorithm"`
	Fingerprint string            `json:"fingerprint"`
	Total       int               `json:"total"`
	Steps       []trace.Step[any] `json:"steps,omitempty"`
	// Annotations is the step-by-step narration, always present.
	Annotations []string `json:"annotations"`
}

// StepArgs selects one step of a trace.
type StepArgs struct {
	TraceArgs
	Index int `json:"index"`
}

// StepResult is the result of get_step.
type StepResult struct {
	Algorithm   string            `json:"algorithm"`
	Fingerprint string            `json:"fingerprint"`
	Index       int               `json:"index"`
	Total       int               `json:"total"`
	Phase       trace.Phase       `json:"phase,omitempty"`
	Annotation  string            `json:"annotation"`
	State       any               `json:"state"`
	Highlights  []trace.Highlight `json:"highlights,omitempty"`
	// Text is the plain-text drawing of the step.
	Text string `json:"text"`
}

// SimulateArgs runs a script of actions against a fresh structure.
type SimulateArgs struct {
	Structure string `json:"structure"`
	Actions   string `json:"actions"`
	Capacity  int    `json:"capacity,omitempty"`
}

// ActionOutcome is one line of a simulation.
type ActionOutcome struct {
	Action string `json:"action"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	State  string `json:"state"`
}

// SimulateResult is the result of simulate.
type SimulateResult struct {
	Structure string          `json:"structure"`
	Outcomes  []ActionOutcome `json:"outcomes"`
	Final     string          `json:"final"`
}

// Server wraps the stepwise engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	catalog   *topic.Catalog
	renderer  *render.Renderer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog exposes study topics through get_topic and stepwise://topics.
func WithCatalog(c *topic.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		renderer:  render.New(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("stepwise-mcp", strings.TrimSpace(stepwise.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_algorithms",
		mcp.WithDescription("List the algorithms that can be traced."),
		mcp.WithOutputSchema[AlgorithmList](),
	), mcp.NewStructuredToolHandler(s.handleListAlgorithms))

	s.mcpServer.AddTool(mcp.NewTool("generate_trace",
		mcp.WithDescription("Run an algorithm and return every step of its execution. Omit input to use the built-in example."),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("Algorithm kind, e.g. heap-build or dijkstra")),
		mcp.WithObject("input", mcp.Description(`Generator input, e.g. {"values":[4,10,3]} or {"source":"D"}`)),
		mcp.WithBoolean("include_states", mcp.Description("Include the full state of every step (default: annotations only)")),
	), mcp.NewStructuredToolHandler(s.handleGenerateTrace))

	s.mcpServer.AddTool(mcp.NewTool("get_step",
		mcp.WithDescription("Return one step of an algorithm's trace, with a text drawing."),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("Algorithm kind")),
		mcp.WithObject("input", mcp.Description("Generator input (optional)")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based step index")),
	), mcp.NewStructuredToolHandler(s.handleGetStep))

	s.mcpServer.AddTool(mcp.NewTool("simulate",
		mcp.WithDescription("Apply a script of actions to a fresh data structure."),
		mcp.WithString("structure", mcp.Required(), mcp.Enum(simulator.Kinds()...)),
		mcp.WithString("actions", mcp.Required(), mcp.Description(`Semicolon separated actions, e.g. "push 10; push 20; pop"`)),
		mcp.WithNumber("capacity", mcp.Description("Maximum number of items (optional)")),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	if s.catalog != nil {
		s.mcpServer.AddTool(mcp.NewTool("get_topic",
			mcp.WithDescription("Return the study notes of a topic as markdown."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Topic id, e.g. heaps")),
		), s.handleGetTopic)
	}
}

func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (AlgorithmList, error) {
	return AlgorithmList{Algorithms: s.engine.Algorithms()}, nil
}

type generateArgs struct {
	TraceArgs
	IncludeStates bool `json:"include_states,omitempty"`
}

func (s *Server) handleGenerateTrace(ctx context.Context, request mcp.CallToolRequest, args generateArgs) (TraceResult, error) {
	t, err := s.engine.Trace(ctx, args.Algorithm, args.Input)
	if err != nil {
		return TraceResult{}, err
	}
	res := TraceResult{
		Algorithm:   t.Algorithm(),
		Fingerprint: t.Fingerprint(),
		Total:       t.Len(),
		Annotations: make([]string, t.Len()),
	}
	steps := t.Steps()
	for i, st := range steps {
		res.Annotations[i] = st.Annotation
	}
	if args.IncludeStates {
		res.Steps = steps
	}
	s.logger.Debug("MCP trace generated", "algorithm", args.Algorithm, "steps", t.Len())
	return res, nil
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args StepArgs) (StepResult, error) {
	kind, err := algorithms.ParseKind(args.Algorithm)
	if err != nil {
		return StepResult{}, err
	}
	t, err := s.engine.Trace(ctx, args.Algorithm, args.Input)
	if err != nil {
		return StepResult{}, err
	}
	if args.Index < 0 || args.Index >= t.Len() {
		return StepResult{}, fmt.Errorf("index %d outside [0, %d)", args.Index, t.Len())
	}
	step := t.At(args.Index)
	text, err := s.renderer.Step(kind, step, t.Len())
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{
		Algorithm:   t.Algorithm(),
		Fingerprint: t.Fingerprint(),
		Index:       step.Index,
		Total:       t.Len(),
		Phase:       step.Phase,
		Annotation:  step.Annotation,
		State:       step.State,
		Highlights:  step.Highlights,
		Text:        text,
	}, nil
}

// handleSimulate keeps going after a rejected action; the structure is unchanged by it.
func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args SimulateArgs) (SimulateResult, error) {
	sim, err := simulator.New(args.Structure, args.Capacity)
	if err != nil {
		return SimulateResult{}, err
	}
	res := SimulateResult{Structure: sim.Name(), Outcomes: []ActionOutcome{}}
	for _, line := range strings.Split(args.Actions, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out := ActionOutcome{Action: line}
		r, err := simulator.Exec(sim, line)
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Result = r.Message
		}
		out.State = sim.String()
		res.Outcomes = append(res.Outcomes, out)
	}
	res.Final = sim.String()
	return res, nil
}

func (s *Server) handleGetTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.catalog.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(topic.Markdown(rec)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(AlgorithmsURI, "Traceable algorithms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(AlgorithmsURI, s.engine.Algorithms())
	})

	if s.catalog != nil {
		s.mcpServer.AddResource(mcp.NewResource(TopicsURI, "Study topics",
			mcp.WithMIMEType("application/json"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return jsonResource(TopicsURI, s.catalog.List())
		})
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
