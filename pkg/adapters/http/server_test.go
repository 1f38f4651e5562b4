package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/stepwise"
	stephttp "github.com/aretw0/stepwise/pkg/adapters/http"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceDoc struct {
	Algorithm   string `json:"algorithm"`
	Fingerprint string `json:"fingerprint"`
	Steps       []struct {
		Index int `json:"index"`
	} `json:"steps"`
}

type viewDoc struct {
	Session struct {
		ID    string `json:"id"`
		Index int    `json:"index"`
	} `json:"session"`
	Total int `json:"total"`
	Step  struct {
		Index int `json:"index"`
	} `json:"step"`
}

func newHandler(t *testing.T, opts ...stephttp.Option) http.Handler {
	t.Helper()
	engine, err := stepwise.New()
	require.NoError(t, err)
	mgr := session.NewManager(memory.NewStore(), engine)
	h, err := stephttp.NewHandler(engine, mgr, opts...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSwaggerIsValid(t *testing.T) {
	doc, err := stephttp.GetSwagger()
	require.NoError(t, err)
	assert.NoError(t, doc.Validate(t.Context()))
}

func TestHealthAndInfo(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	info := decode[stephttp.Info](t, do(t, h, "GET", "/info", ""))
	assert.Equal(t, "stepwise-http", info.App)
	assert.Equal(t, strings.TrimSpace(stepwise.Version), info.Version)
	assert.Equal(t, "1.0.0", info.APIVersion)

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestListAlgorithms(t *testing.T) {
	h := newHandler(t)
	algs := decode[[]map[string]string](t, do(t, h, "GET", "/algorithms", ""))
	require.Len(t, algs, 14)
	assert.Equal(t, "heap-build", algs[0]["kind"])
}

func TestCreateTrace(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "POST", "/traces", `{"algorithm":"heap-build"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc := decode[traceDoc](t, w)
	assert.Equal(t, "heap-build", doc.Algorithm)
	assert.Len(t, doc.Steps, 6)
	assert.NotEmpty(t, doc.Fingerprint)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown algorithm", `{"algorithm":"bogosort"}`, http.StatusNotFound},
		{"missing algorithm", `{"input":{}}`, http.StatusBadRequest},
		{"value out of range", `{"algorithm":"heap-build","input":{"values":[1,1000]}}`, http.StatusBadRequest},
		{"malformed json", `{"algorithm":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/traces", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[stephttp.Error](t, w).Error)
		})
	}
}

func TestGetTraceStep(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "GET", "/traces/huffman?index=5", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	step := decode[stephttp.StepResponse](t, w)
	assert.Equal(t, 6, step.Total)
	assert.Equal(t, 5, step.Step.Index)

	w = do(t, h, "GET", "/traces/dijkstra", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dijkstra", decode[traceDoc](t, w).Algorithm)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/traces/huffman?index=6", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/traces/huffman?index=abc", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/traces/nope", "").Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "POST", "/sessions", `{"algorithm":"quicksort-partition"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[viewDoc](t, w)
	id := created.Session.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "/sessions/"+id, w.Header().Get("Location"))
	assert.Equal(t, 9, created.Total)

	for range 2 {
		w = do(t, h, "POST", "/sessions/"+id+"/commands", `{"command":"next"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, 2, decode[viewDoc](t, w).Step.Index)

	w = do(t, h, "POST", "/sessions/"+id+"/commands", `{"command":"seek","index":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8, decode[viewDoc](t, w).Session.Index, "seek clamps")

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/sessions/"+id+"/commands", `{"command":"jump"}`).Code)

	got := decode[viewDoc](t, do(t, h, "GET", "/sessions/"+id, ""))
	assert.Equal(t, 8, got.Step.Index)

	assert.Equal(t, []string{id}, decode[[]string](t, do(t, h, "GET", "/sessions", "")))

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", "/sessions/"+id, "").Code)
	assert.Equal(t, []string{}, decode[[]string](t, do(t, h, "GET", "/sessions", "")))
}

func TestRateLimit(t *testing.T) {
	h := newHandler(t, stephttp.WithRateLimit(0.001, 1))

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/health", "").Code)
	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	engine, err := stepwise.New(stepwise.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	h, err := stephttp.NewHandler(engine, session.NewManager(memory.NewStore(), engine),
		stephttp.WithMetrics(metrics.Handler()))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/traces", `{"algorithm":"bfs"}`).Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stepwise_traces_total{algorithm="bfs",cached="false"} 1`)
}

func TestPlaySession(t *testing.T) {
	h := newHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	w := do(t, h, "POST", "/sessions", `{"algorithm":"huffman"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[viewDoc](t, w).Session.ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/play?delay=1"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var indexes []int
	for {
		var v viewDoc
		if err := conn.ReadJSON(&v); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		indexes = append(indexes, v.Step.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, indexes)

	got := decode[viewDoc](t, do(t, h, "GET", "/sessions/"+id, ""))
	assert.Equal(t, 5, got.Session.Index, "the reached index is saved")

	w = do(t, h, "GET", "/sessions/"+id+"/play", "")
	assert.Equal(t, http.StatusConflict, w.Code, "nothing left to play")

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/sessions/"+id+"/play?delay=0", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/sessions/missing/play", "").Code)
}
