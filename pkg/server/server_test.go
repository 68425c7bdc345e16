package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/observability"
	"github.com/matzehuels/exprtree/pkg/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	m := session.NewManager(session.NewMemoryStore(), time.Hour)
	srv := httptest.NewServer(NewHandler(Config{Sessions: m, Logger: logger}))
	t.Cleanup(srv.Close)
	return srv, m
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func createSession(t *testing.T, srv *httptest.Server, expression string) sessionResponse {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/sessions", compileRequest{Expression: expression})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	return decode[sessionResponse](t, resp)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if h := decode[healthResponse](t, resp); h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	created := createSession(t, srv, "2+3*4")
	if created.Result != "14" || created.Count != 5 || created.MaxDepth != 3 {
		t.Errorf("created = %+v", created)
	}
	url := srv.URL + "/v1/sessions/" + created.ID

	got := decode[sessionResponse](t, do(t, http.MethodGet, url, nil))
	if got.Expression != "2+3*4" {
		t.Errorf("get expression = %q", got.Expression)
	}

	resp := do(t, http.MethodPut, url, compileRequest{Expression: "(2+3)*4"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	if updated := decode[sessionResponse](t, resp); updated.Result != "20" {
		t.Errorf("updated result = %s, want 20", updated.Result)
	}

	// A failed recompile keeps the previous tree.
	resp = do(t, http.MethodPut, url, compileRequest{Expression: "(1+"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad put status = %d, want 422", resp.StatusCode)
	}
	if got := decode[sessionResponse](t, do(t, http.MethodGet, url, nil)); got.Result != "20" {
		t.Errorf("result after failed put = %s, want 20", got.Result)
	}

	if resp := do(t, http.MethodDelete, url, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
	if e := decode[errorResponse](t, resp); e.Code != errs.ErrCodeSessionNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestSessionDiagnostics(t *testing.T) {
	srv, _ := newTestServer(t)

	lenient := createSession(t, srv, "(1+2")
	if len(lenient.Diagnostics) != 1 || lenient.Diagnostics[0].Code != "MISMATCHED_PARENTHESIS" {
		t.Errorf("diagnostics = %+v", lenient.Diagnostics)
	}

	resp := do(t, http.MethodPost, srv.URL+"/v1/sessions", compileRequest{Expression: "(1+2", Strict: true})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("strict status = %d", resp.StatusCode)
	}
	e := decode[errorResponse](t, resp)
	if e.Code != errs.ErrCodeInvalidExpression || !strings.HasPrefix(e.Message, "MISMATCHED_PARENTHESIS") {
		t.Errorf("error = %+v", e)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{"not json", "{", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"unknown field", `{"expr":"1"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"empty", `{"expression":"  "}`, http.StatusUnprocessableEntity, errs.ErrCodeInvalidExpression},
		{"malformed", `{"expression":"1+"}`, http.StatusUnprocessableEntity, errs.ErrCodeInvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/sessions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decode[errorResponse](t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestSessionLayoutAndEdges(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv, "1+2")
	url := srv.URL + "/v1/sessions/" + created.ID

	resp := do(t, http.MethodGet, url+"/layout?width=400&height=200", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout status = %d", resp.StatusCode)
	}
	l := decode[graph.Layout](t, resp)
	if l.Width != 400 || len(l.Nodes) != 3 {
		t.Errorf("layout = %+v", l)
	}
	if n := l.Nodes[0]; n.X != 100 || n.Y != 132 {
		t.Errorf("node 0 at (%d, %d), want (100, 132)", n.X, n.Y)
	}

	edges := decode[edgesResponse](t, do(t, http.MethodGet, url+"/edges", nil))
	if len(edges.Edges) != 2 || edges.Edges[0].From != 1 {
		t.Errorf("edges = %+v", edges.Edges)
	}

	tests := []struct {
		query string
		code  errs.Code
	}{
		{"width=abc", errs.ErrCodeInvalidDimensions},
		{"width=-5", errs.ErrCodeInvalidDimensions},
		{"height=999999", errs.ErrCodeInvalidDimensions},
	}
	for _, tt := range tests {
		resp := do(t, http.MethodGet, url+"/layout?"+tt.query, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", tt.query, resp.StatusCode)
		}
		if e := decode[errorResponse](t, resp); e.Code != tt.code {
			t.Errorf("%s: code = %s", tt.query, e.Code)
		}
	}
}

func TestRenderSession(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv, "(2+3)*4")
	url := srv.URL + "/v1/sessions/" + created.ID + "/render"

	tests := []struct {
		query       string
		contentType string
		contains    string
	}{
		{"", "image/svg+xml", "<svg"},
		{"format=svg&style=blueprint&result=true", "image/svg+xml", "= 20"},
		{"format=dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"format=json", "application/json", `"result": "20"`},
		{"format=txt", "text/plain; charset=utf-8", "*"},
		{"format=svg&viz=nodelink", "image/svg+xml", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, url+"?"+tt.query, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}

	resp := do(t, http.MethodGet, url+"?format=gif", nil)
	if e := decode[errorResponse](t, resp); e.Code != errs.ErrCodeInvalidFormat {
		t.Errorf("gif code = %s", e.Code)
	}
	resp = do(t, http.MethodGet, url+"?style=neon", nil)
	if e := decode[errorResponse](t, resp); e.Code != errs.ErrCodeInvalidStyle {
		t.Errorf("neon code = %s", e.Code)
	}
}

func TestEvaluate(t *testing.T) {
	srv, m := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/v1/evaluate", evaluateRequest{
		compileRequest: compileRequest{Expression: "2*-3"},
		Width:          300,
		Height:         300,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	l := decode[graph.Layout](t, resp)
	if l.Result != "-6" || len(l.Edges) != 2 {
		t.Errorf("layout = %+v", l)
	}
	if m.Len() != 0 {
		t.Error("evaluate should not create sessions")
	}
}

func TestSessionsSharedAcrossInstances(t *testing.T) {
	store := session.NewMemoryStore()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	a := httptest.NewServer(NewHandler(Config{Sessions: session.NewManager(store, time.Hour), Logger: logger}))
	defer a.Close()
	b := httptest.NewServer(NewHandler(Config{Sessions: session.NewManager(store, time.Hour), Logger: logger}))
	defer b.Close()

	created := createSession(t, a, "10/4")
	got := decode[sessionResponse](t, do(t, http.MethodGet, b.URL+"/v1/sessions/"+created.ID, nil))
	if got.Result != "2.5" {
		t.Errorf("result on second instance = %s, want 2.5", got.Result)
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/v2/nothing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if e := decode[errorResponse](t, resp); e.Code != errs.ErrCodeNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestObserveUsesRoutePattern(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv, _ := newTestServer(t)
	created := createSession(t, srv, "1")
	do(t, http.MethodGet, srv.URL+"/v1/sessions/"+created.ID+"/edges", nil)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{"POST /v1/sessions", "GET /v1/sessions/{id}/edges"}
	if strings.Join(hooks.routes, "|") != strings.Join(want, "|") {
		t.Errorf("routes = %v, want %v", hooks.routes, want)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("exprtree_up 1\n"))
	})
	srv := httptest.NewServer(NewHandler(Config{Metrics: metrics, Logger: log.NewWithOptions(io.Discard, log.Options{})}))
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/metrics", nil)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "exprtree_up") {
		t.Errorf("metrics body = %q", body)
	}
}
