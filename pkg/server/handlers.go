package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/exprtree/pkg/buildinfo"
	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/pipeline"
	"github.com/matzehuels/exprtree/pkg/session"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type compileRequest struct {
	Expression string `json:"expression"`
	Strict     bool   `json:"strict"`
}

type evaluateRequest struct {
	compileRequest
	Width  int `json:"width"`
	Height int `json:"height"`
}

type sessionResponse struct {
	ID          string             `json:"id"`
	Expression  string             `json:"expression"`
	Strict      bool               `json:"strict"`
	Result      string             `json:"result"`
	Count       int                `json:"count"`
	// MaxDepth is the number of levels: 1 for a single number.
	MaxDepth    int                `json:"max_depth"`
	Diagnostics []graph.Diagnostic `json:"diagnostics"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
}

type edgesResponse struct {
	Edges []graph.Edge `json:"edges"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	rec := s.Record()
	resp := sessionResponse{
		ID:          rec.ID,
		Expression:  rec.Expression,
		Strict:      rec.Strict,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		Diagnostics: []graph.Diagnostic{},
	}
	if !rec.ExpiresAt.IsZero() {
		resp.ExpiresAt = &rec.ExpiresAt
	}
	if t := s.Tree(); t != nil {
		resp.Result = t.ResultString()
		resp.Count = t.Count()
		resp.MaxDepth = t.MaxDepth()
		if ds := graph.FromDiagnostics(t.Diagnostics); ds != nil {
			resp.Diagnostics = ds
		}
	}
	return resp
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errs.ValidateExpression(req.Expression); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Create(r.Context(), req.Expression, req.Strict)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID(), "result", sess.Tree().ResultString())
	w.Header().Set("Location", "/v1/sessions/"+sess.ID())
	s.writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errs.ValidateExpression(req.Expression); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), req.Expression, req.Strict)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) sessionLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts, err := frameOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), sess.Tree(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *server) sessionEdges(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	g := graph.FromTree(sess.Tree())
	s.writeJSON(w, http.StatusOK, edgesResponse{Edges: g.Edges})
}

func (s *server) renderSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts, err := frameOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Style = q.Get("style")
	opts.VizType = q.Get("viz")
	opts.Result, _ = strconv.ParseBool(q.Get("result"))
	opts.Detailed, _ = strconv.ParseBool(q.Get("detailed"))

	t := sess.Tree()
	l, err := s.runner.Layout(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), t, l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *server) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{
		Expression: req.Expression,
		Strict:     req.Strict,
		Width:      req.Width,
		Height:     req.Height,
	}
	t, err := s.runner.Compile(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

// =============================================================================
// Helpers
// =============================================================================

// session resolves the {id} URL parameter, writing the error response when
// the session cannot be served.
func (s *server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if sess.Tree() == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "session has no compiled expression"))
		return nil, false
	}
	return sess, true
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// frameOptions reads width and height query parameters. Missing values take
// the pipeline defaults; range checks happen in the runner.
func frameOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()
	for name, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidDimensions, "%s must be an integer, got %q", name, v)
		}
		*dst = n
	}
	return opts, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatYAML:
		return "application/yaml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

