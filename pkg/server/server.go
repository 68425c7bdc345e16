// Package server exposes compiler sessions over HTTP.
//
// A session owns one compiled expression. Clients create it with an
// expression, recompile it in place, and read its layout, edges or a
// rendering. Sessions are persisted through a [session.Manager], so any
// instance sharing the store can serve them.
//
//	POST   /v1/sessions                 {"expression": "...", "strict": false}
//	GET    /v1/sessions/{id}
//	PUT    /v1/sessions/{id}            {"expression": "...", "strict": false}
//	DELETE /v1/sessions/{id}
//	GET    /v1/sessions/{id}/layout     ?width=&height=
//	GET    /v1/sessions/{id}/edges
//	GET    /v1/sessions/{id}/render     ?format=&width=&height=&style=&viz=&result=
//	POST   /v1/evaluate                 stateless compile and layout
//	GET    /healthz
//	GET    /metrics                     when Config.Metrics is set
//
// Errors are JSON objects {"code": "...", "message": "..."} using the codes
// of package errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/exprtree/pkg/observability"
	"github.com/matzehuels/exprtree/pkg/pipeline"
	"github.com/matzehuels/exprtree/pkg/session"
)

// maxBodyBytes bounds request bodies. Expressions are limited far below it.
const maxBodyBytes = 64 << 10

// Config wires the server's dependencies.
type Config struct {
	Sessions *session.Manager
	Runner   *pipeline.Runner
	Logger   *log.Logger
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

type server struct {
	sessions *session.Manager
	runner   *pipeline.Runner
	logger   *log.Logger
}

// NewHandler returns the HTTP handler for cfg. A nil Runner gets an
// uncached one; a nil Sessions gets an in-memory manager.
func NewHandler(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
	}
	s := &server{sessions: cfg.Sessions, runner: cfg.Runner, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.evaluate)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Put("/", s.updateSession)
				r.Delete("/", s.deleteSession)
				r.Get("/layout", s.sessionLayout)
				r.Get("/edges", s.sessionEdges)
				r.Get("/render", s.renderSession)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports every request to the HTTP hooks, labelled with the
// matched route pattern rather than the raw path.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler panicked", "panic", rec, "path", r.URL.Path)
				s.writeError(w, r, errInternal(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
