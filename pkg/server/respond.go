package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/session"
)

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps err to a coded error and writes it. Errors without a code
// are logged and reported as INTERNAL_ERROR without their details.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	coded := classify(err)
	status := errs.HTTPStatus(coded.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", coded.Code, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: coded.Code, Message: coded.Message})
}

func classify(err error) *errs.Error {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		return errs.New(errs.ErrCodeSessionNotFound, "session not found")
	}
	err = errs.FromParse(err)
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return errInternal(err)
}

func errNotFound(path string) *errs.Error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s", path)
}

func errInternal(cause error) *errs.Error {
	return errs.Wrap(errs.ErrCodeInternal, cause, "internal server error")
}
