package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/amonks/lists/internal/httpstatus"
	"go.uber.org/zap"
)

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", httpstatus.ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", httpstatus.ErrBadRequest, err)
	}
	if decoder.More() {
		return fmt.Errorf("%w: unexpected trailing data", httpstatus.ErrBadRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logRequestError(r, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// fail writes err with the status it maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, httpstatus.For(err), err)
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	level := zap.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zap.ErrorLevel
	}
	s.logger.Check(level, "request failed").Write(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
}

type emptyResponse struct{}
