package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if stderrors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCycleRejected, errors.ErrCodeInvalidOperation:
		return http.StatusConflict
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSnapshot, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStrategy, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if status == http.StatusNotFound && code == "" {
		code = errors.ErrCodeNotFound
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body capped at the server's limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
