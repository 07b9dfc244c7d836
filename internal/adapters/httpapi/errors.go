package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

// CodedError attaches an HTTP status to err
func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

// CodedErrorf formats a message and attaches an HTTP status to it
func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

// errorResponse is the body of every failed request, shaped like a
// classification so the UI renders it the same way
type errorResponse struct {
	Category          string `json:"categoria"`
	SuggestedResponse string `json:"resposta_sugerida"`
}

// RestHandler adapts a handler returning a value or an error into an
// http.HandlerFunc writing JSON
func RestHandler(logger *zap.Logger, handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			code := http.StatusInternalServerError
			var cerr *codedError
			if errors.As(err, &cerr) {
				code = cerr.code
			} else {
				logger.Error("received non coded error from endpoint", zap.String("path", r.URL.Path), zap.Error(err))
			}
			if code == http.StatusInternalServerError {
				logger.Error("internal server error received in endpoint", zap.String("path", r.URL.Path), zap.Error(err))
			}
			writeJSON(w, logger, code, errorResponse{Category: core.CategoryError, SuggestedResponse: err.Error()})
			return
		}

		if res == nil {
			res = struct{}{}
		}
		writeJSON(w, logger, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		logger.Error("error serializing response body", zap.Error(err))
	}
}
