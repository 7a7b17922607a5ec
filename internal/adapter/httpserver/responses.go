// Package httpserver contains HTTP handlers and middleware.
//
// It provides the REST API of the service. AI-dependent endpoints never map
// upstream failures to error statuses; they return a degraded 200 response
// with a source tag instead. Only malformed requests produce error envelopes.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	if errors.Is(err, domain.ErrInvalidArgument) {
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
