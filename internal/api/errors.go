package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorBody is the structured error payload echoed on every rejection.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// errorEnvelope is the response body written for every error.
type errorEnvelope struct {
	OK    bool      `json:"ok"`
	Error errorBody `json:"error"`
}

// dataEnvelope is the response body written for every success.
type dataEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// Error codes. The first four are the authentication/authorisation taxonomy;
// the rest cover the conventional handler failures.
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeAuthError    = "AUTH_ERROR"

	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeData writes a success response wrapped in the standard envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataEnvelope{OK: true, Data: v})
}

// writeError writes a structured error response. The request id comes from
// the request-id middleware; the timestamp is the rejection time in UTC.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{
		OK: false,
		Error: errorBody{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(r),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeValidationError writes a 400 validation error response.
func writeValidationError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, ErrCodeValidation, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, message)
}
