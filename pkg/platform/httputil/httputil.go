// Package httputil centralizes JSON response writing and request decoding for
// the thin HTTP layer, so handlers stay free of status-mapping logic.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error            string                   `json:"error"`
	ErrorDescription string                   `json:"error_description,omitempty"`
	Violations       []dErrors.FieldViolation `json:"violations,omitempty"`
}

// statusFor maps domain error codes to HTTP status codes. Exhaustive over the
// codes the services emit; anything unknown is treated as internal.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError renders a coded error. Internal errors omit the description so
// infrastructure details never leak to clients; validation errors carry the
// complete field violation list.
func WriteError(w http.ResponseWriter, err error) {
	// Storage sentinels that reach the transport untranslated still get the
	// right status instead of collapsing into an internal error.
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		err = dErrors.New(dErrors.CodeNotFound, "resource not found")
	case errors.Is(err, sentinel.ErrConflict):
		err = dErrors.New(dErrors.CodeConflict, "resource was modified concurrently")
	}
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeUnavailable {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body.ErrorDescription = de.Message()
			body.Violations = de.Violations()
		} else {
			body.ErrorDescription = err.Error()
		}
	}
	WriteJSON(w, statusFor(code), body)
}

// Decode parses a JSON request body into T, logging and responding with a
// bad_request error on failure. Returns false when the response has already
// been written.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		return req, false
	}
	return req, true
}
