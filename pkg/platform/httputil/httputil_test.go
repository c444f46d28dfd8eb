package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("unavailable omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeUnavailable, "broker down"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decodeBody(t, w)
		assert.NotContains(t, body, "error_description")
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "invalid input", body["error_description"])
	})

	t.Run("validation carries field violations", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.NewValidation("paper validation failed",
			dErrors.FieldViolation{Field: "valid_until", Message: "must be after valid_from"},
		))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		violations, ok := body["violations"].([]any)
		require.True(t, ok)
		require.Len(t, violations, 1)
		first := violations[0].(map[string]any)
		assert.Equal(t, "valid_until", first["field"])
	})

	t.Run("uncoded error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("storage not-found sentinel maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, sentinel.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "not_found", body["error"])
	})

	t.Run("storage conflict sentinel maps to 409", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, sentinel.ErrConflict)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invariant violation maps to 409", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInvariantViolation, "already reviewed"))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("timeout maps to 504", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeTimeout, "batch deadline exceeded"))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decodeBody(t, w)
	assert.Equal(t, "abc", body["id"])
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"acme"}`))

		got, ok := Decode[payload](w, r, nil, r.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "acme", got.Name)
	})

	t.Run("malformed body writes bad_request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		_, ok := Decode[payload](w, r, nil, r.Context(), "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "bad_request", body["error"])
	})
}
