package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workpaper/pkg/requestcontext"
)

func TestMiddlewarePropagatesClientRequestID(t *testing.T) {
	var got string
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = requestcontext.RequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(Header, "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, "client-supplied-id", got)
	assert.Equal(t, "client-supplied-id", rec.Header().Get(Header))
}

func TestMiddlewareGeneratesRequestID(t *testing.T) {
	var got string
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = requestcontext.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, rec.Header().Get(Header))
}
