// Package requestid provides middleware for request correlation. Every
// request gets an id, propagated from X-Request-ID when the client sent one,
// so audit events and logs can be joined across services.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"workpaper/pkg/requestcontext"
)

const Header = "X-Request-ID"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
