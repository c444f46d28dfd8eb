package testutil

import (
	"context"
	"net/http"
	"time"

	id "workpaper/pkg/domain"
	"workpaper/pkg/requestcontext"
)

// WithActor adds an authenticated actor to the request context, simulating
// what the token middleware does for authenticated requests. Invalid ids are
// silently ignored so tests can exercise the unauthenticated path.
func WithActor(req *http.Request, actorID string) *http.Request {
	parsed, err := id.ParseIdentityID(actorID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithActorID(req.Context(), parsed))
}

// WithRequestID adds a correlation id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithFrozenTime pins the request-scoped clock, so role derivation and paper
// expiry checks in the handler under test observe a fixed instant.
func WithFrozenTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}

// WithClientMetadata populates the client IP, user agent, and device summary
// the way the metadata middleware would.
func WithClientMetadata(req *http.Request, clientIP, userAgent, device string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent, device))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
