package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "workpaper/pkg/domain"
	"workpaper/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the acting identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.IdentityID, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errCode + `","error_description":"` + errDesc + `"}`))
}

// RequireActor authenticates the request's bearer token and stores the
// acting identity in the request context. Handlers read it back with
// requestcontext.ActorID.
func RequireActor(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			actorID, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithActorID(r.Context(), actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
