package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and returns its subject.
// auth.Authenticator satisfies it.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// NewBearerAuthHandler returns a middleware that rejects requests lacking a
// valid "Authorization: Bearer <token>" header with 401 Unauthorized. The
// token subject is not forwarded down the chain; the API serves a single
// account.
func NewBearerAuthHandler(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			if _, err := tokens.Verify(token); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes the API's standard error envelope from middleware,
// which sits below the handler package and cannot use its helpers.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing useful to do with a failed error write
	json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}
