package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tubestream/backend/internal/auth"
	"github.com/tubestream/backend/internal/logging"
)

// TokenVerifier validates a raw bearer token and resolves the caller.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (auth.Principal, error)
}

// Authenticate enforces bearer-token authentication on every request except
// the listed exempt paths. The validated principal is stored on the request
// context for handlers to pass into service calls.
func Authenticate(verifier TokenVerifier, exemptPaths ...string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			logger := logging.FromContext(r.Context())

			raw := bearerToken(r)
			if raw == "" {
				logger.Warn("missing bearer token", "path", r.URL.Path)
				writeUnauthorized(w, "missing bearer token")
				return
			}

			principal, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("bearer token rejected", "path", r.URL.Path, "error", err)
				writeUnauthorized(w, "invalid bearer token")
				return
			}

			ctx := auth.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
