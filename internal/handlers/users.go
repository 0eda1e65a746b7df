package handlers

import (
	"net/http"

	"github.com/tubestream/backend/internal/auth"
	"github.com/tubestream/backend/internal/logging"
)

// UserHandler provides the registration endpoint.
type UserHandler struct {
	Registration  RegistrationService
	Registrations RateLimiter
}

// Register handles GET /api/user/register.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Registrations, r, "register") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many registration attempts"})
		return
	}

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.Registration.Register(ctx, principal.Token); err != nil {
		logger.Error("user registration failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "error registering user"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}
