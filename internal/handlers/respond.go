package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tubestream/backend/internal/logging"
	"github.com/tubestream/backend/internal/videos"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// writeServiceError translates service-layer errors into HTTP responses:
// bad input and unknown identifiers become 400s with the cause, everything
// else becomes a generic 500.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, videos.ErrVideoNotFound),
		errors.Is(err, videos.ErrUserNotFound),
		errors.Is(err, videos.ErrEmptyUpload),
		errors.Is(err, videos.ErrInvalidStatus):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
