package handlers

import "net/http"

// HealthPath is exempt from bearer-token authentication.
const HealthPath = "/api/videos/health"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	videos := VideoHandler{Videos: deps.Videos, Uploads: deps.UploadLimiter}
	users := UserHandler{Registration: deps.Registration, Registrations: deps.RegistrationLimiter}

	mux.HandleFunc(HealthPath, health.Handle)
	mux.HandleFunc("/api/videos", videos.Collection)
	mux.HandleFunc("/api/videos/thumbnail", videos.UploadThumbnail)
	mux.HandleFunc("/api/videos/{videoId}", videos.ByID)
	mux.HandleFunc("/api/videos/{videoId}/like", videos.Like)
	mux.HandleFunc("/api/videos/{videoId}/dislike", videos.Dislike)
	mux.HandleFunc("/api/user/register", users.Register)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Videos              VideoService
	Registration        RegistrationService
	UploadLimiter       RateLimiter
	RegistrationLimiter RateLimiter
}
