package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/tubestream/backend/internal/auth"
	"github.com/tubestream/backend/internal/logging"
	"github.com/tubestream/backend/internal/videos"
)

// VideoHandler provides the video upload, metadata, and engagement endpoints.
type VideoHandler struct {
	Videos  VideoService
	Uploads RateLimiter
}

// Collection handles POST and PUT /api/videos.
func (h VideoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.upload(w, r)
	case http.MethodPut:
		h.edit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h VideoHandler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Uploads, r, "upload") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many uploads"})
		return
	}

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	upload, file, ok := formFileUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.Videos.Upload(ctx, upload, principal.Sub)
	if err != nil {
		logger.Error("video upload failed", "error", err)
		writeServiceError(ctx, w, err)
		return
	}

	w.Header().Set("Location", result.VideoURL)
	respondJSON(ctx, w, http.StatusCreated, result)
}

func (h VideoHandler) edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var dto videos.VideoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		logger.Warn("invalid video metadata payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if dto.ID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	updated, err := h.Videos.Edit(ctx, dto)
	if err != nil {
		logger.Warn("video metadata update failed", "videoId", dto.ID, "error", err)
		writeServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, updated)
}

// UploadThumbnail handles POST /api/videos/thumbnail.
func (h VideoHandler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID := r.URL.Query().Get("videoId")
	if videoID == "" {
		videoID = r.FormValue("videoId")
	}
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "videoId is required"})
		return
	}

	upload, file, ok := formFileUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.Videos.UploadThumbnail(ctx, upload, videoID)
	if err != nil {
		logger.Warn("thumbnail upload failed", "videoId", videoID, "error", err)
		writeServiceError(ctx, w, err)
		return
	}

	w.Header().Set("Location", url)
	respondJSON(ctx, w, http.StatusCreated, map[string]string{"thumbnailUrl": url})
}

// ByID handles GET and DELETE /api/videos/{videoId}.
func (h VideoHandler) ByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "videoId is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		viewerSub := ""
		if principal, ok := auth.PrincipalFromContext(ctx); ok {
			viewerSub = principal.Sub
		}

		dto, err := h.Videos.Details(ctx, videoID, viewerSub)
		if err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, dto)
	case http.MethodDelete:
		if err := h.Videos.Delete(ctx, videoID); err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Like handles POST /api/videos/{videoId}/like.
func (h VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.Videos.Like)
}

// Dislike handles POST /api/videos/{videoId}/dislike.
func (h VideoHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.Videos.Dislike)
}

func (h VideoHandler) react(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, videoID, sub string) (videos.VideoDTO, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "videoId is required"})
		return
	}

	dto, err := apply(ctx, videoID, principal.Sub)
	if err != nil {
		logging.FromContext(ctx).Warn("reaction failed", "videoId", videoID, "error", err)
		writeServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, dto)
}

// formFileUpload extracts the multipart "file" field. On failure it writes a
// 400 response and reports false.
func formFileUpload(w http.ResponseWriter, r *http.Request) (videos.FileUpload, multipart.File, bool) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		logging.FromContext(ctx).Warn("missing multipart file field", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "multipart field \"file\" is required"})
		return videos.FileUpload{}, nil, false
	}

	upload := videos.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return upload, file, true
}
