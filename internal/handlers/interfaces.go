package handlers

import (
	"context"

	"github.com/tubestream/backend/internal/videos"
)

// VideoService captures the video workflows required by the HTTP handlers.
type VideoService interface {
	Upload(ctx context.Context, upload videos.FileUpload, ownerSub string) (videos.UploadResult, error)
	Edit(ctx context.Context, dto videos.VideoDTO) (videos.VideoDTO, error)
	UploadThumbnail(ctx context.Context, upload videos.FileUpload, videoID string) (string, error)
	Delete(ctx context.Context, videoID string) error
	Details(ctx context.Context, videoID, viewerSub string) (videos.VideoDTO, error)
	Like(ctx context.Context, videoID, sub string) (videos.VideoDTO, error)
	Dislike(ctx context.Context, videoID, sub string) (videos.VideoDTO, error)
}

// RegistrationService registers the authenticated caller from their
// identity-provider profile.
type RegistrationService interface {
	Register(ctx context.Context, token string) error
}
