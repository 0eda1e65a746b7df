package videos

import (
	"io"

	"github.com/tubestream/backend/internal/models"
)

// FileUpload carries a single multipart upload into the service layer.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult is returned after a successful video upload.
type UploadResult struct {
	VideoID  string `json:"videoId"`
	VideoURL string `json:"videoUrl"`
}

// VideoDTO is the boundary representation of a video's metadata.
type VideoDTO struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Tags         []string           `json:"tags"`
	VideoURL     string             `json:"videoUrl"`
	Status       models.VideoStatus `json:"videoStatus"`
	ThumbnailURL string             `json:"thumbnailUrl"`
	Likes        int                `json:"likes"`
	Dislikes     int                `json:"dislikes"`
	ViewCount    int                `json:"viewCount"`
}

func dtoFromVideo(v models.Video) VideoDTO {
	return VideoDTO{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Tags:         v.Tags,
		VideoURL:     v.VideoURL,
		Status:       v.Status,
		ThumbnailURL: v.ThumbnailURL,
		Likes:        v.Likes,
		Dislikes:     v.Dislikes,
		ViewCount:    v.ViewCount,
	}
}
